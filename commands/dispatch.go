// Package commands binds an auscout.Index to a host.Host and exposes
// the command surface (add, addtrack, del, lookup, size, count,
// delkey, list, index) plus a handful of debug commands (memory,
// config, dump). It is mostly argument parsing, ownership transfer,
// and reply shaping -- one method per command off a shared Dispatcher
// receiver.
package commands

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/audioscout/auscoutds/auscout"
	"github.com/audioscout/auscoutds/auscouterrors"
	"github.com/audioscout/auscoutds/counters"
	"github.com/audioscout/auscoutds/host"
	"github.com/audioscout/auscoutds/utils"
)

// Dispatcher holds the live, in-memory Index for every key that has
// been touched this process, exactly as a key-value server's
// user-defined-type slot would hold a pointer to the module's own
// struct: the typed value behind a key *is* the live Index, not a
// snapshot re-read on every command. Host.GetTyped/SetTyped are the
// host's save/load path (triggered explicitly via Snapshot/Restore,
// e.g. at RDB save or process start), never interleaved with the
// mutating commands below: commands against a given key are serialized
// by the host, one at a time.
type Dispatcher struct {
	h    host.Host
	log  utils.Logger
	opts auscout.Options

	mu      sync.Mutex
	indexes map[string]*auscout.Index
}

// NewDispatcher wires an Index/command layer to h. log may be nil.
func NewDispatcher(h host.Host, opts auscout.Options, log utils.Logger) *Dispatcher {
	if log == nil {
		log = utils.NewDefaultLogger(utils.LevelDisabled)
	}
	return &Dispatcher{
		h:       h,
		log:     log,
		opts:    opts,
		indexes: make(map[string]*auscout.Index),
	}
}

// resolve returns the live index for key, loading it from the host's
// typed-value slot on first touch if one was previously persisted.
// mustExist controls whether a missing key is an error (every command
// except add/addtrack requires an existing index).
func (d *Dispatcher) resolve(key string, mustExist bool) (*auscout.Index, error) {
	if ix, ok := d.indexes[key]; ok {
		return ix, nil
	}

	tag, snapshot, ok := d.h.GetTyped(key)
	if !ok {
		if mustExist {
			return nil, auscouterrors.ErrMissingKey
		}
		return nil, nil
	}
	if tag != host.TypeAuScoutDS {
		return nil, auscouterrors.ErrTypeConflict
	}
	ix, err := auscout.LoadSnapshot(snapshot, d.opts, d.log)
	if err != nil {
		return nil, errors.Wrap(err, "restoring persisted index")
	}
	d.indexes[key] = ix
	return ix, nil
}

func (d *Dispatcher) resolveOrCreate(key string) (*auscout.Index, error) {
	ix, err := d.resolve(key, false)
	if err != nil {
		return nil, err
	}
	if ix == nil {
		// A brand-new key has no typed-value slot yet; one is written
		// lazily by the first explicit Snapshot call (or by the host's
		// own RDB-save trigger), never eagerly here -- writing it now
		// would mean loading *back* an empty snapshot on the very next
		// cold resolve, which is the bug this order avoids.
		ix = auscout.NewIndex(d.opts, d.log)
		d.indexes[key] = ix
	}
	return ix, nil
}

// CommandAdd implements `add key hashbytes [id]`. idArg is the id
// argument's raw text, or "" if the caller omitted it -- parsing it is
// this method's job, not the caller's. Replies with the
// resolved/allocated id.
func (d *Dispatcher) CommandAdd(key string, hashBytes []byte, idArg string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return 0, auscouterrors.ErrArity
	}
	return d.add(key, hashBytes, "", false, idArg)
}

// CommandAddTrack implements `addtrack key hashbytes description [id]`.
func (d *Dispatcher) CommandAddTrack(key string, hashBytes []byte, descr string, idArg string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" || descr == "" {
		return 0, auscouterrors.ErrArity
	}
	return d.add(key, hashBytes, descr, true, idArg)
}

func (d *Dispatcher) add(key string, hashBytes []byte, descr string, hasDescr bool, idArg string) (int64, error) {
	words, err := auscout.DecodeWords(hashBytes)
	if err != nil {
		return 0, err
	}

	ix, err := d.resolveOrCreate(key)
	if err != nil {
		return 0, err
	}

	id, err := d.resolveID(key, idArg)
	if err != nil {
		return 0, err
	}

	if _, err := ix.Add(id, words); err != nil {
		return 0, err
	}

	if hasDescr {
		if err := d.h.SetDescr(key, id, descr); err != nil {
			// ix.Add already committed id's postings/track chain; undo it
			// rather than leave a linked id with no description behind.
			if _, delErr := ix.Del(id); delErr != nil {
				d.log.Warn("rollback after descr write failure also failed", "key", key, "id", id, "err", delErr)
			}
			return 0, err
		}
	}

	if err := d.h.Replicate(key, auscout.EncodeWords(words)); err != nil {
		d.log.Warn("replicate failed", "key", key, "id", id, "err", err)
	}

	return id, nil
}

// resolveID parses idArg, the id argument's raw text, or allocates a
// fresh one via the per-key counter if idArg is "".
func (d *Dispatcher) resolveID(key, idArg string) (int64, error) {
	if idArg == "" {
		counter := counters.NewIDCounter(d.h, key)
		n, err := counter.Next()
		if err != nil {
			return 0, err
		}
		return auscout.AllocateID(n), nil
	}
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return 0, auscouterrors.ErrParse
	}
	return id, nil
}

// CommandDel implements `del key id`. idArg is the id argument's raw
// text.
func (d *Dispatcher) CommandDel(key string, idArg string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" || idArg == "" {
		return 0, auscouterrors.ErrArity
	}
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		return 0, auscouterrors.ErrParse
	}

	ix, err := d.resolve(key, true)
	if err != nil {
		return 0, err
	}
	n, err := ix.Del(id)
	if err != nil {
		return 0, err
	}
	if err := d.h.DelDescr(key, id); err != nil {
		d.log.Warn("descr cleanup failed", "key", key, "id", id, "err", err)
	}
	return n, nil
}

// MatchReply is one lookup result: when a description exists it is
// [description, id, pos, score]; otherwise [id, pos, score]. HasDescr
// distinguishes the two -- the 3-element form is simply the 4-element
// form with Description dropped, id and pos never swap places.
type MatchReply struct {
	HasDescr   bool
	Description string
	ID          int64
	Pos         uint32
	Score       float64
}

// Reply renders a MatchReply as the wire-level slice the host would
// serialize back to the client.
func (m MatchReply) Reply() []any {
	if m.HasDescr {
		return []any{m.Description, m.ID, m.Pos, fmt.Sprintf("%g", m.Score)}
	}
	return []any{m.ID, m.Pos, fmt.Sprintf("%g", m.Score)}
}

// CommandLookup implements `lookup key hashbytes togglebytes [threshold]`.
// thresholdArg is the threshold argument's raw text, or "" if the
// caller omitted it.
func (d *Dispatcher) CommandLookup(key string, hashBytes, toggleBytes []byte, thresholdArg string) ([]MatchReply, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return nil, auscouterrors.ErrArity
	}

	hashWords, err := auscout.DecodeWords(hashBytes)
	if err != nil {
		return nil, err
	}
	toggleWords, err := auscout.DecodeWords(toggleBytes)
	if err != nil {
		return nil, err
	}

	ix, err := d.resolve(key, true)
	if err != nil {
		return nil, err
	}

	th := d.opts.Threshold
	if th == 0 {
		th = auscout.DefaultThreshold
	}
	if thresholdArg != "" {
		t, err := strconv.ParseFloat(thresholdArg, 64)
		if err != nil {
			return nil, auscouterrors.ErrParse
		}
		th = t
	}

	matches, err := ix.Lookup(hashWords, toggleWords, th)
	if err != nil {
		return nil, err
	}

	replies := make([]MatchReply, 0, len(matches))
	for _, m := range matches {
		descr, ok := d.h.GetDescr(key, m.ID)
		replies = append(replies, MatchReply{
			HasDescr:    ok,
			Description: descr,
			ID:          m.ID,
			Pos:         m.Pos,
			Score:       m.Score,
		})
	}
	return replies, nil
}

// CommandSize implements `size key`.
func (d *Dispatcher) CommandSize(key string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return 0, auscouterrors.ErrArity
	}
	ix, err := d.resolve(key, true)
	if err != nil {
		return 0, err
	}
	return ix.Size(), nil
}

// CommandCount implements `count key`.
func (d *Dispatcher) CommandCount(key string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return 0, auscouterrors.ErrArity
	}
	ix, err := d.resolve(key, true)
	if err != nil {
		return 0, err
	}
	return ix.Count(), nil
}

// CommandDelKey implements `delkey key`: every description side key is
// removed best-effort, then the counter side key, then the index
// itself.
func (d *Dispatcher) CommandDelKey(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return auscouterrors.ErrArity
	}

	ix, err := d.resolve(key, true)
	if err != nil {
		return err
	}

	for _, id := range ix.Ids() {
		if err := d.h.DelDescr(key, id); err != nil {
			d.log.Warn("descr teardown failed", "key", key, "id", id, "err", err)
		}
	}

	if err := counters.NewIDCounter(d.h, key).Delete(); err != nil {
		d.log.Warn("counter teardown failed", "key", key, "err", err)
	}

	if err := d.h.DeleteTyped(key); err != nil {
		return err
	}
	ix.Teardown()
	delete(d.indexes, key)
	return nil
}

// CommandList implements the `list` debug command.
func (d *Dispatcher) CommandList(key string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return 0, auscouterrors.ErrArity
	}
	ix, err := d.resolve(key, true)
	if err != nil {
		return 0, err
	}
	return ix.DebugListTracks(), nil
}

// CommandIndex implements the `index` debug command.
func (d *Dispatcher) CommandIndex(key string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return 0, auscouterrors.ErrArity
	}
	ix, err := d.resolve(key, true)
	if err != nil {
		return 0, err
	}
	return ix.DebugListHashes(), nil
}

// CommandMemory implements the `memory` debug command.
func (d *Dispatcher) CommandMemory(key string) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return 0, auscouterrors.ErrArity
	}
	ix, err := d.resolve(key, true)
	if err != nil {
		return 0, err
	}
	return ix.MemoryUsage(), nil
}

// CommandConfig implements the `config` debug command. It
// does not require key to name an existing index -- the constants are
// process-wide -- but still keys off of one so a per-key Options
// override (if the host ever wires one) would be visible.
func (d *Dispatcher) CommandConfig(key string) auscout.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ix, ok := d.indexes[key]; ok {
		return ix.Config()
	}
	return auscout.NewIndex(d.opts, d.log).Config()
}

// CommandDump implements the `dump` debug command: the same replay
// records aof_rewrite produces, returned directly rather than pushed
// through the host's AOF machinery.
func (d *Dispatcher) CommandDump(key string) ([][]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return nil, auscouterrors.ErrArity
	}
	ix, err := d.resolve(key, true)
	if err != nil {
		return nil, err
	}
	return ix.ReplayRecords(), nil
}

// Snapshot persists key's live index into the host's typed-value slot
// (the host's RDB-save-equivalent trigger point, never called
// automatically on a write path -- see Dispatcher's doc comment).
func (d *Dispatcher) Snapshot(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return auscouterrors.ErrArity
	}
	ix, ok := d.indexes[key]
	if !ok {
		return auscouterrors.ErrMissingKey
	}
	return d.h.SetTyped(key, host.TypeAuScoutDS, ix.Snapshot())
}

// Restore forces key's index to be (re)loaded from the host's
// typed-value slot, discarding any in-memory state for it.
func (d *Dispatcher) Restore(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if key == "" {
		return auscouterrors.ErrArity
	}
	delete(d.indexes, key)
	_, err := d.resolve(key, true)
	return err
}
