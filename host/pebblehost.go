package host

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"
	lru "github.com/hashicorp/golang-lru/v2"
)

// key prefixes give each of the three host-owned key families its own
// single-byte tag ahead of the binary key, so they can share one flat
// Pebble keyspace without colliding.
const (
	prefixTyped   = 't'
	prefixCounter = 'c'
	prefixDescr   = 'd'
)

// PebbleHost is a Host backed by a Pebble LSM (github.com/cockroachdb/
// pebble). It is what cmd/auscoutd opens by default.
type PebbleHost struct {
	db *pebble.DB

	// descrCache bounds repeated reads of the `<key>:<id>` description
	// side key -- a small trade of memory for avoiding a Pebble read on
	// every repeated lookup of a read-mostly side channel.
	descrCache *lru.Cache[string, string]
}

// OpenPebbleHost opens (creating if absent) a Pebble store at dir.
func OpenPebbleHost(dir string) (*PebbleHost, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	cache, err := lru.New[string, string](4096)
	if err != nil {
		return nil, err
	}
	return &PebbleHost{db: db, descrCache: cache}, nil
}

func (h *PebbleHost) Close() error {
	return h.db.Close()
}

// Collector exposes Pebble's own LSM metrics to the caller's
// prometheus.Registry (see pebble_collector.go).
func (h *PebbleHost) Collector() *PebbleCollector {
	return NewPebbleCollector(h)
}

func typedKey(key string) []byte   { return append([]byte{prefixTyped, ':'}, key...) }
func counterKey(key string) []byte { return append([]byte{prefixCounter, ':'}, key...) }
func descrDBKey(key string, id int64) []byte {
	b := append([]byte{prefixDescr, ':'}, key...)
	b = append(b, ':')
	return binary.BigEndian.AppendUint64(b, uint64(id))
}

func (h *PebbleHost) GetTyped(key string) (TypeTag, []byte, bool) {
	val, closer, err := h.db.Get(typedKey(key))
	if err != nil {
		return "", nil, false
	}
	defer closer.Close()
	if len(val) < 1 {
		return "", nil, false
	}
	tagLen := int(val[0])
	tag := TypeTag(val[1 : 1+tagLen])
	snapshot := append([]byte(nil), val[1+tagLen:]...)
	return tag, snapshot, true
}

func (h *PebbleHost) SetTyped(key string, tag TypeTag, snapshot []byte) error {
	val := make([]byte, 0, 1+len(tag)+len(snapshot))
	val = append(val, byte(len(tag)))
	val = append(val, tag...)
	val = append(val, snapshot...)
	return h.db.Set(typedKey(key), val, pebble.Sync)
}

func (h *PebbleHost) DeleteTyped(key string) error {
	return h.db.Delete(typedKey(key), pebble.Sync)
}

func (h *PebbleHost) IncrBy(key string, delta int64) (int64, error) {
	ck := counterKey(key)
	var cur int64
	val, closer, err := h.db.Get(ck)
	if err == nil {
		if len(val) == 8 {
			cur = int64(binary.BigEndian.Uint64(val))
		}
		closer.Close()
	} else if err != pebble.ErrNotFound {
		return 0, err
	}
	cur += delta
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(cur))
	if err := h.db.Set(ck, buf, pebble.Sync); err != nil {
		return 0, err
	}
	return cur, nil
}

func (h *PebbleHost) DeleteCounter(key string) error {
	return h.db.Delete(counterKey(key), pebble.Sync)
}

func (h *PebbleHost) GetDescr(key string, id int64) (string, bool) {
	ck := fmt.Sprintf("%s:%d", key, id)
	if d, ok := h.descrCache.Get(ck); ok {
		return d, d != ""
	}
	val, closer, err := h.db.Get(descrDBKey(key, id))
	if err != nil {
		h.descrCache.Add(ck, "")
		return "", false
	}
	d := string(val)
	closer.Close()
	h.descrCache.Add(ck, d)
	return d, true
}

func (h *PebbleHost) SetDescr(key string, id int64, descr string) error {
	h.descrCache.Add(fmt.Sprintf("%s:%d", key, id), descr)
	return h.db.Set(descrDBKey(key, id), []byte(descr), pebble.Sync)
}

func (h *PebbleHost) DelDescr(key string, id int64) error {
	h.descrCache.Remove(fmt.Sprintf("%s:%d", key, id))
	return h.db.Delete(descrDBKey(key, id), pebble.Sync)
}

// Replicate is a no-op placeholder: wiring a real AOF/replication
// stream to other replicas is the surrounding key-value server's job.
// PebbleHost exists to exercise the storage primitives, not to
// reimplement a replica protocol.
func (h *PebbleHost) Replicate(key string, record []byte) error {
	return nil
}
