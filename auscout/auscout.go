// Package auscout implements AuScoutDS, an in-memory index for audio
// fingerprint tracks. Each index instance holds per-track sequences of
// 32-bit perceptual hash frames and answers approximate-match queries
// against a probe sequence by voting across a sliding window of
// candidate ids.
//
// The package is the core described by the host-runtime coupling notes:
// it owns no network, storage, or replication code of its own. A host
// (see the host package) supplies a typed-value slot per key, an atomic
// counter side key, a hash-typed description side key, and a
// replication/snapshot callback pair; the dispatch layer (see the
// commands package) binds an Index to those primitives and to a
// command surface.
package auscout

import (
	"fmt"

	"github.com/audioscout/auscoutds/utils"
)

// Tunable constants fixed by the wire contract. Changing any of these
// changes the on-wire semantics of lookup and is not a supported
// configuration axis -- they are constants, not Options fields, on
// purpose.
const (
	// LookupEntriesPerFrameLimit bounds how many head-first posting-list
	// entries are examined per candidate hash within a single probe frame.
	LookupEntriesPerFrameLimit = 10

	// LookupSteps is the maximum probe-frame gap tolerated before a
	// tracked id's voting window is considered stale and reset.
	LookupSteps = 16

	// LookupBlock is the minimum window length (in probe frames) a
	// tracked id must reach before a confidence score is computed.
	LookupBlock = 100

	// DefaultThreshold is applied when lookup omits the threshold argument.
	DefaultThreshold = 0.30

	// MaxTogglePopcount bounds the number of set bits in a lookup toggle
	// mask, which bounds per-frame candidate expansion to 2^n. Any
	// toggle whose popcount exceeds this is a parse-time error, rather
	// than let a pathological probe frame expand unboundedly.
	MaxTogglePopcount = 12

	// EncodingVersion is the only snapshot format this build understands.
	// rdb_load refuses any other version rather than attempt migration.
	EncodingVersion = 0

	// SnapshotTypeName is the host-visible type name for a persisted index.
	SnapshotTypeName = "AuScoutDS"
)

// Options carries the tunables an Index construction site may vary, a
// small struct alongside the block of wire-fixed constants above.
type Options struct {
	// Threshold is the default the commands layer applies when a lookup
	// command omits its threshold argument, and the value Config
	// reports. Index.Lookup itself always takes an explicit threshold.
	Threshold float64
}

// SetDefaults fills in zero-valued fields of Options.
func (o *Options) SetDefaults() {
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
}

// Index is the dual mapping at the heart of AuScoutDS: hash_value to
// posting list, and id to track chain, backed by a single entry arena.
//
// An Index is not safe for concurrent use. The host serializes all
// commands against a single key; no command blocks and no command is
// suspended mid-mutation, so no internal locking is required or
// provided.
type Index struct {
	opts Options
	log  utils.Logger

	arena entryArena

	hashDict map[uint32]*postingList
	idDict   map[int64]*trackChain

	nEntries int64
}

// NewIndex creates an empty index. log may be nil, in which case a
// no-op logger is used.
func NewIndex(opts Options, log utils.Logger) *Index {
	opts.SetDefaults()
	if log == nil {
		log = utils.NewDefaultLogger(utils.LevelDisabled)
	}
	return &Index{
		opts:     opts,
		log:      log,
		hashDict: make(map[uint32]*postingList),
		idDict:   make(map[int64]*trackChain),
	}
}

// Size returns n_entries: the total number of live entries across the
// whole structure.
func (ix *Index) Size() int64 {
	return ix.nEntries
}

// Count returns the number of distinct track ids held by the index.
func (ix *Index) Count() int64 {
	return int64(len(ix.idDict))
}

// MemoryUsage estimates the index's footprint as:
//
//	n_entries*sizeof(entry) + (n_ids+n_hashes)*(sizeof(list_header)+pointer)
func (ix *Index) MemoryUsage() uint64 {
	const sizeofEntry = 4*8 + 4*4 // conservative struct footprint, see entry
	const sizeofListHeader = 8 + 8 + 8
	const sizeofPointer = 8

	n := uint64(ix.nEntries) * sizeofEntry
	n += uint64(len(ix.idDict)+len(ix.hashDict)) * (sizeofListHeader + sizeofPointer)
	return n
}

func (ix *Index) String() string {
	return fmt.Sprintf("AuScoutDS{entries=%d ids=%d hashes=%d}", ix.nEntries, len(ix.idDict), len(ix.hashDict))
}
