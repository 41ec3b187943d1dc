package auscout

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/audioscout/auscoutds/auscouterrors"
	"github.com/audioscout/auscoutds/utils"
)

// Snapshot serializes the whole index (the equivalent of an rdb_save):
//
//	version (uint32)
//	count_of_ids (uint64)
//	for each track, in idDict iteration order:
//	    id (int64), n_frames (uint64)
//	    n_frames records of (hash_value as uint64, pos as int64)
//
// No description strings are part of the snapshot -- those live in the
// host's own hash-typed side keys, snapshotted independently.
func (ix *Index) Snapshot() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(16 + int(ix.nEntries)*20)

	_ = binary.Write(buf, binary.BigEndian, uint32(EncodingVersion))
	_ = binary.Write(buf, binary.BigEndian, uint64(len(ix.idDict)))

	for id, tc := range ix.idDict {
		_ = binary.Write(buf, binary.BigEndian, id)
		_ = binary.Write(buf, binary.BigEndian, uint64(tc.length))
		ix.walkTrack(tc, func(_ entryRef, e *entry) {
			_ = binary.Write(buf, binary.BigEndian, uint64(e.hash))
			_ = binary.Write(buf, binary.BigEndian, int64(e.pos))
		})
	}

	return buf.Bytes()
}

// LoadSnapshot reconstructs an Index from Snapshot's output. It rejects
// any encoding version other than 0 rather than attempt a migration,
// and it takes each entry's pos straight from the stream -- positions
// are not re-derived from record order, so the duplicate-adjacent
// suppression performed at original insertion time is preserved
// exactly.
func LoadSnapshot(data []byte, opts Options, log utils.Logger) (*Index, error) {
	r := bytes.NewReader(data)

	var version uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, err
	}
	if version != EncodingVersion {
		return nil, auscouterrors.ErrEncodingVersion
	}

	var nIds uint64
	if err := binary.Read(r, binary.BigEndian, &nIds); err != nil {
		return nil, err
	}

	ix := &Index{
		opts:     opts,
		hashDict: make(map[uint32]*postingList),
		idDict:   make(map[int64]*trackChain, nIds),
	}
	ix.opts.SetDefaults()
	if log == nil {
		log = utils.NewDefaultLogger(utils.LevelDisabled)
	}
	ix.log = log

	for i := uint64(0); i < nIds; i++ {
		var id int64
		var nFrames uint64
		if err := binary.Read(r, binary.BigEndian, &id); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &nFrames); err != nil {
			return nil, err
		}

		ix.idDict[id] = &trackChain{head: nilRef, tail: nilRef}
		for f := uint64(0); f < nFrames; f++ {
			var hash64 uint64
			var pos64 int64
			if err := binary.Read(r, binary.BigEndian, &hash64); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.BigEndian, &pos64); err != nil {
				return nil, err
			}
			ref := ix.arena.alloc(id, uint32(pos64), uint32(hash64))
			ix.linkTrack(id, ref)
			ix.linkPosting(uint32(hash64), ref)
			ix.nEntries++
		}
	}

	if r.Len() != 0 {
		return ix, io.ErrUnexpectedEOF
	}
	return ix, nil
}
