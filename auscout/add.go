package auscout

import "github.com/audioscout/auscoutds/auscouterrors"

// AddResult reports what Add actually did, beyond the id, for callers
// that want to log or emit metrics on entries-created.
type AddResult struct {
	ID          int64
	EntriesMade int
}

// Add inserts a new track under id, built from hashSeq in order. It
// fails with ErrDuplicateID -- and writes nothing -- if id is already
// present; id resolution (explicit vs allocated) and the description
// side-channel write are the caller's concern (see the commands
// package), not the index's.
//
// Consecutive duplicate frames are suppressed: if hashSeq[i] ==
// hashSeq[i-1] (hashSeq[-1] := 0), no entry is allocated for i and pos
// occupancy does not advance past it -- a run of identical frames
// carries no new positional information for the voting window in
// Lookup.
func (ix *Index) Add(id int64, hashSeq []uint32) (AddResult, error) {
	if _, exists := ix.idDict[id]; exists {
		return AddResult{}, auscouterrors.ErrDuplicateID
	}
	ix.idDict[id] = &trackChain{head: nilRef, tail: nilRef}

	var prev uint32
	made := 0
	for i, f := range hashSeq {
		if f == prev {
			prev = f
			continue
		}
		ref := ix.arena.alloc(id, uint32(i), f)
		ix.linkTrack(id, ref)
		ix.linkPosting(f, ref)
		ix.nEntries++
		made++
		prev = f
	}

	ix.log.Debug("added track", "id", id, "frames", len(hashSeq), "entries", made)
	return AddResult{ID: id, EntriesMade: made}, nil
}
