package auscout

import "github.com/audioscout/auscoutds/auscouterrors"

// Del removes the track owned by id: every entry is unlinked from its
// posting list and released back to the arena, then id is erased from
// idDict. It returns the number of entries deleted. Description
// side-channel cleanup is the caller's concern.
func (ix *Index) Del(id int64) (int64, error) {
	tc, ok := ix.idDict[id]
	if !ok {
		return 0, auscouterrors.ErrMissingID
	}

	deleted := int64(0)
	ix.walkTrack(tc, func(ref entryRef, e *entry) {
		ix.unlinkPosting(e.hash, ref)
		ix.arena.release(ref)
		deleted++
	})
	delete(ix.idDict, id)
	ix.nEntries -= deleted

	ix.log.Debug("deleted track", "id", id, "entries", deleted)
	return deleted, nil
}

// Ids returns every track id currently held, for delkey's side-channel
// teardown walk (it needs ids before the index itself disappears).
func (ix *Index) Ids() []int64 {
	ids := make([]int64, 0, len(ix.idDict))
	for id := range ix.idDict {
		ids = append(ids, id)
	}
	return ids
}

// Teardown releases every entry and clears both mappings. It is what
// delkey's cascade ultimately reduces to once the host has deleted the
// index's own key: every entry freed, both mappings torn down.
func (ix *Index) Teardown() {
	ix.hashDict = make(map[uint32]*postingList)
	ix.idDict = make(map[int64]*trackChain)
	ix.arena = entryArena{}
	ix.nEntries = 0
}
