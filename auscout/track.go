package auscout

// trackChain is the entries belonging to one track, in insertion order
// (ascending pos), linked via succ. It is the sole owner of its
// entries -- the posting index holds only non-owning relations into
// them.
type trackChain struct {
	head, tail entryRef
	length     int
}

// linkTrack appends e to idDict[id]'s chain. The chain keeps a cached
// tail so this is O(1) rather than a walk to the end on every insert.
func (ix *Index) linkTrack(id int64, ref entryRef) {
	tc := ix.idDict[id]
	e := ix.arena.get(ref)
	e.succ = nilRef
	if tc.length == 0 {
		tc.head = ref
	} else {
		ix.arena.get(tc.tail).succ = ref
	}
	tc.tail = ref
	tc.length++
}

// walkTrack calls fn for every entry owned by id's chain, head first
// (ascending pos, insertion order).
func (ix *Index) walkTrack(tc *trackChain, fn func(ref entryRef, e *entry)) {
	for ref := tc.head; ref != nilRef; {
		e := ix.arena.get(ref)
		next := e.succ
		fn(ref, e)
		ref = next
	}
}
