package auscout

import (
	"encoding/binary"

	"github.com/audioscout/auscoutds/protocol"
)

// replayRecordType tags a replay-log record as carrying one track's
// add-family command. Uppercase, since protocol.AppendHeader only
// writes long-form headers.
const replayRecordType = 'A'

// ReplayRecords re-derives the hash sequence for every track from its
// track chain (ascending pos, the duplicate-adjacent suppression from
// the original insertion already baked in) and wraps each as a single
// TLV record: id (int64, big-endian) followed by the hash sequence as
// network-order uint32 words. This is the append-only-log rewrite
// (aof_rewrite): one add-family command per id, descriptions excluded
// (they travel over their own side-channel).
func (ix *Index) ReplayRecords() protocol.Records {
	recs := make(protocol.Records, 0, len(ix.idDict))
	for id, tc := range ix.idDict {
		body := make([]byte, 8, 8+tc.length*4)
		binary.BigEndian.PutUint64(body, uint64(id))
		ix.walkTrack(tc, func(_ entryRef, e *entry) {
			body = binary.BigEndian.AppendUint32(body, e.hash)
		})
		recs = append(recs, protocol.Record(replayRecordType, body))
	}
	return recs
}

// DecodeReplayRecord reverses one record produced by ReplayRecords,
// recovering the id and the network-order hash bytes ready to feed
// straight back into a command dispatcher's add path.
func DecodeReplayRecord(rec []byte) (id int64, hashBytes []byte, ok bool) {
	body, _ := protocol.Take(replayRecordType, rec)
	if body == nil || len(body) < 8 {
		return 0, nil, false
	}
	id = int64(binary.BigEndian.Uint64(body[:8]))
	hashBytes = body[8:]
	return id, hashBytes, true
}
