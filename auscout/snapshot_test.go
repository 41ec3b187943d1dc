package auscout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/audioscout/auscoutds/auscout"
	"github.com/audioscout/auscoutds/auscouterrors"
)

// TestSnapshotRoundTrip loosely mirrors scenario S6: populate several
// tracks of varying length, snapshot, reload into a fresh Index, and
// assert size, count, ids and every id's hash sequence survive exactly.
// Positions are not compared directly: the replay records the
// sequences are read back through carry hashes only.
func TestSnapshotRoundTrip(t *testing.T) {
	ix := auscout.NewIndex(auscout.Options{}, nil)

	tracks := map[int64][]uint32{
		1: {10, 20, 30},
		2: {1, 2, 3, 4, 5, 6, 7},
		3: {42},
	}
	for id, frames := range tracks {
		_, err := ix.Add(id, frames)
		assert.NoError(t, err)
	}

	snap := ix.Snapshot()

	loaded, err := auscout.LoadSnapshot(snap, auscout.Options{}, nil)
	assert.NoError(t, err)
	assert.Equal(t, ix.Size(), loaded.Size())
	assert.Equal(t, ix.Count(), loaded.Count())
	assert.ElementsMatch(t, ix.Ids(), loaded.Ids())

	for _, rec := range loaded.ReplayRecords() {
		id, hashBytes, ok := auscout.DecodeReplayRecord(rec)
		assert.True(t, ok)
		words, err := auscout.DecodeWords(hashBytes)
		assert.NoError(t, err)
		assert.Equal(t, tracks[id], words)
	}
}

func TestLoadSnapshotRejectsWrongVersion(t *testing.T) {
	bad := []byte{0xff, 0xff, 0xff, 0xff}
	_, err := auscout.LoadSnapshot(bad, auscout.Options{}, nil)
	assert.ErrorIs(t, err, auscouterrors.ErrEncodingVersion)
}

func TestReplayRecordsRoundTrip(t *testing.T) {
	ix := auscout.NewIndex(auscout.Options{}, nil)
	_, err := ix.Add(7, []uint32{1, 2, 3})
	assert.NoError(t, err)

	recs := ix.ReplayRecords()
	assert.Len(t, recs, 1)

	id, hashBytes, ok := auscout.DecodeReplayRecord(recs[0])
	assert.True(t, ok)
	assert.EqualValues(t, 7, id)

	words, err := auscout.DecodeWords(hashBytes)
	assert.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, words)
}
