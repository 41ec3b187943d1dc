package auscout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/audioscout/auscoutds/auscout"
)

// TestLookupExactMatch mirrors scenario S3: a track of 5000 ascending
// frames (100, 200, ..., 500000), probed with a 500-frame window that
// starts at the track's 23rd frame (value 2300) and walks forward in
// lockstep, zero toggle. Every probe frame hits, so once the window
// reaches LookupBlock the score is 1.0 and the match fires immediately,
// reporting the first position it ever saw: pos 22 (0-indexed).
func TestLookupExactMatch(t *testing.T) {
	ix := auscout.NewIndex(auscout.Options{}, nil)

	track := make([]uint32, 5000)
	for i := range track {
		track[i] = uint32(100 * (i + 1))
	}
	_, err := ix.Add(1, track)
	assert.NoError(t, err)

	probe := make([]uint32, 500)
	toggle := make([]uint32, 500)
	for i := range probe {
		probe[i] = uint32(2300 + 100*i)
	}

	matches, err := ix.Lookup(probe, toggle, 0.80)
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.EqualValues(t, 1, matches[0].ID)
	assert.EqualValues(t, 22, matches[0].Pos)
	assert.GreaterOrEqual(t, matches[0].Score, 0.80)
}

// TestLookupThresholdNotMet mirrors scenario S4: fewer than LookupBlock
// probe frames ever fall inside any tracked id's window, so no score is
// ever computed and the result is empty, not nil.
func TestLookupThresholdNotMet(t *testing.T) {
	ix := auscout.NewIndex(auscout.Options{}, nil)
	_, err := ix.Add(1, []uint32{10, 20, 30})
	assert.NoError(t, err)

	matches, err := ix.Lookup([]uint32{10, 20, 30}, []uint32{0, 0, 0}, 0.80)
	assert.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestLookupRejectsMismatchedLengths(t *testing.T) {
	ix := auscout.NewIndex(auscout.Options{}, nil)
	_, err := ix.Lookup([]uint32{1, 2}, []uint32{0}, 0.5)
	assert.Error(t, err)
}

func TestLookupRejectsEmptySequence(t *testing.T) {
	ix := auscout.NewIndex(auscout.Options{}, nil)
	_, err := ix.Lookup(nil, nil, 0.5)
	assert.Error(t, err)
}

func TestLookupRejectsOversizedTogglePopcount(t *testing.T) {
	ix := auscout.NewIndex(auscout.Options{}, nil)
	toggle := uint32(0)
	for i := 0; i <= auscout.MaxTogglePopcount; i++ {
		toggle |= 1 << uint(i)
	}
	_, err := ix.Lookup([]uint32{1}, []uint32{toggle}, 0.5)
	assert.Error(t, err)
}

func TestLookupBitToggleExpansionFindsFlippedBit(t *testing.T) {
	ix := auscout.NewIndex(auscout.Options{}, nil)
	track := make([]uint32, auscout.LookupBlock)
	for i := range track {
		track[i] = uint32(i + 1)
	}
	_, err := ix.Add(1, track)
	assert.NoError(t, err)

	probe := make([]uint32, auscout.LookupBlock)
	toggle := make([]uint32, auscout.LookupBlock)
	for i := range probe {
		probe[i] = uint32(i+1) ^ 1 // every frame has its low bit flipped
		toggle[i] = 1
	}

	matches, err := ix.Lookup(probe, toggle, 0.80)
	assert.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.EqualValues(t, 1, matches[0].ID)
}
