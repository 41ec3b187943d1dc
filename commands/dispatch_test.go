package commands_test

import (
	"encoding/binary"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/audioscout/auscoutds/auscout"
	"github.com/audioscout/auscoutds/auscouterrors"
	"github.com/audioscout/auscoutds/commands"
	"github.com/audioscout/auscoutds/host"
)

func words(ws ...uint32) []byte {
	b := make([]byte, len(ws)*4)
	for i, w := range ws {
		binary.BigEndian.PutUint32(b[i*4:], w)
	}
	return b
}

// TestAddThenSizeCount mirrors scenario S1: add three frames, size is 3,
// count is 1.
func TestAddThenSizeCount(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)

	id, err := d.CommandAdd("key", words(1, 2, 3), "")
	assert.NoError(t, err)
	assert.NotZero(t, id)

	size, err := d.CommandSize("key")
	assert.NoError(t, err)
	assert.EqualValues(t, 3, size)

	count, err := d.CommandCount("key")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

// TestAddDuplicateAdjacencySuppression mirrors scenario S2.
func TestAddDuplicateAdjacencySuppression(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)

	_, err := d.CommandAdd("key", words(0x10, 0x10, 0x10, 0x20), "")
	assert.NoError(t, err)

	size, err := d.CommandSize("key")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, size)
}

// TestDelThenMissing mirrors scenario S5.
func TestDelThenMissing(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)

	id, err := d.CommandAdd("key", words(1, 2, 3), "7")
	assert.NoError(t, err)
	assert.EqualValues(t, 7, id)

	n, err := d.CommandDel("key", strconv.FormatInt(id, 10))
	assert.NoError(t, err)
	assert.EqualValues(t, 3, n)

	size, err := d.CommandSize("key")
	assert.NoError(t, err)
	assert.EqualValues(t, 0, size)

	_, err = d.CommandDel("key", strconv.FormatInt(id, 10))
	assert.Error(t, err)
}

func TestAddTrackStoresDescription(t *testing.T) {
	h := host.NewMemHost()
	d := commands.NewDispatcher(h, auscout.Options{}, nil)

	id, err := d.CommandAddTrack("key", words(1, 2, 3), "some track", "99")
	assert.NoError(t, err)
	assert.EqualValues(t, 99, id)

	descr, ok := h.GetDescr("key", id)
	assert.True(t, ok)
	assert.Equal(t, "some track", descr)

	matches, err := d.CommandLookup("key", words(1, 2, 3), words(0, 0, 0), "")
	assert.NoError(t, err)
	// a 3-frame probe can never reach LOOKUP_BLOCK=100 frames, whatever
	// the threshold; this just exercises the lookup plumbing.
	assert.Empty(t, matches)
}

func TestLookupOnMissingKeyErrors(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)
	_, err := d.CommandLookup("nope", words(1), words(0), "")
	assert.Error(t, err)
}

func TestDelKeyCascadesEverything(t *testing.T) {
	h := host.NewMemHost()
	d := commands.NewDispatcher(h, auscout.Options{}, nil)

	id, err := d.CommandAddTrack("key", words(1, 2, 3), "descr", "5")
	assert.NoError(t, err)

	assert.NoError(t, d.CommandDelKey("key"))

	_, ok := h.GetDescr("key", id)
	assert.False(t, ok)

	_, _, ok = h.GetTyped("key")
	assert.False(t, ok)

	_, err = d.CommandSize("key")
	assert.Error(t, err)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	h := host.NewMemHost()
	d := commands.NewDispatcher(h, auscout.Options{}, nil)

	_, err := d.CommandAdd("key", words(10, 20, 30, 40), "")
	assert.NoError(t, err)

	assert.NoError(t, d.Snapshot("key"))
	assert.NoError(t, d.Restore("key"))

	size, err := d.CommandSize("key")
	assert.NoError(t, err)
	assert.EqualValues(t, 4, size)
}

func TestMemoryAndConfigCommands(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)
	_, err := d.CommandAdd("key", words(1, 2, 3), "")
	assert.NoError(t, err)

	mem, err := d.CommandMemory("key")
	assert.NoError(t, err)
	assert.Positive(t, mem)

	cfg := d.CommandConfig("key")
	assert.Equal(t, auscout.LookupBlock, cfg.LookupBlock)
	assert.Equal(t, auscout.MaxTogglePopcount, cfg.MaxTogglePopcount)
}

func TestDumpProducesOneRecordPerTrack(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)
	_, err := d.CommandAdd("key", words(1, 2, 3), "")
	assert.NoError(t, err)
	_, err = d.CommandAdd("key", words(4, 5), "200")
	assert.NoError(t, err)

	recs, err := d.CommandDump("key")
	assert.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestCommandDelRejectsBadIDFormat(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)
	_, err := d.CommandAdd("key", words(1, 2, 3), "")
	assert.NoError(t, err)

	_, err = d.CommandDel("key", "not-a-number")
	assert.ErrorIs(t, err, auscouterrors.ErrParse)
}

func TestCommandDelRequiresIDArgument(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)
	_, err := d.CommandAdd("key", words(1, 2, 3), "")
	assert.NoError(t, err)

	_, err = d.CommandDel("key", "")
	assert.ErrorIs(t, err, auscouterrors.ErrArity)
}

func TestCommandSizeRequiresKeyArgument(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)
	_, err := d.CommandSize("")
	assert.ErrorIs(t, err, auscouterrors.ErrArity)
}

func TestCommandLookupRejectsBadThresholdFormat(t *testing.T) {
	d := commands.NewDispatcher(host.NewMemHost(), auscout.Options{}, nil)
	_, err := d.CommandAdd("key", words(1, 2, 3), "")
	assert.NoError(t, err)

	_, err = d.CommandLookup("key", words(1, 2, 3), words(0, 0, 0), "not-a-float")
	assert.ErrorIs(t, err, auscouterrors.ErrParse)
}

func TestCommandAddRollsBackOnDescrWriteFailure(t *testing.T) {
	h := host.NewMemHost()
	h.FailNextSetDescr()
	d := commands.NewDispatcher(h, auscout.Options{}, nil)

	_, err := d.CommandAddTrack("key", words(1, 2, 3), "descr", "42")
	assert.Error(t, err)

	// the id must not be left linked into the index after the rollback
	size, err := d.CommandSize("key")
	assert.NoError(t, err)
	assert.EqualValues(t, 0, size)
}
