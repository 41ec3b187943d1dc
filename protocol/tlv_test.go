package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordRoundTrip(t *testing.T) {
	rec := Record('A', []byte("hello"))
	body, rest := Take('A', rec)
	assert.Equal(t, []byte("hello"), body)
	assert.Empty(t, rest)
}

func TestRecordMultipleBodyParts(t *testing.T) {
	rec := Record('A', []byte{1, 2}, []byte{3, 4, 5})
	body, _ := Take('A', rec)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, body)
}

func TestTakeRejectsWrongType(t *testing.T) {
	rec := Record('A', []byte("x"))
	body, rest := Take('B', rec)
	assert.Nil(t, body)
	assert.Nil(t, rest)
}

func TestTakeLeavesTrailingRecords(t *testing.T) {
	first := Record('A', []byte("one"))
	second := Record('A', []byte("two"))
	body, rest := Take('A', append(first, second...))
	assert.Equal(t, []byte("one"), body)
	assert.Equal(t, second, rest)
}

func TestProbeHeaderReportsLongForm(t *testing.T) {
	rec := Record('A', make([]byte, 300))
	lit, hdrlen, bodylen := ProbeHeader(rec)
	assert.Equal(t, byte('A'), lit)
	assert.Equal(t, 5, hdrlen)
	assert.Equal(t, 300, bodylen)
}

func TestAppendHeaderPanicsOnNonLetterType(t *testing.T) {
	assert.Panics(t, func() {
		AppendHeader(nil, '0', 1)
	})
}
