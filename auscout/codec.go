package auscout

import (
	"encoding/binary"

	"github.com/audioscout/auscoutds/auscouterrors"
)

// DecodeWords parses a network-byte-order concatenation of 32-bit words
// (the hashbytes/togglebytes wire format). Its length must be a whole
// multiple of 4; an empty input decodes to an empty, non-nil slice --
// `add` is allowed to insert zero entries, only `lookup` requires a
// nonempty sequence, and that check is Lookup's, not this decoder's.
func DecodeWords(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, auscouterrors.ErrLength
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(b[i*4:])
	}
	return words, nil
}

// EncodeWords is DecodeWords's inverse, used when re-deriving
// hashbytes for a replay/dump command.
func EncodeWords(words []uint32) []byte {
	b := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(b[i*4:], w)
	}
	return b
}
