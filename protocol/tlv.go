// Protocol format is based on ToyTLV (MIT licence) written by Victor Grishchenko in 2024.
// Original project: https://github.com/learn-decentralized-systems/toytlv

// Package protocol implements the TLV (Type-Length-Value) record
// framing used by the replay log: one uppercase-typed record per
// track, long-form header only, whatever the body size. Records in the
// tiny/short encodings can still be probed and taken, but nothing here
// writes them, and the streaming OpenHeader/CloseHeader API the wider
// ToyTLV format supports is not carried here.
package protocol

import (
	"encoding/binary"
)

// CaseBit distinguishes an uppercase record type from its lowercase
// counterpart; only uppercase (long-form) types are ever emitted here.
const CaseBit uint8 = 'a' - 'A'

// Records is a batch of TLV records, each a complete header+body slice.
type Records [][]byte

// ProbeHeader inspects a TLV record header and reports its type and
// framing. lit is the record type ('A'-'Z', '0' for the tiny format,
// '-' on a malformed header, 0 if data is too short to tell).
func ProbeHeader(data []byte) (lit byte, hdrlen, bodylen int) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	dlit := data[0]
	if dlit >= '0' && dlit <= '9' { // tiny
		lit = '0'
		bodylen = int(dlit - '0')
		hdrlen = 1
	} else if dlit >= 'a' && dlit <= 'z' { // short
		if len(data) < 2 {
			return
		}
		lit = dlit - CaseBit
		hdrlen = 2
		bodylen = int(data[1])
	} else if dlit >= 'A' && dlit <= 'Z' { // long
		if len(data) < 5 {
			return
		}
		bl := binary.LittleEndian.Uint32(data[1:5])
		if bl > 0x7fffffff {
			lit = '-'
			return
		}
		lit = dlit
		bodylen = int(bl)
		hdrlen = 5
	} else {
		lit = '-'
	}
	return
}

// AppendHeader appends a TLV record header for a body of bodylen bytes
// of type lit, always in long form (lit is forced uppercase), even for
// a body small enough for the tiny/short formats. It panics if lit is
// not a letter.
func AppendHeader(into []byte, lit byte, bodylen int) (ret []byte) {
	biglit := lit &^ CaseBit
	if biglit < 'A' || biglit > 'Z' {
		panic("TLV record type is A..Z")
	}
	if bodylen > 0x7fffffff {
		panic("oversized TLV record")
	}
	ret = append(into, biglit)
	ret = binary.LittleEndian.AppendUint32(ret, uint32(bodylen))
	return ret
}

// Take extracts a TLV record of the given type from data. body is nil
// if data is incomplete or the header doesn't match lit.
func Take(lit byte, data []byte) (body, rest []byte) {
	flit, hdrlen, bodylen := ProbeHeader(data)
	if flit == 0 || hdrlen+bodylen > len(data) {
		return nil, data
	}
	if flit != lit && flit != '0' {
		return nil, nil
	}
	body = data[hdrlen : hdrlen+bodylen]
	rest = data[hdrlen+bodylen:]
	return
}

// Record builds one complete TLV record of type lit from body.
func Record(lit byte, body ...[]byte) []byte {
	total := 0
	for _, b := range body {
		total += len(b)
	}
	ret := make([]byte, 0, total+5)
	ret = AppendHeader(ret, lit, total)
	for _, b := range body {
		ret = append(ret, b...)
	}
	return ret
}
