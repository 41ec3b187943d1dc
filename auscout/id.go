package auscout

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// AllocateID composes a 64-bit track id out of the current wall clock,
// a slice of high-entropy randomness, and a monotone per-key counter.
//
//	id = (wall_milliseconds << 32) | (random_high_16 << 16) | (counter & 0xFFFF)
//
// The construction is monotone-ish across time but tolerant of wall-clock
// regressions and process restarts: the counter disambiguates ids minted
// within the same millisecond, and the random slice keeps two freshly
// opened replicas of the same key from colliding before their counters
// have diverged. The sixteen random bits come from a UUID rather than a
// hand-rolled math/rand source, the same source of randomness used for
// time+random identifiers elsewhere in this kind of system.
func AllocateID(counter uint16) int64 {
	wallMS := uint64(time.Now().UnixMilli())
	random := randomHigh16()
	id := (wallMS << 32) | (uint64(random) << 16) | uint64(counter)
	return int64(id)
}

func randomHigh16() uint16 {
	u := uuid.New()
	return binary.BigEndian.Uint16(u[0:2])
}
