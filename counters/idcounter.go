// Package counters provides IDCounter, the per-key monotone counter an
// index uses to mint fresh track ids: each index key has an adjacent
// side key (conceptually `<key>:counter`), incremented atomically via
// the host's generic integer-increment primitive.
//
// There is exactly one replica of any given index key active at a
// time -- commands against a key are serialized by the host -- so
// there is no "theirs vs mine" split to reconcile and no time-bounded
// staleness cache to maintain, unlike the CRDT-merge counter this
// package's structure is descended from. It is a thin, single-purpose
// wrapper around the host's already-atomic IncrBy.
package counters

import "github.com/audioscout/auscoutds/host"

// IDCounter wraps the `<key>:counter` side key for one index key.
type IDCounter struct {
	h          host.Host
	counterKey string
}

// NewIDCounter returns a counter bound to key's side key
// (`<key>:counter`).
func NewIDCounter(h host.Host, key string) *IDCounter {
	return &IDCounter{h: h, counterKey: key + ":counter"}
}

// Next atomically increments the counter by one and returns the new
// value, masked to its low 16 bits as an id's counter field expects
// (`counter & 0xFFFF`).
func (c *IDCounter) Next() (uint16, error) {
	v, err := c.h.IncrBy(c.counterKey, 1)
	if err != nil {
		return 0, err
	}
	return uint16(v & 0xFFFF), nil
}

// Delete removes the counter side key entirely, part of delkey's
// teardown.
func (c *IDCounter) Delete() error {
	return c.h.DeleteCounter(c.counterKey)
}
