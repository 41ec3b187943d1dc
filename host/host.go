// Package host defines the primitives an AuScoutDS index needs from
// whatever key-value server embeds it: a typed-value slot per key, an
// atomic integer increment on a side key, a hash-typed side key for
// descriptions, and a replication/snapshot callback pair. Two
// implementations ship: MemHost (plain maps, used by the host, counters
// and commands package tests) and PebbleHost (backed by a real Pebble LSM, used by
// cmd/auscoutd).
package host

import "errors"

// ErrNoSuchKey is available to Host implementations for a key that has
// never been written. Neither MemHost nor PebbleHost returns it:
// GetTyped and GetDescr report a missing key through their ok result,
// and IncrBy creates an unset counter at 0.
var ErrNoSuchKey = errors.New("host: no such key")

// TypeTag distinguishes the type an existing key was created under, so
// a Host can refuse to coerce e.g. a string key into an AuScoutDS
// index.
type TypeTag string

// TypeAuScoutDS is the only type tag the commands package writes.
const TypeAuScoutDS TypeTag = "AuScoutDS"

// Host is the seam between the in-memory Index and whatever server
// embeds it. Implementations need not be safe for concurrent use by
// more than one command at a time -- commands against a single key
// are serialized at the host layer, above this interface.
type Host interface {
	// GetTyped returns the typed value currently stored at key, along
	// with the tag it was stored under. ok is false if key is unset.
	GetTyped(key string) (tag TypeTag, snapshot []byte, ok bool)

	// SetTyped stores snapshot under key with the given tag, creating
	// or overwriting the key's typed-value slot.
	SetTyped(key string, tag TypeTag, snapshot []byte) error

	// DeleteTyped removes key's typed-value slot entirely.
	DeleteTyped(key string) error

	// IncrBy atomically adds delta to the integer side key counterKey,
	// creating it at 0 first if unset, and returns the new value. This
	// is the host's generic integer-increment primitive.
	IncrBy(counterKey string, delta int64) (int64, error)

	// DeleteCounter removes a counter side key entirely (delkey's
	// teardown of `<key>:counter`).
	DeleteCounter(counterKey string) error

	// GetDescr reads the description side-channel value stored for
	// (key, id), i.e. the `descr` field of the `<key>:<id>` hash side
	// key. ok is false if no description was ever set.
	GetDescr(key string, id int64) (descr string, ok bool)

	// SetDescr writes the description side-channel value for (key, id).
	SetDescr(key string, id int64, descr string) error

	// DelDescr removes the description side key for (key, id). Safe to
	// call even if none was ever set.
	DelDescr(key string, id int64) error

	// Replicate appends record to key's replication stream. An "emit
	// nothing on failure" policy, if one is wanted, is enforced by the
	// caller, not by Host.
	Replicate(key string, record []byte) error
}
