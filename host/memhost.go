package host

import "fmt"

// MemHost is a Host backed by plain Go maps. It is what the counters
// and commands package test suites run against -- no Pebble, no disk,
// no network, so those tests stay fast and focused on the logic rather
// than the storage engine underneath it. The auscout package tests
// need no Host at all; they build an Index directly.
type MemHost struct {
	typed    map[string]typedValue
	counters map[string]int64
	descrs   map[string]string

	failNextSetDescr bool
}

type typedValue struct {
	tag TypeTag
	val []byte
}

func NewMemHost() *MemHost {
	return &MemHost{
		typed:    make(map[string]typedValue),
		counters: make(map[string]int64),
		descrs:   make(map[string]string),
	}
}

func (h *MemHost) GetTyped(key string) (TypeTag, []byte, bool) {
	tv, ok := h.typed[key]
	if !ok {
		return "", nil, false
	}
	return tv.tag, tv.val, true
}

func (h *MemHost) SetTyped(key string, tag TypeTag, snapshot []byte) error {
	h.typed[key] = typedValue{tag: tag, val: snapshot}
	return nil
}

func (h *MemHost) DeleteTyped(key string) error {
	delete(h.typed, key)
	return nil
}

func (h *MemHost) IncrBy(counterKey string, delta int64) (int64, error) {
	h.counters[counterKey] += delta
	return h.counters[counterKey], nil
}

func (h *MemHost) DeleteCounter(counterKey string) error {
	delete(h.counters, counterKey)
	return nil
}

func descrKey(key string, id int64) string {
	return fmt.Sprintf("%s:%d", key, id)
}

func (h *MemHost) GetDescr(key string, id int64) (string, bool) {
	d, ok := h.descrs[descrKey(key, id)]
	return d, ok
}

func (h *MemHost) SetDescr(key string, id int64, descr string) error {
	if h.failNextSetDescr {
		h.failNextSetDescr = false
		return fmt.Errorf("memhost: injected SetDescr failure")
	}
	h.descrs[descrKey(key, id)] = descr
	return nil
}

// FailNextSetDescr makes the next SetDescr call return an error instead
// of writing, for exercising callers' failure-path handling.
func (h *MemHost) FailNextSetDescr() {
	h.failNextSetDescr = true
}

func (h *MemHost) DelDescr(key string, id int64) error {
	delete(h.descrs, descrKey(key, id))
	return nil
}

func (h *MemHost) Replicate(key string, record []byte) error {
	return nil
}
