// Package orderedmap provides a small ordered-map primitive: a map with
// ascending-key iteration, used wherever the aggregation core needs a
// sorted view of a keyed collection (the histogram's truncated-value
// buckets). Mirrors the
// sort-then-scan idiom used elsewhere in this codebase for its own
// name-keyed and value-keyed collections.
package orderedmap

import "sort"

// Map is a map[K]V with its keys kept in ascending sorted order. It is not
// safe for concurrent use; callers needing concurrency safety wrap it in
// their own mutex.
type Map[K Ordered, V any] struct {
	entries map[K]V
	keys    []K
	dirty   bool
}

// Ordered constrains keys to types with a natural ascending order.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// New returns an empty Map.
func New[K Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{entries: make(map[K]V)}
}

// Set inserts or overwrites the value at k.
func (m *Map[K, V]) Set(k K, v V) {
	if _, ok := m.entries[k]; !ok {
		m.dirty = true
	}
	m.entries[k] = v
}

// Get returns the value at k, if any.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.entries[k]
	return v, ok
}

// Delete removes k, if present.
func (m *Map[K, V]) Delete(k K) {
	if _, ok := m.entries[k]; ok {
		delete(m.entries, k)
		m.dirty = true
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return len(m.entries) }

// Keys returns the map's keys in ascending order. The returned slice is
// owned by the Map and is invalidated by the next Set/Delete call.
func (m *Map[K, V]) Keys() []K {
	if m.dirty || m.keys == nil {
		m.keys = make([]K, 0, len(m.entries))
		for k := range m.entries {
			m.keys = append(m.keys, k)
		}
		sort.Slice(m.keys, func(i, j int) bool { return m.keys[i] < m.keys[j] })
		m.dirty = false
	}
	return m.keys
}

// Each calls fn for every entry in ascending key order.
func (m *Map[K, V]) Each(fn func(K, V)) {
	for _, k := range m.Keys() {
		fn(k, m.entries[k])
	}
}

// Clone returns a shallow copy whose entries can be mutated independently
// of the receiver.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := New[K, V]()
	for k, v := range m.entries {
		out.entries[k] = v
	}
	return out
}
