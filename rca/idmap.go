// Copyright © 2024 The ELPS authors

package rca

// IndexMap maps dense integer IDs to values, indexed like the fir node
// tables it mirrors.
type IndexMap[K ~int, V any] struct {
	values  []V
	present []bool
}

// Get returns the value stored for id.
func (m *IndexMap[K, V]) Get(id K) (V, bool) {
	var zero V
	if id < 0 || int(id) >= len(m.values) || !m.present[id] {
		return zero, false
	}
	return m.values[id], true
}

// Insert stores v for id, growing the map as needed.
func (m *IndexMap[K, V]) Insert(id K, v V) {
	if id < 0 {
		panic("rca: negative id")
	}
	for int(id) >= len(m.values) {
		var zero V
		m.values = append(m.values, zero)
		m.present = append(m.present, false)
	}
	m.values[id] = v
	m.present[id] = true
}

// Contains reports whether id has a value.
func (m *IndexMap[K, V]) Contains(id K) bool {
	_, ok := m.Get(id)
	return ok
}

// Len returns the number of stored values.
func (m *IndexMap[K, V]) Len() int {
	n := 0
	for _, ok := range m.present {
		if ok {
			n++
		}
	}
	return n
}

// Range calls fn for every stored value in ascending ID order until fn
// returns false.
func (m *IndexMap[K, V]) Range(fn func(id K, v V) bool) {
	for i, ok := range m.present {
		if ok && !fn(K(i), m.values[i]) {
			return
		}
	}
}
