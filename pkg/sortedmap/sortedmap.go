// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package sortedmap provides a map that iterates in key order, for key types that have an
// ordering but are not usable as Go map keys (or whose equality is not Go's ==).
package sortedmap

import (
	"slices"
)

type entry[K, V any] struct {
	key K
	val V
}

// Map is a mapping from K to V, ordered by a comparison function.  Keys that the comparison
// function says are equal are the same key.  The zero Map is not usable; use New.
type Map[K, V any] struct {
	cmp     func(a, b K) int
	entries []entry[K, V]
}

// New returns an empty Map ordered by 'cmp', which returns <0, 0, or >0 as a is less than, equal
// to, or greater than b.
func New[K, V any](cmp func(a, b K) int) *Map[K, V] {
	return &Map[K, V]{cmp: cmp}
}

func (m *Map[K, V]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(m.entries, key, func(e entry[K, V], k K) int {
		return m.cmp(e.key, k)
	})
}

// Clone returns a copy of the map.  The values themselves are not copied.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{
		cmp:     m.cmp,
		entries: slices.Clone(m.entries),
	}
}

// Len returns the number of keys in the map.
func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

// Get returns the value for 'key'.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if idx, ok := m.search(key); ok {
		return m.entries[idx].val, true
	}
	var zero V
	return zero, false
}

// Upsert sets the value for 'key' to the result of 'update', which is given the current value
// (or the zero value) and whether the key was present.  If the key was present, the stored key
// is kept.
func (m *Map[K, V]) Upsert(key K, update func(old V, exists bool) V) {
	idx, ok := m.search(key)
	if ok {
		m.entries[idx].val = update(m.entries[idx].val, true)
		return
	}
	var zero V
	m.entries = slices.Insert(m.entries, idx, entry[K, V]{key: key, val: update(zero, false)})
}

// Delete removes 'key' from the map, returning its value.
func (m *Map[K, V]) Delete(key K) (V, bool) {
	idx, ok := m.search(key)
	if !ok {
		var zero V
		return zero, false
	}
	val := m.entries[idx].val
	m.entries = slices.Delete(m.entries, idx, idx+1)
	return val, true
}

// Keys returns the keys in ascending order.
func (m *Map[K, V]) Keys() []K {
	ret := make([]K, 0, len(m.entries))
	for _, e := range m.entries {
		ret = append(ret, e.key)
	}
	return ret
}

// Each calls 'fn' for each key in ascending order, stopping early if 'fn' returns false.
func (m *Map[K, V]) Each(fn func(key K, val V) bool) {
	for _, e := range m.entries {
		if !fn(e.key, e.val) {
			return
		}
	}
}
