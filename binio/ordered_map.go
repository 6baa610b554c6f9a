// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package binio

import "iter"

// Pair is one key-value pair of an OrderedMap.
type Pair[K comparable, V any] struct {
	Key   K `json:"key" yaml:"key"`
	Value V `json:"value" yaml:"value"`
}

// OrderedMap is a map read directly off the wire. Pairs keep wire order and
// duplicates so the map re-encodes byte for byte; lookups see the first
// occurrence of a key.
type OrderedMap[K comparable, V any] struct {
	Pairs []Pair[K, V] `json:"pairs" yaml:"pairs"`
	index map[K]int
}

// NewOrderedMap returns an empty map with room for n pairs.
func NewOrderedMap[K comparable, V any](n int) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		Pairs: make([]Pair[K, V], 0, n),
		index: make(map[K]int, n),
	}
}

// Append adds a pair at the end, keeping earlier pairs with the same key.
func (m *OrderedMap[K, V]) Append(key K, value V) {
	if m.index == nil {
		m.reindex()
	}

	if _, ok := m.index[key]; !ok {
		m.index[key] = len(m.Pairs)
	}

	m.Pairs = append(m.Pairs, Pair[K, V]{Key: key, Value: value})
}

// Set replaces the value of the first pair with key, or appends a new pair.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if m.index == nil {
		m.reindex()
	}

	if i, ok := m.index[key]; ok {
		m.Pairs[i].Value = value
		return
	}

	m.Append(key, value)
}

// Get returns the value of the first pair with key.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	if m.index == nil {
		m.reindex()
	}

	if i, ok := m.index[key]; ok {
		return m.Pairs[i].Value, true
	}

	var zero V
	return zero, false
}

// Len returns the number of pairs, duplicates included.
func (m *OrderedMap[K, V]) Len() int {
	return len(m.Pairs)
}

// All iterates pairs in wire order.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, p := range m.Pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) reindex() {
	m.index = make(map[K]int, len(m.Pairs))
	for i, p := range m.Pairs {
		if _, ok := m.index[p.Key]; !ok {
			m.index[p.Key] = i
		}
	}
}

// ReadOrderedMap reads a count followed by that many key-value pairs.
func ReadOrderedMap[K comparable, V any](
	r *Reader,
	width SizeWidth,
	minPair int,
	key func(*Reader) (K, error),
	value func(*Reader) (V, error),
) (*OrderedMap[K, V], error) {
	pairs, err := ReadDynArray(r, width, minPair, func(r *Reader) (Pair[K, V], error) {
		k, err := key(r)
		if err != nil {
			return Pair[K, V]{}, err
		}

		v, err := value(r)
		return Pair[K, V]{Key: k, Value: v}, err
	})
	if err != nil {
		return nil, err
	}

	m := &OrderedMap[K, V]{Pairs: pairs}
	m.reindex()
	return m, nil
}

// WriteOrderedMap writes the pair count followed by every pair in order.
func WriteOrderedMap[K comparable, V any](
	w *Writer,
	width SizeWidth,
	m *OrderedMap[K, V],
	key func(*Writer, K),
	value func(*Writer, V),
) {
	var pairs []Pair[K, V]
	if m != nil {
		pairs = m.Pairs
	}

	WriteDynArray(w, width, pairs, func(w *Writer, p Pair[K, V]) {
		key(w, p.Key)
		value(w, p.Value)
	})
}
