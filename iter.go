// Copyright (c) 2025 The chainmap Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build go1.23

package chainmap

import "iter"

// All returns an iterator over the entries of m. Like Range, the Map
// must not be mutated during iteration.
func (m *Map[T]) All() iter.Seq[*Entry[T]] {
	return func(yield func(*Entry[T]) bool) {
		m.Range(yield)
	}
}

// Values returns an iterator over the values of m's entries.
func (m *Map[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		m.Range(func(e *Entry[T]) bool {
			return yield(e.Value)
		})
	}
}
