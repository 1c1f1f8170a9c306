// Copyright (c) 2025 The chainmap Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chainmap

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// String converts m to a string representation using T's String
// function. Output is sorted, so it is deterministic regardless of
// slot order.
func String[T fmt.Stringer](m *Map[T]) string {
	return StringFunc(m, func(v T) string { return v.String() })
}

// StringFunc converts m to a string representation with the help of
// the str function to stringify m's values.
func StringFunc[T any](m *Map[T], str func(v T) string) string {
	if m.Len() == 0 {
		return "chainmap.Map[]"
	}
	strs := make([]string, 0, m.Len())
	size := 0
	m.Range(func(e *Entry[T]) bool {
		s := str(e.Value)
		size += len(s)
		strs = append(strs, s)
		return true
	})
	slices.SortFunc(strs, func(a, b string) bool { return a < b })

	var b strings.Builder
	b.Grow(len("chainmap.Map[]") + // space for header and footer
		len(strs) - 1 + // space for delimiters
		size) // space for values
	b.WriteString("chainmap.Map[")
	for i, s := range strs {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	b.WriteByte(']')
	return b.String()
}

// Equal returns true if the same set of values is in m1 and m2.
// Values are compared using ==. When duplicate keys were inserted,
// only the most recently inserted entry per key is considered, the
// same entry Lookup would return.
func Equal[T comparable](m1, m2 *Map[T]) bool {
	return EqualFunc(m1, m2, func(a, b T) bool { return a == b })
}

// EqualFunc returns true if the same set of values is in m1 and m2.
// Values are compared using eq.
func EqualFunc[T any](m1, m2 *Map[T], eq func(T, T) bool) bool {
	if m1.Len() != m2.Len() {
		return false
	}
	equal := true
	m1.Range(func(e *Entry[T]) bool {
		// find rather than Lookup: Lookup drives migration, which
		// must not happen while m1 == m2 is mid-Range.
		e2 := m2.find(e.Hash, e.Value)
		if e2 == nil || !eq(e.Value, e2.Value) {
			equal = false
		}
		return equal
	})
	return equal
}
