// Copyright (c) 2025 The chainmap Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build go1.23

package chainmap

import (
	"maps"
	"testing"
)

func TestRangeFuncs(t *testing.T) {
	m := New(eqString)
	for _, s := range []string{"Avenue", "Street", "Court"} {
		m.Insert(strEntry(s))
	}

	t.Run("All", func(t *testing.T) {
		exp := map[string]struct{}{
			"Avenue": {},
			"Street": {},
			"Court":  {},
		}
		got := make(map[string]struct{})
		for e := range m.All() {
			got[e.Value] = struct{}{}
		}
		if !maps.Equal(exp, got) {
			t.Errorf("expected: %v got: %v", exp, got)
		}
	})

	t.Run("Values", func(t *testing.T) {
		exp := map[string]struct{}{
			"Avenue": {},
			"Street": {},
			"Court":  {},
		}
		got := make(map[string]struct{})
		for v := range m.Values() {
			got[v] = struct{}{}
		}
		if !maps.Equal(exp, got) {
			t.Errorf("expected: %v got: %v", exp, got)
		}
	})

	t.Run("All early stop", func(t *testing.T) {
		n := 0
		for range m.All() {
			n++
			break
		}
		if n != 1 {
			t.Errorf("expected 1 iteration, got %d", n)
		}
	})
}
