// Copyright (c) 2025 The chainmap Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chainmap

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// The Map never hashes keys itself; callers fill in Entry.Hash before
// any operation. These helpers cover the common key shapes so callers
// that have no hash function of their own don't need to pick one.

// HashString returns a 64-bit hash code for s.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashBytes returns a 64-bit hash code for b.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// HashUint64 returns a 64-bit hash code for x. Integers make poor
// hash codes on their own since the low bits pick the slot; this
// spreads them.
func HashUint64(x uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	return xxhash.Sum64(buf[:])
}
