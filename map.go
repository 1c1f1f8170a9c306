// Copyright (c) 2025 The chainmap Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chainmap provides the Map type, an open-chained hash table
// with progressive rehashing. It is the storage core of a cache
// server: growth of the table never forces a single operation to pay
// for a full rehash, so the worst-case latency added to any one call
// is bounded by a fixed migration budget.
//
// The table is intrusive. Callers allocate an Entry per record,
// compute the 64-bit hash code of the key themselves, and store it in
// Entry.Hash before handing the entry to the Map. The Map only links
// and unlinks entries; it never allocates, copies, or frees them.
//
// The following requirements are the user's responsibility to follow:
//   - equal(a, b) implies a and b carry the same hash code. The Map
//     compares hash codes before calling equal and will never see a
//     match otherwise.
//   - Entry.Hash must not change while the entry is linked into a Map.
//   - Insert does not deduplicate. Inserting a second entry with an
//     equal key shadows the first: Lookup returns the most recently
//     inserted one and both count toward Len. Callers wanting upsert
//     semantics must Lookup or Delete first.
//   - A Map must be confined to one goroutine, or access to it must be
//     serialized externally. There is no internal locking.
//   - For good performance hash codes should be uniformly distributed
//     across the entire 64 bits. See HashString, HashBytes and
//     HashUint64.
package chainmap

// This file implements the two-table rehashing scheme used by Redis
// style cache servers. A Map holds a live table (tab) and, while
// growing, the previous half-size table (oldtab). Writes that push the
// live table past the load factor demote it to oldtab and allocate a
// doubled replacement; every subsequent operation then drains a
// bounded number of entries from oldtab into tab before doing its own
// work. Draining is inline, caller-driven work, not a background task,
// which keeps the structure single-threaded by construction.

const (
	// Number of slots the live table is created with on first Insert.
	initialSlots = 4

	// Maximum average chain length before Insert doubles the table.
	loadFactor = 8

	// Maximum number of entries moved from oldtab to tab per
	// operation. Empty slots skipped along the way are not charged
	// against the budget.
	migrationBudget = 128
)

// Entry is the unit the table links and unlinks. Callers embed their
// payload in Value, fill in Hash once, and retain ownership of the
// Entry's lifetime; Delete hands a detached entry back rather than
// discarding it.
type Entry[T any] struct {
	next *Entry[T]

	// Hash is the 64-bit hash code of the entry's key, computed by
	// the caller before the entry is handed to a Map.
	Hash uint64

	// Value is the caller's payload. The table never touches it.
	Value T
}

// table is a fixed-capacity array of singly-linked chains indexed by
// the low bits of the hash code. The zero table is a valid empty
// state, distinguishable from an initialized empty table by a nil
// slots array.
type table[T any] struct {
	slots []*Entry[T]
	mask  uint64 // len(slots) - 1
	count int    // live entries
}

func (t *table[T]) init(n int) {
	if n <= 0 || n&(n-1) != 0 {
		panic("chainmap: slot count is not a power of 2")
	}
	t.slots = make([]*Entry[T], n)
	t.mask = uint64(n - 1)
	t.count = 0
}

func (t *table[T]) insert(e *Entry[T]) {
	if t.slots == nil {
		panic("chainmap: insert into uninitialized table")
	}
	pos := e.Hash & t.mask
	e.next = t.slots[pos]
	t.slots[pos] = e
	t.count++
}

// lookup returns the address of the link that points at the first
// matching entry: either &t.slots[pos] or the previous entry's next
// field. Returning the incoming link rather than the entry lets detach
// unlink in O(1) without rewalking the chain. Returns nil if the key
// is absent or the table was never initialized.
func (t *table[T]) lookup(hash uint64, key T, eq func(a, b T) bool) **Entry[T] {
	if t.slots == nil {
		return nil
	}
	from := &t.slots[hash&t.mask]
	for cur := *from; cur != nil; cur = *from {
		// Compare hash codes before calling eq to rule out
		// candidates cheaply.
		if cur.Hash == hash && eq(cur.Value, key) {
			return from
		}
		from = &cur.next
	}
	return nil
}

// detach unlinks the entry addressed by from, which must have been
// returned by a lookup on the same table with no intervening mutation.
func (t *table[T]) detach(from **Entry[T]) *Entry[T] {
	e := *from
	*from = e.next
	e.next = nil
	t.count--
	return e
}

// foreach visits every entry in slot order, most recently inserted
// first within a chain. It returns false if visit stopped the walk.
// The zero table is an empty walk.
func (t *table[T]) foreach(visit func(*Entry[T]) bool) bool {
	for _, head := range t.slots {
		for e := head; e != nil; e = e.next {
			if !visit(e) {
				return false
			}
		}
	}
	return true
}

// Map implements a hash table over caller-owned entries. Use New or
// NewHint to create one; the zero Map is not usable because it lacks
// an equal function.
type Map[T any] struct {
	tab    table[T] // live table, target of all inserts
	oldtab table[T] // previous table being drained; zero when not growing
	// slots of oldtab below nevacuate hold no entries
	nevacuate int

	equal func(a, b T) bool
}

// New instantiates an empty Map. The equal func must return true for
// two values whose keys are equal and false otherwise; it is only
// called on values whose hash codes already match.
func New[T any](equal func(a, b T) bool) *Map[T] {
	if equal == nil {
		panic("chainmap: New called with nil equal func")
	}
	return &Map[T]{equal: equal}
}

// NewHint instantiates a Map presized for hint entries, so that
// inserting up to hint entries triggers no rehash. See New for
// discussion of the equal argument.
func NewHint[T any](hint int, equal func(a, b T) bool) *Map[T] {
	m := New(equal)
	if hint <= 0 {
		return m
	}
	n := initialSlots
	for hint > n*loadFactor {
		n *= 2
	}
	m.tab.init(n)
	return m
}

// Len returns the number of entries in m, counting both tables.
func (m *Map[T]) Len() int {
	if m == nil {
		return 0
	}
	return m.tab.count + m.oldtab.count
}

// Lookup returns the entry whose key equals key under the Map's equal
// func, or nil if no such entry exists. hash must be the hash code of
// key. When duplicate keys have been inserted the most recently
// inserted entry is returned. Lookup never allocates and is safe on a
// never-used Map.
func (m *Map[T]) Lookup(hash uint64, key T) *Entry[T] {
	if m == nil {
		return nil
	}
	m.growWork()
	return m.find(hash, key)
}

// find is Lookup without the migration increment, for internal
// callers that must not mutate the Map mid-walk.
func (m *Map[T]) find(hash uint64, key T) *Entry[T] {
	from := m.tab.lookup(hash, key, m.equal)
	if from == nil {
		from = m.oldtab.lookup(hash, key, m.equal)
	}
	if from == nil {
		return nil
	}
	return *from
}

// Insert links e into m. e.Hash must already be set. Insert does not
// check for duplicates; an entry with an equal key already in the Map
// is shadowed, not replaced.
func (m *Map[T]) Insert(e *Entry[T]) {
	if m == nil {
		// We have to panic here rather than initialize an empty
		// map because we need the user to pass in an equal
		// function.
		panic("chainmap: Insert called on nil Map")
	}
	if m.tab.slots == nil {
		m.tab.init(initialSlots)
	}
	m.tab.insert(e)

	// Grow only when no grow is in flight: a doubled table must
	// fully absorb the old one before the next doubling.
	if !m.growing() && m.tab.count >= (int(m.tab.mask)+1)*loadFactor {
		m.hashGrow()
	}
	m.growWork()
}

// Delete unlinks and returns the entry whose key equals key, or nil if
// no such entry exists. hash must be the hash code of key. Ownership
// of the returned entry passes back to the caller; the Map retains no
// reference to it.
func (m *Map[T]) Delete(hash uint64, key T) *Entry[T] {
	if m == nil {
		return nil
	}
	m.growWork()
	if from := m.tab.lookup(hash, key, m.equal); from != nil {
		return m.tab.detach(from)
	}
	if from := m.oldtab.lookup(hash, key, m.equal); from != nil {
		return m.oldtab.detach(from)
	}
	return nil
}

// Range calls visit for every entry in m: the live table first in
// slot then chain order, then the table being drained, if any. If
// visit returns false, Range stops and returns false. Entries must
// not be inserted or deleted during a Range.
func (m *Map[T]) Range(visit func(*Entry[T]) bool) bool {
	if m == nil {
		return true
	}
	return m.tab.foreach(visit) && m.oldtab.foreach(visit)
}

// Clear releases both tables' slot storage. Entries are caller-owned
// and are not touched; any still linked are simply abandoned by the
// Map. The Map is reusable afterwards exactly like a fresh one.
func (m *Map[T]) Clear() {
	if m == nil {
		return
	}
	m.tab = table[T]{}
	m.oldtab = table[T]{}
	m.nevacuate = 0
}

// growing reports whether entries are still being drained out of a
// demoted table.
func (m *Map[T]) growing() bool {
	return m.oldtab.slots != nil
}

// hashGrow demotes the live table to oldtab and installs an empty
// doubled table in its place. The demotion moves the slot array by
// reference, an O(1) handoff. The actual copying of entries is done
// incrementally by growWork.
func (m *Map[T]) hashGrow() {
	if m.growing() {
		panic("chainmap: grow triggered while growing")
	}
	m.oldtab = m.tab
	m.tab.init((int(m.oldtab.mask) + 1) * 2)
	m.nevacuate = 0
}

// growWork moves up to migrationBudget entries from oldtab to tab,
// then discards oldtab once it is empty. Skipping an empty slot
// advances nevacuate without consuming budget, so a sparse old table
// drains in few calls. Called at the top of every Lookup and Delete
// and at the bottom of every Insert; a no-op when not growing.
func (m *Map[T]) growWork() {
	nwork := 0
	for nwork < migrationBudget && m.oldtab.count > 0 {
		from := &m.oldtab.slots[m.nevacuate]
		if *from == nil {
			m.nevacuate++
			continue
		}
		m.tab.insert(m.oldtab.detach(from))
		nwork++
	}

	// Release the old slot array as soon as the last entry leaves
	// it. Deletes can empty it too, so this runs on every pass, not
	// only after a move.
	if m.growing() && m.oldtab.count == 0 {
		m.oldtab = table[T]{}
		m.nevacuate = 0
	}
}
