// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

// Key identifies a non-terminal decision-diagram node by (variable index,
// low successor id, high successor id). Both pkg/bdd and pkg/zbdd intern
// their non-terminals through a UniqueTable keyed this way, mapping
// (index, id(low), id(high)) to a single canonical node id.
//
// We use a plain struct key and a Go map, which is simpler and
// architecture-independent compared to hashing the triplet into a fixed
// byte buffer for use as a map key, while preserving the same O(1)
// hashmap-backed deduplication.
type Key struct {
	Index int
	Low   int
	High  int
}

// UniqueTable interns non-terminal nodes so that structurally identical
// (index, low, high) triplets always resolve to the same id.
type UniqueTable struct {
	index map[Key]int
}

// NewUniqueTable builds an empty UniqueTable sized for roughly n nodes.
func NewUniqueTable(n int) *UniqueTable {
	if n < 0 {
		n = 0
	}
	return &UniqueTable{index: make(map[Key]int, n)}
}

// Lookup returns the interned id for key, if any.
func (u *UniqueTable) Lookup(k Key) (id int, ok bool) {
	id, ok = u.index[k]
	return id, ok
}

// Insert records that key now resolves to id. Callers must not insert the
// same key twice with different ids.
func (u *UniqueTable) Insert(k Key, id int) {
	u.index[k] = id
}

// Delete removes key, used during garbage collection when a node is
// reclaimed and its slot may be reused for something else.
func (u *UniqueTable) Delete(k Key) {
	delete(u.index, k)
}

// Len returns the number of interned nodes.
func (u *UniqueTable) Len() int {
	return len(u.index)
}
