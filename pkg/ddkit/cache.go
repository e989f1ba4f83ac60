// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

// CacheTable is a fixed-size, open-addressed memoization table shared by
// every apply-like operation in pkg/bdd and pkg/zbdd: Apply, Not, Minimize,
// Subsume. It generalizes a family of per-operation caches into one
// reusable type keyed on "operator + two argument ids -> result id".
type CacheTable struct {
	table      []cacheEntry
	cacheratio int // entries per 100 node-table slots when resized; 0 means fixed size
}

type cacheEntry struct {
	valid    bool
	op       int
	a, b     int
	resultID int
}

// NewCacheTable builds a CacheTable with a prime-sized backing slice.
func NewCacheTable(size int) *CacheTable {
	if size < 1 {
		size = 1
	}
	c := &CacheTable{}
	c.table = make([]cacheEntry, PrimeGTE(size))
	return c
}

// SetRatio configures the cache to grow proportionally with the node table
// on Resize.
func (c *CacheTable) SetRatio(ratio int) {
	c.cacheratio = ratio
}

// Resize grows or resets the cache when the node table it backs grows to
// nodeCount entries.
func (c *CacheTable) Resize(nodeCount int) {
	if c.cacheratio > 0 {
		c.table = make([]cacheEntry, PrimeGTE(nodeCount*c.cacheratio/100+1))
		return
	}
	c.Reset()
}

// Reset invalidates every entry without reallocating.
func (c *CacheTable) Reset() {
	for i := range c.table {
		c.table[i].valid = false
	}
}

// Lookup returns the cached result for (op, a, b) with a and b taken in the
// order given; ok is false on a miss. A caller memoizing a commutative
// operation orders the pair first (see CanonicalPair) so that (op, a, b)
// and (op, b, a) hit the same slot.
func (c *CacheTable) Lookup(op, a, b int) (result int, ok bool) {
	slot := Triple(a, b, op, len(c.table))
	e := c.table[slot]
	if e.valid && e.op == op && e.a == a && e.b == b {
		return e.resultID, true
	}
	return 0, false
}

// Store records the result of (op, a, b).
func (c *CacheTable) Store(op, a, b, result int) {
	slot := Triple(a, b, op, len(c.table))
	c.table[slot] = cacheEntry{valid: true, op: op, a: a, b: b, resultID: result}
}

// LookupUnary is Lookup specialized to a single-argument operation (Not,
// Minimize), whose hash is simply the argument itself.
func (c *CacheTable) LookupUnary(op, a int) (result int, ok bool) {
	slot := a % len(c.table)
	e := c.table[slot]
	if e.valid && e.op == op && e.a == a && e.b == -1 {
		return e.resultID, true
	}
	return 0, false
}

// StoreUnary records the result of a single-argument operation.
func (c *CacheTable) StoreUnary(op, a, result int) {
	slot := a % len(c.table)
	c.table[slot] = cacheEntry{valid: true, op: op, a: a, b: -1, resultID: result}
}
