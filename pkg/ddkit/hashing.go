// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

// Pair hashing for triplet/pair keys. Pair is a Cantor-style bijective
// mapping of (a, b) into a single integer, used to derive table slots for
// unique/compute/subsume tables without allocating.

// Pair maps a pair of non-negative integers into [0, mod).
func Pair(a, b, mod int) int {
	return int((((uint64(a+b) * uint64(a+b+1)) / 2) + uint64(a)) % uint64(mod))
}

// Triple maps a triplet of integers into [0, mod).
func Triple(a, b, c, mod int) int {
	return Pair(c, Pair(a, b, mod), mod)
}

// CanonicalPair orders a commutative pair (x, y) so that Apply(op, a, b) and
// Apply(op, b, a) hash to the same compute-table slot, guaranteeing both
// calls return the same interned node.
func CanonicalPair(x, y int) (lo, hi int) {
	if x <= y {
		return x, y
	}
	return y, x
}
