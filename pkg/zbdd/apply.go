// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package zbdd

import "github.com/dalzilio/scram-go/pkg/ddkit"

// Apply computes the ZBDD for op(a, b), op in {AND, OR}, interning every
// intermediate node it builds. Results are memoized on the canonical
// (op, min(a,b), max(a,b)) signature so that Apply(op, a, b) and
// Apply(op, b, a) always return the same id.
func (z *Zbdd) Apply(op Operator, a, b Node) Node {
	if a == b {
		return a
	}
	switch op {
	case OR:
		if a == Empty {
			return b
		}
		if b == Empty {
			return a
		}
		if a == Base {
			return z.unionWithBase(b)
		}
		if b == Base {
			return z.unionWithBase(a)
		}
	case AND:
		if a == Empty || b == Empty {
			return Empty
		}
		if a == Base {
			return b
		}
		if b == Base {
			return a
		}
	}

	lo, hi := ddkit.CanonicalPair(int(a), int(b))
	if res, ok := z.applyCache.Lookup(int(op), lo, hi); ok {
		return Node(res)
	}

	na, nb := z.node(a), z.node(b)
	var res Node
	switch {
	case na.index == nb.index:
		res = z.applySameIndex(op, na, nb)
	case na.index < nb.index:
		res = z.applySplit(op, na, b)
	default:
		res = z.applySplit(op, nb, a)
	}

	z.applyCache.Store(int(op), lo, hi, int(res))
	return res
}

// applySameIndex handles op(a, b) when a and b branch on the same
// index: the result branches on it too, folding the two low/high pairs
// per the operator.
func (z *Zbdd) applySameIndex(op Operator, a, b setnode) Node {
	switch op {
	case OR:
		high := z.Apply(OR, a.high, b.high)
		low := z.Apply(OR, a.low, b.low)
		return z.makenode(a.index, low, high)
	default: // AND
		// A set in the high branch of the result either comes from both
		// arguments including the element (a.high ∩ b.high), or from one
		// argument including it and the other not (the two cross terms);
		// Minimize later drops any cross term that is a superset of a
		// same-index pair, but all three must be unioned here.
		hh := z.Apply(AND, a.high, b.high)
		hl := z.Apply(AND, a.high, b.low)
		lh := z.Apply(AND, a.low, b.high)
		high := z.Apply(OR, z.Apply(OR, hh, hl), lh)
		low := z.Apply(AND, a.low, b.low)
		return z.makenode(a.index, low, high)
	}
}

// applySplit handles op(a, b) when a branches on an index strictly
// smaller than b's. b is never a terminal here: Apply's terminal rules
// have already returned for Empty and Base operands. b does not depend on
// a's variable, so it passes through unchanged into whichever recursive
// call needs it.
func (z *Zbdd) applySplit(op Operator, a setnode, b Node) Node {
	switch op {
	case OR:
		// b has no sets containing a's element, so the high branch of the
		// result is exactly a.high; only the low branch accumulates b.
		low := z.Apply(OR, a.low, b)
		return z.makenode(a.index, low, a.high)
	default: // AND
		high := z.Apply(AND, a.high, b)
		low := z.Apply(AND, a.low, b)
		return z.makenode(a.index, low, high)
	}
}

// unionWithBase returns n with the empty set added to its family: it
// walks n's low spine, replacing the terminal it bottoms out at with
// Base, and leaves every high branch untouched (Base has no element of
// its own to decompose on, so it never alters what a set already
// contains).
func (z *Zbdd) unionWithBase(n Node) Node {
	if n == Empty || n == Base {
		return Base
	}
	if res, ok := z.unionCache.LookupUnary(cacheidUnion, int(n)); ok {
		return Node(res)
	}
	nn := z.node(n)
	low := z.unionWithBase(nn.low)
	res := z.makenode(nn.index, low, nn.high)
	z.unionCache.StoreUnary(cacheidUnion, int(n), int(res))
	return res
}
