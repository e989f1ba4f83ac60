// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package zbdd

// Minimize returns the ZBDD representing the minimal antichain of v: the
// subset of v's cut sets that are not a superset of any other cut set in
// v. Terminals are fixed points.
func (z *Zbdd) Minimize(v Node) Node {
	if v == Empty || v == Base {
		return v
	}
	if res, ok := z.minimizeCache.LookupUnary(cacheidMinimize, int(v)); ok {
		return Node(res)
	}
	n := z.node(v)
	high := z.Minimize(n.high)
	low := z.Minimize(n.low)
	res := z.makenode(n.index, low, z.Subsume(high, low))
	z.minimizeCache.StoreUnary(cacheidMinimize, int(v), int(res))
	return res
}

// Subsume removes from high every cut set that contains, as a subset,
// some cut set already present in low. high and low play distinct roles
// (this is not a commutative operation), so results are memoized on the
// ordered pair as given, never canonicalized.
func (z *Zbdd) Subsume(high, low Node) Node {
	if low == Base {
		return Empty // every set contains ∅ as a subset
	}
	if high == Empty {
		return Empty
	}
	if low == Empty {
		return high
	}
	if res, ok := z.subsumeCache.Lookup(cacheidSubsume, int(high), int(low)); ok {
		return Node(res)
	}

	nh, nl := z.node(high), z.node(low)
	var res Node
	switch {
	case high == Base:
		// Base's only set is ∅, which only ∅ itself can subsume; low holds
		// ∅ exactly when its low spine ends at Base.
		res = z.Subsume(high, nl.low)
	case nh.index == nl.index:
		newHigh := z.Subsume(z.Subsume(nh.high, nl.high), nl.low)
		newLow := z.Subsume(nh.low, nl.low)
		res = z.makenode(nh.index, newLow, newHigh)
	case nh.index < nl.index:
		// low has no set containing high's top element, so it applies
		// identically against both of high's branches.
		newHigh := z.Subsume(nh.high, low)
		newLow := z.Subsume(nh.low, low)
		res = z.makenode(nh.index, newLow, newHigh)
	default:
		// high has no set containing low's top element, so only the
		// subset of low's sets that also exclude it (nl.low) can ever
		// subsume anything in high.
		res = z.Subsume(high, nl.low)
	}

	z.subsumeCache.Store(cacheidSubsume, int(high), int(low), int(res))
	return res
}
