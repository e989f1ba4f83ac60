// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package zbdd

import "math/big"

// GenerateCutSets enumerates every cut set reachable from v as a slice of
// basic-event (or, for a non-materialized complement, signed) indices.
// Results are memoized per node, so a diagram shared across several
// parents is only walked once. A module proxy is not itself emitted as
// an element: its subtree's single slot is expanded by the Cartesian
// product of whatever follows it with the module's own, separately
// resolved and minimized, cut sets.
func (z *Zbdd) GenerateCutSets(v Node) ([][]int, error) {
	if v == Base {
		return [][]int{{}}, nil
	}
	if v == Empty {
		return nil, nil
	}
	if cs, ok := z.cutSetCache[v]; ok {
		return cs, nil
	}

	n := z.node(v)
	highSets, err := z.GenerateCutSets(n.high)
	if err != nil {
		return nil, err
	}
	lowSets, err := z.GenerateCutSets(n.low)
	if err != nil {
		return nil, err
	}

	var withElement [][]int
	if z.isModule(n.index) {
		moduleRoot, err := z.resolveModule(n.index)
		if err != nil {
			return nil, err
		}
		moduleSets, err := z.GenerateCutSets(moduleRoot)
		if err != nil {
			return nil, err
		}
		for _, cs := range highSets {
			for _, ms := range moduleSets {
				combo := make([]int, 0, len(cs)+len(ms))
				combo = append(combo, ms...)
				combo = append(combo, cs...)
				withElement = append(withElement, combo)
			}
		}
	} else {
		for _, cs := range highSets {
			combo := make([]int, 0, len(cs)+1)
			combo = append(combo, n.index)
			combo = append(combo, cs...)
			withElement = append(withElement, combo)
		}
	}

	result := append(withElement, lowSets...)
	z.cutSetCache[v] = result
	return result, nil
}

// CountSetNodes returns the number of distinct non-terminal vertices
// reachable from v, including vertices belonging to modules v references
// (directly or transitively). It must be called after every module
// reachable from v has already been resolved (Analyze/GenerateCutSets
// does this as a side effect); an unresolved module is simply not
// descended into.
func (z *Zbdd) CountSetNodes(v Node) int {
	return z.countSetNodes(v, make(map[Node]bool))
}

func (z *Zbdd) countSetNodes(v Node, seen map[Node]bool) int {
	if v == Empty || v == Base || seen[v] {
		return 0
	}
	seen[v] = true
	n := z.node(v)
	count := 1 + z.countSetNodes(n.low, seen) + z.countSetNodes(n.high, seen)
	if z.isModule(n.index) {
		if root, ok := z.moduleRoots[n.index]; ok {
			count += z.countSetNodes(root, seen)
		}
	}
	return count
}

// CountCutSets returns the number of cut sets reachable from v, as an
// arbitrary-precision integer since a deep ZBDD can represent far more
// sets than fits in a machine word. It is always equal to
// len(cs) for cs, _ := GenerateCutSets(v), computed independently (by
// addition over low/high instead of materializing every set) so the two
// can cross-check each other. Like CountSetNodes, it assumes every
// module reachable from v is already resolved.
func (z *Zbdd) CountCutSets(v Node) *big.Int {
	return z.countCutSets(v, make(map[Node]*big.Int))
}

func (z *Zbdd) countCutSets(v Node, memo map[Node]*big.Int) *big.Int {
	if v == Base {
		return big.NewInt(1)
	}
	if v == Empty {
		return big.NewInt(0)
	}
	if c, ok := memo[v]; ok {
		return c
	}
	n := z.node(v)
	var high *big.Int
	if z.isModule(n.index) {
		high = big.NewInt(0)
		if root, ok := z.moduleRoots[n.index]; ok {
			high = new(big.Int).Mul(z.countCutSets(root, memo), z.countCutSets(n.high, memo))
		}
	} else {
		high = z.countCutSets(n.high, memo)
	}
	low := z.countCutSets(n.low, memo)
	total := new(big.Int).Add(high, low)
	memo[v] = total
	return total
}
