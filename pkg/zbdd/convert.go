// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package zbdd

import (
	"github.com/dalzilio/scram-go/pkg/bdd"
	"github.com/dalzilio/scram-go/pkg/graph"
	"github.com/dalzilio/scram-go/pkg/scramerr"
)

// ConvertGraph folds g's arguments through Apply, recursing into argument
// gates (memoized, so a gate referenced by more than one parent is only
// converted once) and replacing each module argument with a proxy leaf
// whose own diagram is built lazily on first use. g must already be
// normalized: an AND or OR gate with at least two arguments, a NULL gate
// with zero or one argument (the only shape a NULL root can still have
// once ProcessFaultTree returns), or a Null/Unity state. Anything else is
// an InternalInvariantBroken error, since it means a pass upstream left
// the graph in a state ZBDD conversion does not understand.
func (z *Zbdd) ConvertGraph(g *graph.Gate) (Node, error) {
	switch g.State {
	case graph.GateUnity:
		return Base, nil
	case graph.GateNull:
		return Empty, nil
	}

	// A NULL-typed gate never reaches here through a normalized interior
	// graph (removeNullGates splices every non-root one out, and passes 4/5
	// handle a NULL-typed root that collapsed to a constant or that wraps
	// a single Gate argument), but a root that is NULL over zero arguments
	// (the empty fault tree) or over a single Variable argument (a
	// single-basic-event fault tree) both skip those rewrites, since
	// neither is itself a constant or a Gate argument. Both are valid
	// inputs to Analyze, so ConvertGraph resolves them directly.
	if g.Type == graph.NULL {
		args := g.ArgIndices()
		switch len(args) {
		case 0:
			return Empty, nil
		case 1:
			return z.convertSignedArg(g, args[0])
		default:
			return Empty, scramerr.Invariant("gate %d is NULL-typed with %d arguments, expected 0 or 1", g.Index, len(args))
		}
	}

	var op Operator
	switch g.Type {
	case graph.AND:
		op = AND
	case graph.OR:
		op = OR
	default:
		return Empty, scramerr.Invariant("gate %d (%s) reached zbdd conversion unnormalized", g.Index, g.Type)
	}

	args := g.ArgIndices()
	if len(args) < 2 {
		return Empty, scramerr.Invariant("gate %d has %d argument(s), expected at least 2", g.Index, len(args))
	}

	acc, err := z.convertSignedArg(g, args[0])
	if err != nil {
		return Empty, err
	}
	for _, key := range args[1:] {
		child, err := z.convertSignedArg(g, key)
		if err != nil {
			return Empty, err
		}
		acc = z.Apply(op, acc, child)
	}
	return acc, nil
}

// convertSignedArg resolves one of g's signed argument indices to the
// Node it converts to, dispatching on which of the three argument maps
// holds it.
func (z *Zbdd) convertSignedArg(g *graph.Gate, key int) (Node, error) {
	if child, ok := g.GateArgs[key]; ok {
		if key < 0 {
			return Empty, scramerr.Invariant("gate %d has a complemented gate argument %d after preprocessing", g.Index, key)
		}
		return z.convertArg(child)
	}
	if v, ok := g.VarArgs[key]; ok {
		return z.convertVariable(v, key), nil
	}
	if _, ok := g.ConstArgs[key]; ok {
		return Empty, scramerr.Invariant("gate %d still has a constant argument after preprocessing", g.Index)
	}
	return Empty, scramerr.Invariant("gate %d argument %d not found", g.Index, key)
}

// convertArg converts a gate argument, substituting a lazily-built module
// proxy when the argument is itself a module, and memoizing non-module
// conversions so a gate shared by several parents is only folded once.
func (z *Zbdd) convertArg(g *graph.Gate) (Node, error) {
	if g.IsModule {
		return z.moduleProxy(g), nil
	}
	if n, ok := z.gateNodes[g.Index]; ok {
		return n, nil
	}
	n, err := z.ConvertGraph(g)
	if err != nil {
		return Empty, err
	}
	z.gateNodes[g.Index] = n
	return n, nil
}

// moduleProxy returns the (possibly freshly interned) leaf standing in
// for module g in its parent's diagram, registering g for lazy
// conversion the first time cut-set generation reaches this proxy.
func (z *Zbdd) moduleProxy(g *graph.Gate) Node {
	if _, ok := z.moduleGates[g.Index]; !ok {
		z.moduleGates[g.Index] = g
	}
	return z.makenode(g.Index, Empty, Base)
}

// isModule reports whether idx is a module proxy's index rather than a
// basic-event variable's.
func (z *Zbdd) isModule(idx int) bool {
	_, ok := z.moduleGates[idx]
	return ok
}

// resolveModule builds and minimizes the diagram for the module
// registered at idx, caching the result so a module referenced from
// several sibling proxies (or nested inside another module) is only
// converted once.
func (z *Zbdd) resolveModule(idx int) (Node, error) {
	if root, ok := z.moduleRoots[idx]; ok {
		return root, nil
	}
	g, ok := z.moduleGates[idx]
	if !ok {
		return Empty, scramerr.Invariant("module %d was never registered", idx)
	}
	raw, err := z.ConvertGraph(g)
	if err != nil {
		return Empty, err
	}
	root := z.Minimize(raw)
	z.moduleRoots[idx] = root
	return root, nil
}

// convertVariable converts a (possibly complemented) basic-event leaf.
// An asserted variable keeps its own index; a complemented one is
// materialized as a distinct synthetic index standing for "this basic
// event did not occur", per Settings.MaterializeComplements.
func (z *Zbdd) convertVariable(v *graph.Variable, signedKey int) Node {
	idx := v.Index
	if signedKey < 0 {
		idx = z.complementIndex(v.Index)
	}
	return z.makenode(idx, Empty, Base)
}

// complementIndex returns the synthetic index standing for "orig did not
// occur", allocating and registering it on first use.
func (z *Zbdd) complementIndex(orig int) int {
	idx := z.complementBase + orig
	z.complementOrigin[idx] = orig
	return idx
}

// ConvertBdd walks a reduced ordered BDD (package bdd's collaborator
// representation) into a ZBDD. Unlike the source this was distilled
// from, package bdd has no attributed complement edges (it negates by
// swapping terminals recursively, see bdd.Not), so there is no per-edge
// attribute bit to XOR down the recursion: complement is carried purely
// as the complement parameter, inspected only when vertex resolves to
// one of b's two terminals. The limit-order budget is enforced the same
// way it is in Apply, uniformly at makenode, rather than by threading a
// separate decrementing counter through this recursion.
func (z *Zbdd) ConvertBdd(vertex bdd.Node, complement bool, b bdd.Set) Node {
	switch {
	case b.Equal(vertex, b.True()):
		if complement {
			return Empty
		}
		return Base
	case b.Equal(vertex, b.False()):
		if complement {
			return Base
		}
		return Empty
	}

	key := bddMemoKey(*vertex, complement)
	if res, ok := z.convertBddCache.LookupUnary(cacheidConvertBdd, key); ok {
		return Node(res)
	}

	index := b.Var(vertex)
	high := z.ConvertBdd(b.High(vertex), complement, b)
	low := z.ConvertBdd(b.Low(vertex), complement, b)
	res := z.makenode(index, low, high)

	z.convertBddCache.StoreUnary(cacheidConvertBdd, key, int(res))
	return res
}
