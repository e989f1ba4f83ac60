// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package preprocess implements the ten-pass rewrite engine:
// ProcessFaultTree normalizes an IndexedGraph into a semantically
// equivalent graph that is free of constants, free of NULL/NOT gates (once
// complements are propagated), composed only of positive AND/OR operators
// with at least two arguments each, free of multiply-defined isomorphic
// subtrees, and has its maximal independent submodules tagged.
//
// Every pass assumes the input satisfies its documented precondition; a
// broken contract (a cycle, a malformed ATLEAST, a root with parents) is
// not expected to be recovered from.
package preprocess

import (
	log "github.com/sirupsen/logrus"

	"github.com/dalzilio/scram-go/pkg/graph"
)

// Preprocessor owns an IndexedGraph exclusively for the duration of
// ProcessFaultTree: each Preprocessor instance owns its IndexedGraph
// exclusively. rootSign tracks the external sign absorbed
// from root-level NOR/NAND/NOT rewrites and from pass-through unwrapping,
// exactly as preprocessor.cc's root_sign_ does.
type Preprocessor struct {
	graph    *graph.IndexedGraph
	rootSign int

	// constGates and nullGates are the worklists pass 1/pass 3 register
	// into, mirroring preprocessor.cc's const_gates_/null_gates_.
	constGates []*graph.Gate
	nullGates  []*graph.Gate
}

// New returns a Preprocessor over g. g's Root must already be set.
func New(g *graph.IndexedGraph) *Preprocessor {
	return &Preprocessor{graph: g, rootSign: 1}
}

// ProcessFaultTree runs the fixed pass sequence. It mutates the
// Preprocessor's graph in place.
func (p *Preprocessor) ProcessFaultTree() error {
	g := p.graph
	root := g.Root
	log.Debug("preprocessing started")

	if g.Constants {
		log.Debug("pass 1: propagating constants")
		p.propagateConstants(root)
	}

	if !g.Normal {
		log.Debug("pass 2: normalizing gates")
		p.normalizeGates()
	}

	log.Debug("pass 3: removing null gates")
	p.removeNullGates()

	if root.State != graph.Normal {
		log.Debug("pass 4: root collapsed to a constant state")
		p.collapseConstantRoot()
		return nil
	}

	root = g.Root
	if root.Type == graph.NULL {
		log.Debug("pass 5: unwrapping pass-through root")
		p.unwrapPassThroughRoot()
		root = g.Root
	}

	if !g.Coherent {
		log.Debug("pass 6: propagating complements")
		p.propagateComplements()
	}

	log.Debug("pass 7: eliminating multiple definitions")
	changed := true
	for changed {
		changed = p.eliminateMultipleDefinitions()
	}

	if g.Coherent {
		log.Debug("pass 8: Boolean optimization")
		p.booleanOptimization()
	}

	log.Debug("pass 9: coalescing gates")
	p.removeNullGates()
	changed = true
	for changed {
		changed = p.coalesce()
		if len(p.constGates) > 0 {
			p.clearConstGates()
			changed = true
		}
	}

	root = g.Root
	if root.NumArgs() == 0 {
		log.Debug("root became constant during coalescing; nothing further to do")
		return nil
	}

	log.Debug("pass 10: detecting modules")
	p.detectModules()
	log.Debug("preprocessing finished")
	return nil
}

// clearMarks resets the Mark scratch field of every gate reachable from
// root; producers must call this between passes that rely on in-node
// scratch.
func (p *Preprocessor) clearMarks() {
	graph.Walk(p.graph.Root, func(g *graph.Gate) bool {
		g.Mark = false
		return true
	})
}

// clearOptiValues resets OptiValue on every gate and variable reachable
// from root, used before the Boolean-optimization pass recomputes them.
func (p *Preprocessor) clearOptiValues() {
	graph.Walk(p.graph.Root, func(g *graph.Gate) bool {
		g.OptiValue = 0
		for _, v := range g.VarArgs {
			v.OptiValue = 0
		}
		return true
	})
}
