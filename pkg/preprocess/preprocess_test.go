// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package preprocess

import (
	"testing"

	"github.com/dalzilio/scram-go/pkg/graph"
)

// buildAnd2 builds root = AND(v1, v2), already free of constants and
// negation, so ProcessFaultTree should leave it untouched
// apart from tagging it a module (it is, trivially, the whole graph).
func buildAnd2(t *testing.T) (*graph.IndexedGraph, *graph.Gate) {
	t.Helper()
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	and, err := ig.AddGate(graph.AND)
	if err != nil {
		t.Fatalf("AddGate: %v", err)
	}
	if err := ig.AddArg(and, v1.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.AddArg(and, v2.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.SetRoot(and); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	return ig, and
}

func TestProcessFaultTreeTrivialAnd(t *testing.T) {
	ig, and := buildAnd2(t)
	if err := New(ig).ProcessFaultTree(); err != nil {
		t.Fatalf("ProcessFaultTree: %v", err)
	}
	if ig.Root != and {
		t.Fatalf("root changed unexpectedly")
	}
	if and.Type != graph.AND || and.NumArgs() != 2 {
		t.Fatalf("expected AND(v1, v2) unchanged, got %s", and)
	}
	if !and.IsModule {
		t.Fatalf("expected the whole graph to be tagged a module")
	}
}

// TestConstantPropagationCollapsesRoot builds AND(v1, false) and checks the
// root collapses to a constant-false state.
func TestConstantPropagationCollapsesRoot(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	c := ig.AddConstant(false)
	and, _ := ig.AddGate(graph.AND)
	if err := ig.AddArg(and, v1.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.AddArg(and, c.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.SetRoot(and); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	if err := New(ig).ProcessFaultTree(); err != nil {
		t.Fatalf("ProcessFaultTree: %v", err)
	}
	if ig.Root.State != graph.GateNull {
		t.Fatalf("expected the root to collapse to false, got state %s", ig.Root.State)
	}
}

// TestXorExpansionProducesOrOfAnds checks pass 2's XOR(v1, v2) rewrite into
// OR(AND(v1, -v2), AND(-v1, v2)).
func TestXorExpansionProducesOrOfAnds(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	xor, _ := ig.AddGate(graph.XOR)
	if err := ig.AddArg(xor, v1.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.AddArg(xor, v2.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.SetRoot(xor); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	if err := New(ig).ProcessFaultTree(); err != nil {
		t.Fatalf("ProcessFaultTree: %v", err)
	}
	root := ig.Root
	if root.Type != graph.OR || root.NumArgs() != 2 {
		t.Fatalf("expected OR with 2 arguments, got %s", root)
	}
	for _, arg := range root.GateArgs {
		if arg.Type != graph.AND || arg.NumArgs() != 2 {
			t.Fatalf("expected an AND(v1, v2) branch, got %s", arg)
		}
	}
	if err := ig.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

// TestAtleastExpansionIsAcyclicAndPositive checks pass 2's Shannon
// expansion of a 2-of-3 vote gate leaves a purely positive AND/OR tree.
func TestAtleastExpansionIsAcyclicAndPositive(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	v3 := ig.AddVariable("v3")
	atleast, err := ig.AddGate(graph.ATLEAST, 2)
	if err != nil {
		t.Fatalf("AddGate: %v", err)
	}
	for _, v := range []*graph.Variable{v1, v2, v3} {
		if err := ig.AddArg(atleast, v.Index); err != nil {
			t.Fatalf("AddArg: %v", err)
		}
	}
	if err := ig.SetRoot(atleast); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	if err := New(ig).ProcessFaultTree(); err != nil {
		t.Fatalf("ProcessFaultTree: %v", err)
	}
	if err := ig.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	graph.Walk(ig.Root, func(g *graph.Gate) bool {
		if g.Type != graph.AND && g.Type != graph.OR {
			t.Fatalf("expected only AND/OR gates after expansion, found %s", g)
		}
		for _, k := range g.ArgIndices() {
			if k < 0 {
				t.Fatalf("expected a purely positive graph, found negative arg in %s", g)
			}
		}
		return true
	})
}

// TestDedupMergesIsomorphicGates builds two structurally identical AND
// sub-gates reachable from two different OR branches and checks pass 7
// collapses them into one.
func TestDedupMergesIsomorphicGates(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	v3 := ig.AddVariable("v3")

	and1, _ := ig.AddGate(graph.AND)
	_ = ig.AddArg(and1, v1.Index)
	_ = ig.AddArg(and1, v2.Index)

	and2, _ := ig.AddGate(graph.AND)
	_ = ig.AddArg(and2, v1.Index)
	_ = ig.AddArg(and2, v2.Index)

	or1, _ := ig.AddGate(graph.OR)
	_ = ig.AddArg(or1, and1.Index)
	_ = ig.AddArg(or1, v3.Index)

	root, _ := ig.AddGate(graph.OR)
	_ = ig.AddArg(root, or1.Index)
	_ = ig.AddArg(root, and2.Index)
	if err := ig.SetRoot(root); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	if err := New(ig).ProcessFaultTree(); err != nil {
		t.Fatalf("ProcessFaultTree: %v", err)
	}
	if err := ig.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	var ands []*graph.Gate
	graph.Walk(ig.Root, func(g *graph.Gate) bool {
		if g.Type == graph.AND {
			ands = append(ands, g)
		}
		return true
	})
	if len(ands) != 1 {
		t.Fatalf("expected the two isomorphic AND gates to merge into one, found %d", len(ands))
	}
}
