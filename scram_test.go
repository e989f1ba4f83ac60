// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package scram

import (
	"reflect"
	"testing"

	"github.com/dalzilio/scram-go/pkg/graph"
	"github.com/dalzilio/scram-go/pkg/settings"
)

// buildFaultTree assembles the small non-coherent fault tree
// AND(OR(v1,v2), NOT(v3)): true whenever at least one of v1/v2 fails and
// v3 does not.
func buildFaultTree(t *testing.T) *graph.IndexedGraph {
	t.Helper()
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	v3 := ig.AddVariable("v3")

	or, err := ig.AddGate(graph.OR)
	if err != nil {
		t.Fatalf("AddGate: %v", err)
	}
	if err := ig.AddArg(or, v1.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.AddArg(or, v2.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}

	and, err := ig.AddGate(graph.AND)
	if err != nil {
		t.Fatalf("AddGate: %v", err)
	}
	if err := ig.AddArg(and, or.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.AddArg(and, -v3.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.SetRoot(and); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	return ig
}

// TestAnalyzeEndToEnd checks that Analyze normalizes and converts a small
// non-coherent fault tree into its two minimal cut sets, one per failed
// OR branch, each carrying v3's materialized complement.
func TestAnalyzeEndToEnd(t *testing.T) {
	ig := buildFaultTree(t)
	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.CutSets) != 2 {
		t.Fatalf("expected 2 cut sets, got %d: %v", len(res.CutSets), res.CutSets)
	}
	if len(res.Complements) == 0 {
		t.Fatalf("expected v3's complement to be materialized")
	}
}

// TestAnalyzeRejectsMissingRoot checks that a graph with no root is
// reported as a contract violation rather than a panic.
func TestAnalyzeRejectsMissingRoot(t *testing.T) {
	ig := graph.New()
	if _, err := Analyze(ig, settings.New(10)); err == nil {
		t.Fatalf("expected an error analyzing a graph with no root")
	}
}

// TestAnalyzeHonorsLimitOrder checks that a limit order tighter than the
// fault tree's smallest cut set truncates every result away.
func TestAnalyzeHonorsLimitOrder(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	and, _ := ig.AddGate(graph.AND)
	if err := ig.AddArg(and, v1.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.AddArg(and, v2.Index); err != nil {
		t.Fatalf("AddArg: %v", err)
	}
	if err := ig.SetRoot(and); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	res, err := Analyze(ig, settings.New(1))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(res.CutSets, [][]int(nil)) && len(res.CutSets) != 0 {
		t.Fatalf("expected every cut set truncated away, got %v", res.CutSets)
	}
}
