// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package zbdd

import (
	"reflect"
	"sort"
	"testing"

	"github.com/dalzilio/scram-go/pkg/bdd"
	"github.com/dalzilio/scram-go/pkg/graph"
	"github.com/dalzilio/scram-go/pkg/preprocess"
	"github.com/dalzilio/scram-go/pkg/settings"
)

// buildGraph assembles an IndexedGraph from a handful of variables,
// wires up op(args...) as the root, preprocesses it, and returns the
// ready-to-convert graph alongside the variables (keyed by name) for
// callers that need to reference a specific one afterwards.
func buildGraph(t *testing.T, op graph.Type, names ...string) (*graph.IndexedGraph, map[string]*graph.Variable) {
	t.Helper()
	ig := graph.New()
	vars := make(map[string]*graph.Variable, len(names))
	var sig []int
	for _, name := range names {
		v := ig.AddVariable(name)
		vars[name] = v
		sig = append(sig, v.Index)
	}
	g, err := ig.AddGate(op)
	if err != nil {
		t.Fatalf("AddGate: %v", err)
	}
	for _, idx := range sig {
		if err := ig.AddArg(g, idx); err != nil {
			t.Fatalf("AddArg: %v", err)
		}
	}
	if err := ig.SetRoot(g); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	return ig, vars
}

// preprocessed is a test helper that runs the full pass sequence and
// fails the test on error, since every scenario below wants to hand
// Analyze an already-normalized graph.
func preprocessed(t *testing.T, ig *graph.IndexedGraph) *graph.IndexedGraph {
	t.Helper()
	if err := preprocess.New(ig).ProcessFaultTree(); err != nil {
		t.Fatalf("ProcessFaultTree: %v", err)
	}
	return ig
}

// sortCutSets gives a deterministic order to a cut-set collection so
// tests can compare against a literal expectation regardless of
// internal enumeration order.
func sortCutSets(css [][]int) [][]int {
	out := make([][]int, len(css))
	copy(out, css)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return out
}

func TestAndOfTwoProducesOneCutSet(t *testing.T) {
	ig, vars := buildGraph(t, graph.AND, "v1", "v2")
	ig = preprocessed(t, ig)
	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := [][]int{sortInts([]int{vars["v1"].Index, vars["v2"].Index})}
	if !reflect.DeepEqual(res.CutSets, want) {
		t.Fatalf("got %v, want %v", res.CutSets, want)
	}
}

func sortInts(s []int) []int {
	sort.Ints(s)
	return s
}

// TestOrOfTwoSharedAndsProducesTwoCutSets covers OR(AND(v1,v2), AND(v2,v3)):
// v2 appears in both branches but the two cut sets remain distinct.
func TestOrOfTwoSharedAndsProducesTwoCutSets(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	v3 := ig.AddVariable("v3")
	and1, _ := ig.AddGate(graph.AND)
	must(t, ig.AddArg(and1, v1.Index))
	must(t, ig.AddArg(and1, v2.Index))
	and2, _ := ig.AddGate(graph.AND)
	must(t, ig.AddArg(and2, v2.Index))
	must(t, ig.AddArg(and2, v3.Index))
	or, _ := ig.AddGate(graph.OR)
	must(t, ig.AddArg(or, and1.Index))
	must(t, ig.AddArg(or, and2.Index))
	must(t, ig.SetRoot(or))

	ig = preprocessed(t, ig)
	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := sortCutSets([][]int{
		{v1.Index, v2.Index},
		{v2.Index, v3.Index},
	})
	got := sortCutSets(res.CutSets)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestOrOfVarAndAbsorbingAndCollapsesToSingleton covers
// OR(v1, AND(v1,v2)): the smaller cut set {v1} absorbs {v1,v2}, so only
// {v1} survives minimization.
func TestOrOfVarAndAbsorbingAndCollapsesToSingleton(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	and, _ := ig.AddGate(graph.AND)
	must(t, ig.AddArg(and, v1.Index))
	must(t, ig.AddArg(and, v2.Index))
	or, _ := ig.AddGate(graph.OR)
	must(t, ig.AddArg(or, v1.Index))
	must(t, ig.AddArg(or, and.Index))
	must(t, ig.SetRoot(or))

	ig = preprocessed(t, ig)
	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := [][]int{{v1.Index}}
	got := sortCutSets(res.CutSets)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestXorOfTwoMaterializesComplementedVariable covers the non-coherent
// case XOR(v1,v2): after expansion, one of the two surviving cut sets
// carries a complemented literal, materialized as a synthetic positive
// index when MaterializeComplements is true (the default) and as a
// signed index when it is false.
func TestXorOfTwoMaterializesComplementedVariable(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	xor, _ := ig.AddGate(graph.XOR)
	must(t, ig.AddArg(xor, v1.Index))
	must(t, ig.AddArg(xor, v2.Index))
	must(t, ig.SetRoot(xor))
	ig = preprocessed(t, ig)

	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.CutSets) != 2 {
		t.Fatalf("expected 2 cut sets for an exclusive-or, got %d: %v", len(res.CutSets), res.CutSets)
	}
	if len(res.Complements) == 0 {
		t.Fatalf("expected at least one materialized complement, got none")
	}

	signed, err := Analyze(ig, settings.New(10, settings.WithMaterializeComplements(false)))
	if err != nil {
		t.Fatalf("Analyze (signed): %v", err)
	}
	foundNegative := false
	for _, cs := range signed.CutSets {
		for _, lit := range cs {
			if lit < 0 {
				foundNegative = true
			}
		}
	}
	if !foundNegative {
		t.Fatalf("expected a signed literal when MaterializeComplements is false, got %v", signed.CutSets)
	}
}

// TestAtLeastTwoOfThreeProducesEveryPair covers ATLEAST(2, v1, v2, v3):
// the three size-2 combinations of the three variables, and nothing
// smaller or larger.
func TestAtLeastTwoOfThreeProducesEveryPair(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	v3 := ig.AddVariable("v3")
	atleast, err := ig.AddGate(graph.ATLEAST, 2)
	if err != nil {
		t.Fatalf("AddGate: %v", err)
	}
	must(t, ig.AddArg(atleast, v1.Index))
	must(t, ig.AddArg(atleast, v2.Index))
	must(t, ig.AddArg(atleast, v3.Index))
	must(t, ig.SetRoot(atleast))
	ig = preprocessed(t, ig)

	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := sortCutSets([][]int{
		{v1.Index, v2.Index},
		{v1.Index, v3.Index},
		{v2.Index, v3.Index},
	})
	got := sortCutSets(res.CutSets)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestLimitOrderOneTruncatesEveryCutSet covers
// AND(OR(v1,v2), OR(v3,v4)) under a limit order of 1: every cut set the
// unbounded diagram would produce has cardinality 2, so all of them are
// truncated away and the result is empty.
func TestLimitOrderOneTruncatesEveryCutSet(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	v2 := ig.AddVariable("v2")
	v3 := ig.AddVariable("v3")
	v4 := ig.AddVariable("v4")
	or1, _ := ig.AddGate(graph.OR)
	must(t, ig.AddArg(or1, v1.Index))
	must(t, ig.AddArg(or1, v2.Index))
	or2, _ := ig.AddGate(graph.OR)
	must(t, ig.AddArg(or2, v3.Index))
	must(t, ig.AddArg(or2, v4.Index))
	and, _ := ig.AddGate(graph.AND)
	must(t, ig.AddArg(and, or1.Index))
	must(t, ig.AddArg(and, or2.Index))
	must(t, ig.SetRoot(and))
	ig = preprocessed(t, ig)

	res, err := Analyze(ig, settings.New(1))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.CutSets) != 0 {
		t.Fatalf("expected every cut set truncated away, got %v", res.CutSets)
	}
}

// TestEmptyGraphProducesNoCutSets covers the degenerate fault tree whose
// root is a NULL-typed gate with no argument at all: Analyze must not
// error, it should simply report no cut sets. This shape does not arise
// from ordinary preprocessing (a NULL root with no argument is collapsed
// by pass 4 only when it started from a constant; built directly, as
// here, it never goes through ProcessFaultTree).
func TestEmptyGraphProducesNoCutSets(t *testing.T) {
	ig := graph.New()
	root, _ := ig.AddGate(graph.NULL)
	must(t, ig.SetRoot(root))

	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.CutSets) != 0 {
		t.Fatalf("expected no cut sets, got %v", res.CutSets)
	}
}

// TestTautologicalRootProducesSingleEmptyCutSet covers a root whose
// State is already Unity: the only cut set is the empty one, matching
// Base.
func TestTautologicalRootProducesSingleEmptyCutSet(t *testing.T) {
	ig := graph.New()
	root, _ := ig.AddGate(graph.AND)
	root.State = graph.GateUnity
	must(t, ig.SetRoot(root))

	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := [][]int{{}}
	if !reflect.DeepEqual(res.CutSets, want) {
		t.Fatalf("got %v, want a single empty cut set", res.CutSets)
	}
}

// TestSingleVariableRootProducesSingletonCutSet covers the degenerate
// fault tree whose root is a NULL-typed pass-through over exactly one
// basic event, with no other gate in the graph at all.
func TestSingleVariableRootProducesSingletonCutSet(t *testing.T) {
	ig := graph.New()
	v1 := ig.AddVariable("v1")
	root, _ := ig.AddGate(graph.NULL)
	must(t, ig.AddArg(root, v1.Index))
	must(t, ig.SetRoot(root))

	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := [][]int{{v1.Index}}
	if !reflect.DeepEqual(res.CutSets, want) {
		t.Fatalf("got %v, want %v", res.CutSets, want)
	}
}

// TestNestedModulesResolveThreeLevelsDeep builds a module containing a
// module containing a module, OR(a, AND(b, OR(c, d))), alternating
// operators so coalescing keeps the three levels apart, and checks the
// innermost variables still surface correctly through two levels of lazy
// proxy resolution.
func TestNestedModulesResolveThreeLevelsDeep(t *testing.T) {
	ig := graph.New()
	va := ig.AddVariable("a")
	vb := ig.AddVariable("b")
	vc := ig.AddVariable("c")
	vd := ig.AddVariable("d")

	inner, _ := ig.AddGate(graph.OR)
	must(t, ig.AddArg(inner, vc.Index))
	must(t, ig.AddArg(inner, vd.Index))

	middle, _ := ig.AddGate(graph.AND)
	must(t, ig.AddArg(middle, vb.Index))
	must(t, ig.AddArg(middle, inner.Index))

	outer, _ := ig.AddGate(graph.OR)
	must(t, ig.AddArg(outer, va.Index))
	must(t, ig.AddArg(outer, middle.Index))
	must(t, ig.SetRoot(outer))

	ig = preprocessed(t, ig)
	res, err := Analyze(ig, settings.New(10))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := sortCutSets([][]int{
		{va.Index},
		{vb.Index, vc.Index},
		{vb.Index, vd.Index},
	})
	if got := sortCutSets(res.CutSets); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestAnalyzeBDDMatchesAnalyzeGraph checks the BDD-sourced construction
// path on a small AND of three variables against the single cut set the
// direct graph path gives for an AND gate (see
// TestAndOfTwoProducesOneCutSet); here the literal is written out over
// the BDD's variable levels 0..2 rather than computed through ConvertGraph.
func TestAnalyzeBDDMatchesAnalyzeGraph(t *testing.T) {
	b, err := bdd.New(3)
	if err != nil {
		t.Fatalf("bdd.New: %v", err)
	}
	root := b.And(b.Ithvar(0), b.Ithvar(1), b.Ithvar(2))

	res, err := AnalyzeBDD(b, root, false, settings.New(10))
	if err != nil {
		t.Fatalf("AnalyzeBDD: %v", err)
	}
	want := [][]int{{0, 1, 2}}
	if !reflect.DeepEqual(res.CutSets, want) {
		t.Fatalf("got %v, want %v", res.CutSets, want)
	}
}

// TestAnalyzeBDDComplementFlag checks that a complemented root is read
// as its negation: complementing a tautology yields the empty family.
func TestAnalyzeBDDComplementFlag(t *testing.T) {
	b, err := bdd.New(1)
	if err != nil {
		t.Fatalf("bdd.New: %v", err)
	}
	res, err := AnalyzeBDD(b, b.True(), true, settings.New(10))
	if err != nil {
		t.Fatalf("AnalyzeBDD: %v", err)
	}
	if len(res.CutSets) != 0 {
		t.Fatalf("expected no cut sets for a complemented tautology, got %v", res.CutSets)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
