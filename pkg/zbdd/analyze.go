// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package zbdd

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/dalzilio/scram-go/pkg/bdd"
	"github.com/dalzilio/scram-go/pkg/graph"
	"github.com/dalzilio/scram-go/pkg/scramerr"
	"github.com/dalzilio/scram-go/pkg/settings"
)

// Analyze is the single entry point: it converts g's root directly
// (ConvertGraph), minimizes the result, and enumerates it into the
// caller-visible cut-set shape, resolving every module it encounters
// along the way. g must already be normalized (preprocess.ProcessFaultTree)
// and coherent; a graph with residual negative variable arguments is
// still accepted (each complemented literal is materialized as its own
// synthetic index, or returned as a signed index, per
// Settings.MaterializeComplements), but a non-coherent graph routed
// through the BDD collaborator should use AnalyzeBDD instead, since only
// that path resolves complement at the gate level the way an
// attributed-edge BDD does.
func Analyze(g *graph.IndexedGraph, s settings.Settings) (Result, error) {
	if g.Root == nil {
		return Result{}, scramerr.Contract("graph has no root")
	}
	z := New(s, maxIndex(g)+1, 2*len(g.Gates())+len(g.Variables())+16)

	raw, err := z.ConvertGraph(g.Root)
	if err != nil {
		return Result{}, err
	}
	root := z.Minimize(raw)

	cutSets, err := z.GenerateCutSets(root)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		CutSets:     z.materialize(cutSets, s.MaterializeComplements),
		Complements: z.complementOrigin,
	}
	log.WithField("cutsets", len(res.CutSets)).Debug("zbdd analysis complete")
	return res, nil
}

// AnalyzeBDD is the BDD-sourced construction path: root is the root of an
// already-built reduced ordered BDD over b (see package bdd), complement
// true if root's value should be read inverted (the caller's own
// substitute for an attributed complement edge at the very top, since
// package bdd negates by swapping terminals rather than an edge bit).
// This path does not carry module proxies: a BDD built by package bdd
// has already inlined every module's contribution, so there is nothing
// left to resolve lazily.
func AnalyzeBDD(b bdd.Set, root bdd.Node, complement bool, s settings.Settings) (Result, error) {
	z := New(s, 1, 64)
	raw := z.ConvertBdd(root, complement, b)
	min := z.Minimize(raw)
	cutSets, err := z.GenerateCutSets(min)
	if err != nil {
		return Result{}, err
	}
	return Result{
		CutSets:     z.materialize(cutSets, s.MaterializeComplements),
		Complements: z.complementOrigin,
	}, nil
}

// Result is the outcome of Analyze: CutSets is the full collection of
// minimal cut sets bounded by Settings.LimitOrder, each sorted by basic
// event index and free of duplicates. Complements maps every synthetic
// index Analyze materialized for a complemented variable back to the
// original variable's index; it is empty unless the graph had
// complemented variable arguments, and is filled whatever
// Settings.MaterializeComplements is set to.
type Result struct {
	CutSets     [][]int
	Complements map[int]int
}

// materialize copies and sorts every generated cut set, converting
// synthetic complement indices to signed literals when the caller asked
// for signed output instead. A cut set larger than Settings.LimitOrder
// that makenode's pruning let through (a high branch mixing short and long
// sets, or a module proxy standing for more than one element) is dropped.
func (z *Zbdd) materialize(cutSets [][]int, materializeComplements bool) [][]int {
	result := make([][]int, 0, len(cutSets))
	for _, cs := range cutSets {
		if len(cs) > z.settings.LimitOrder {
			continue
		}
		out := make([]int, len(cs))
		for i, idx := range cs {
			if orig, ok := z.complementOrigin[idx]; ok && !materializeComplements {
				out[i] = -orig
			} else {
				out[i] = idx
			}
		}
		sort.Slice(out, func(i, j int) bool { return absInt(out[i]) < absInt(out[j]) })
		result = append(result, out)
	}
	return result
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// maxIndex returns the largest Index currently allocated in g, used to
// pick a base for synthetic complement indices that cannot collide with
// any real variable, gate, or module id.
func maxIndex(g *graph.IndexedGraph) int {
	max := 0
	for idx := range g.Variables() {
		if idx > max {
			max = idx
		}
	}
	for idx := range g.Gates() {
		if idx > max {
			max = idx
		}
	}
	return max
}
