// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package preprocess

import "github.com/dalzilio/scram-go/pkg/graph"

// booleanOptimization is pass 8, run only on coherent graphs: for every
// node referenced by more than one parent, it asks "if this node were
// true, which gates would be forced true regardless of their other
// arguments?" (propagateFailure). If the set of forced destinations is
// smaller than the node's total multiplicity, some of the node's parents
// are redundant — implied by one of the destinations — and are rewritten
// away.
func (p *Preprocessor) booleanOptimization() {
	p.graph.ClearScratch()
	p.clearMarks()
	commonGates, commonVars := p.gatherCommonNodes()

	for _, g := range commonGates {
		p.processCommonNode(&g.Node)
	}
	for _, v := range commonVars {
		p.processCommonNode(&v.Node)
	}
}

// gatherCommonNodes does a BFS from root and returns every Gate and
// Variable referenced by more than one parent.
func (p *Preprocessor) gatherCommonNodes() ([]*graph.Gate, []*graph.Variable) {
	var commonGates []*graph.Gate
	var commonVars []*graph.Variable

	root := p.graph.Root
	root.Mark = true
	queue := []*graph.Gate{root}
	for len(queue) > 0 {
		gate := queue[0]
		queue = queue[1:]
		for _, arg := range gate.GateArgs {
			if arg.Mark {
				continue
			}
			arg.Mark = true
			queue = append(queue, arg)
			if arg.NumParents() > 1 {
				commonGates = append(commonGates, arg)
			}
		}
		for _, v := range gate.VarArgs {
			if v.Mark {
				continue
			}
			v.Mark = true
			if v.NumParents() > 1 {
				commonVars = append(commonVars, v)
			}
		}
	}
	return commonGates, commonVars
}

// processCommonNode runs one round of redundancy detection for a single
// shared node.
func (p *Preprocessor) processCommonNode(node *graph.Node) {
	if node.NumParents() <= 1 {
		return // a prior round already absorbed every parent but one
	}
	root := p.graph.Root
	p.clearOptiValues()

	node.OptiValue = 1
	multTot := node.NumParents()
	failCount := make(map[int]int)
	multTot += p.propagateFailure(node, failCount)

	destinations := make(map[int]*graph.Gate)
	if root.OptiValue == 1 {
		destinations[root.Index] = root
	} else {
		p.collectFailureDestinations(root, node.Index, destinations)
	}
	if len(destinations) == 0 {
		return
	}
	if len(destinations) >= multTot {
		return // no redundancy: every parent is an independent destination
	}

	createdConstant := p.processRedundantParents(node, destinations)
	p.processFailureDestinations(node, destinations)
	if createdConstant {
		p.clearMarks()
		p.propagateConstants(root)
		p.clearMarks()
		p.removeNullGates()
	}
}

// propagateFailure simulates node being forced true, walking up through
// every parent and marking a parent OptiValue 1 once enough of its own
// arguments have failed to force its own value (one for OR, all for AND,
// the vote count for ATLEAST), recursing further up from any parent that
// itself fails.
func (p *Preprocessor) propagateFailure(node *graph.Node, failCount map[int]int) int {
	multTot := 0
	for _, parent := range node.Parents {
		if parent.OptiValue == 1 {
			continue
		}
		failCount[parent.Index]++
		threshold := 1
		switch parent.Type {
		case graph.AND:
			threshold = parent.NumArgs()
		case graph.ATLEAST:
			threshold = parent.VoteNumber
		}
		if failCount[parent.Index] < threshold {
			continue
		}
		parent.OptiValue = 1
		mult := parent.NumParents()
		if mult > 1 {
			multTot += mult
		}
		multTot += p.propagateFailure(&parent.Node, failCount)
	}
	return multTot
}

// collectFailureDestinations walks the graph from gate looking for gates
// that failed (OptiValue 1) but are not node itself, collecting each one
// found along a path that does not pass through another failed gate first
// (a destination nested under another destination is not independently
// redundant).
func (p *Preprocessor) collectFailureDestinations(gate *graph.Gate, nodeIndex int, destinations map[int]*graph.Gate) int {
	if _, isDirectArg := gate.HasAbs(nodeIndex); isDirectArg {
		gate.OptiValue = 3
	} else {
		gate.OptiValue = 2
	}
	numDest := 0
	for _, arg := range gate.GateArgs {
		switch {
		case arg.OptiValue == 0:
			numDest += p.collectFailureDestinations(arg, nodeIndex, destinations)
		case arg.OptiValue == 1 && arg.Index != nodeIndex:
			numDest++
			destinations[arg.Index] = arg
		}
	}
	return numDest
}

// processRedundantParents rewrites every parent of node that is not itself
// a failure destination: an AND parent collapses to false outright (since
// node being true was required for it and some other argument already
// fails independently); an OR parent simply drops node as an argument; an
// ATLEAST parent drops node and may degenerate to AND. It reports whether
// any parent collapsed to a constant.
func (p *Preprocessor) processRedundantParents(node *graph.Node, destinations map[int]*graph.Gate) bool {
	var redundant []*graph.Gate
	for _, parent := range node.Parents {
		if parent.OptiValue >= 3 {
			continue
		}
		if parent.Type == graph.OR {
			if _, ok := destinations[parent.Index]; ok {
				delete(destinations, parent.Index)
				continue
			}
		}
		redundant = append(redundant, parent)
	}

	createdConstant := false
	for _, parent := range redundant {
		if _, stillOwned := p.graph.Gates()[parent.Index]; !stillOwned {
			continue
		}
		switch parent.Type {
		case graph.AND:
			p.makeConstant(parent, false)
			createdConstant = true
		case graph.OR:
			parent.RemoveArg(node.Index)
			if parent.NumArgs() == 1 {
				parent.Type = graph.NULL
				p.nullGates = append(p.nullGates, parent)
			}
		case graph.ATLEAST:
			parent.RemoveArg(node.Index)
			if parent.NumArgs() == parent.VoteNumber {
				parent.Type = graph.AND
			}
		}
	}
	return createdConstant
}

// processFailureDestinations attaches node directly to every remaining
// destination: an OR destination simply gains node as an extra argument; an
// AND or ATLEAST destination is split into a new gate carrying its old
// arguments, ORed together with node, since node being true alone must now
// be enough to satisfy the destination.
func (p *Preprocessor) processFailureDestinations(node *graph.Node, destinations map[int]*graph.Gate) {
	for _, target := range destinations {
		if _, stillOwned := p.graph.Gates()[target.Index]; !stillOwned {
			continue
		}
		switch target.Type {
		case graph.OR:
			_ = p.graph.AddArg(target, node.Index)
		case graph.AND, graph.ATLEAST:
			inner := p.graph.NewIntermediateGate(target.Type)
			inner.VoteNumber = target.VoteNumber
			for _, k := range target.ArgIndices() {
				_ = p.graph.AddArg(inner, k)
			}
			for _, k := range target.ArgIndices() {
				target.RemoveArg(k)
			}
			target.Type = graph.OR
			_ = p.graph.AddArg(target, inner.Index)
			_ = p.graph.AddArg(target, node.Index)
		}
	}
}
