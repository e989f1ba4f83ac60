// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package preprocess

import "github.com/dalzilio/scram-go/pkg/graph"

// normalizeGates is pass 2: it rewrites every gate so the graph ends up
// composed only of positive AND/OR/NULL operators (NOT becomes NULL; an
// XOR or ATLEAST gate is expanded into an equivalent AND/OR subtree). A
// negative gate (NOR, NAND, NOT) is never left standing on its own: its
// negation is pushed onto the sign of the edge pointing to it first, so
// the gate itself can be rewritten to its positive counterpart.
func (p *Preprocessor) normalizeGates() {
	root := p.graph.Root
	switch root.Type {
	case graph.NOR, graph.NAND, graph.NOT:
		p.rootSign *= -1
	}

	p.clearMarks()
	p.notifyParentsOfNegativeGates(root)

	p.clearMarks()
	p.normalizeGate(root)

	if len(p.nullGates) > 0 {
		p.clearNullGates()
	}
}

// notifyParentsOfNegativeGates walks the graph and, for every gate argument
// that points at a NOR/NAND/NOT gate, inverts the sign of that edge. Once
// every such edge carries the negation, normalizeGate can rewrite every
// gate to its positive form without changing the Boolean function computed.
func (p *Preprocessor) notifyParentsOfNegativeGates(gate *graph.Gate) {
	if gate.Mark {
		return
	}
	gate.Mark = true
	var toNegate []int
	for key, arg := range gate.GateArgs {
		p.notifyParentsOfNegativeGates(arg)
		switch arg.Type {
		case graph.NOR, graph.NAND, graph.NOT:
			toNegate = append(toNegate, key)
		}
	}
	for _, key := range toNegate {
		gate.InvertArg(key)
	}
}

// normalizeGate recursively rewrites gate and its descendants to their
// positive, expanded form.
func (p *Preprocessor) normalizeGate(gate *graph.Gate) {
	if gate.Mark {
		return
	}
	gate.Mark = true
	for _, arg := range gate.GateArgs {
		p.normalizeGate(arg)
	}

	switch gate.Type {
	case graph.NOT:
		gate.Type = graph.NULL
	case graph.NOR, graph.OR:
		gate.Type = graph.OR
	case graph.NAND, graph.AND:
		gate.Type = graph.AND
	case graph.XOR:
		p.normalizeXorGate(gate)
	case graph.ATLEAST:
		p.normalizeAtleastGate(gate)
	case graph.NULL:
		p.nullGates = append(p.nullGates, gate)
	}
}

// normalizeXorGate expands a two-argument XOR(a, b) into
// OR(AND(a, -b), AND(-a, b)).
func (p *Preprocessor) normalizeXorGate(gate *graph.Gate) {
	keys := gate.ArgIndices()
	if len(keys) != 2 {
		return
	}
	arg1, arg2 := keys[0], keys[1]

	gateOne := p.graph.NewIntermediateGate(graph.AND)
	gateTwo := p.graph.NewIntermediateGate(graph.AND)
	gateOne.Mark = true
	gateTwo.Mark = true

	_ = p.graph.AddArg(gateOne, arg1)
	_ = p.graph.AddArg(gateTwo, arg1)
	gateTwo.InvertArg(arg1)

	_ = p.graph.AddArg(gateOne, arg2)
	gateOne.InvertArg(arg2)
	_ = p.graph.AddArg(gateTwo, arg2)

	gate.RemoveArg(arg1)
	gate.RemoveArg(arg2)
	gate.Type = graph.OR
	_ = p.graph.AddArg(gate, gateOne.Index)
	_ = p.graph.AddArg(gate, gateTwo.Index)
}

// normalizeAtleastGate expands a k-of-n vote gate by Shannon expansion on
// its first argument x1:
//
//	ATLEAST(k, {x1,...,xn}) = OR(AND(x1, ATLEAST(k-1, rest)), ATLEAST(k, rest))
//
// recursing until each branch degenerates to a plain AND (when k equals the
// remaining argument count) or OR (when k reaches 1).
func (p *Preprocessor) normalizeAtleastGate(gate *graph.Gate) {
	vote := gate.VoteNumber
	keys := gate.ArgIndices()
	if len(keys) == vote {
		gate.Type = graph.AND
		return
	}
	if vote == 1 {
		gate.Type = graph.OR
		return
	}

	first := keys[0]
	rest := keys[1:]

	firstArg := p.graph.NewIntermediateGate(graph.AND)
	_ = p.graph.AddArg(firstArg, first)

	grandArg := p.graph.NewIntermediateGate(graph.ATLEAST)
	grandArg.VoteNumber = vote - 1
	_ = p.graph.AddArg(firstArg, grandArg.Index)

	secondArg := p.graph.NewIntermediateGate(graph.ATLEAST)
	secondArg.VoteNumber = vote

	for _, k := range rest {
		_ = p.graph.AddArg(grandArg, k)
		_ = p.graph.AddArg(secondArg, k)
	}

	firstArg.Mark = true
	secondArg.Mark = true
	grandArg.Mark = true

	for _, k := range keys {
		gate.RemoveArg(k)
	}
	gate.Type = graph.OR
	_ = p.graph.AddArg(gate, firstArg.Index)
	_ = p.graph.AddArg(gate, secondArg.Index)

	p.normalizeAtleastGate(grandArg)
	p.normalizeAtleastGate(secondArg)
}
