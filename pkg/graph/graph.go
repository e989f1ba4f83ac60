// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package graph

import (
	"github.com/dalzilio/scram-go/pkg/scramerr"
)

// IndexedGraph owns every Node reachable from Root and exposes the three
// global flags: Coherent (no negation operator anywhere), Normal (only
// AND/OR/NOT/NULL present), and Constants (at least one Constant leaf is
// still present, which is only expected mid-pipeline).
type IndexedGraph struct {
	Root      *Gate
	Coherent  bool
	Normal    bool
	Constants bool

	nextIndex int
	variables map[int]*Variable
	gates     map[int]*Gate
	constants map[int]*Constant
}

// New returns an empty IndexedGraph with no Root. Callers build the graph
// with AddVariable/AddGate/AddArg/SetRoot before handing it to the
// preprocessor.
func New() *IndexedGraph {
	return &IndexedGraph{
		variables: make(map[int]*Variable),
		gates:     make(map[int]*Gate),
		constants: make(map[int]*Constant),
	}
}

func (ig *IndexedGraph) allocIndex() int {
	ig.nextIndex++
	return ig.nextIndex
}

// AddVariable allocates and returns a fresh basic-event leaf.
func (ig *IndexedGraph) AddVariable(name string) *Variable {
	v := &Variable{Node: newNode(ig.allocIndex(), KindVariable), Name: name}
	ig.variables[v.Index] = v
	return v
}

// AddConstant allocates and returns a fresh constant leaf. Constants are
// transient: the preprocessor's constant-propagation pass removes every
// one of them before ProcessFaultTree returns.
func (ig *IndexedGraph) AddConstant(value bool) *Constant {
	c := &Constant{Node: newNode(ig.allocIndex(), KindConstant), Value: value}
	ig.constants[c.Index] = c
	ig.Constants = true
	return c
}

// AddGate allocates and returns a fresh gate of the given type with no
// arguments. voteNumber is only consulted (and required to be >= 2) when t
// is ATLEAST; it is a contract violation otherwise and AddGate returns a
// nil Gate plus a ContractViolation error.
func (ig *IndexedGraph) AddGate(t Type, voteNumber ...int) (*Gate, error) {
	g := newGate(ig.allocIndex(), t)
	if t == ATLEAST {
		if len(voteNumber) != 1 || voteNumber[0] < 2 {
			return nil, scramerr.Contract("ATLEAST gate %d requires a vote number >= 2", g.Index)
		}
		g.VoteNumber = voteNumber[0]
	}
	ig.gates[g.Index] = g
	return g, nil
}

// AddArg attaches child (identified by its signed index: positive asserted,
// negative complemented) as an argument of parent. The magnitude of
// signedChildIndex must equal the Index of a Node already owned by ig.
// Attempting to add an argument that already exists on parent with the
// opposite sign is a validation error.
func (ig *IndexedGraph) AddArg(parent *Gate, signedChildIndex int) error {
	if signedChildIndex == 0 {
		return scramerr.Contract("argument index 0 is reserved and invalid")
	}
	a := abs(signedChildIndex)
	if sign, ok := parent.HasAbs(a); ok {
		wantSign := 1
		if signedChildIndex < 0 {
			wantSign = -1
		}
		if sign != wantSign {
			return scramerr.Contract("gate %d already has argument %d with opposite sign", parent.Index, a)
		}
		return nil // already present with the same sign: idempotent
	}
	if child, ok := ig.gates[a]; ok {
		parent.GateArgs[signedChildIndex] = child
		child.addParent(parent)
		return nil
	}
	if child, ok := ig.variables[a]; ok {
		parent.VarArgs[signedChildIndex] = child
		child.addParent(parent)
		return nil
	}
	if child, ok := ig.constants[a]; ok {
		parent.ConstArgs[signedChildIndex] = child
		child.addParent(parent)
		return nil
	}
	return scramerr.Contract("unknown argument index %d", a)
}

// SetRoot designates g as the top event. g must have no parents: a root
// with existing parents is a caller contract violation.
func (ig *IndexedGraph) SetRoot(g *Gate) error {
	if g.NumParents() > 0 {
		return scramerr.Contract("root gate %d already has %d parent(s)", g.Index, g.NumParents())
	}
	ig.Root = g
	return nil
}

// SetCoherent sets the Coherent flag.
func (ig *IndexedGraph) SetCoherent(v bool) { ig.Coherent = v }

// SetNormal sets the Normal flag.
func (ig *IndexedGraph) SetNormal(v bool) { ig.Normal = v }

// Gates returns every Gate currently owned by the graph, keyed by index.
// Intended for passes that need to enumerate all gates regardless of
// reachability from Root (e.g. multiple-definition elimination's grouping
// step); reachability-sensitive passes should instead walk from Root.
func (ig *IndexedGraph) Gates() map[int]*Gate {
	return ig.gates
}

// Variables returns every Variable currently owned by the graph.
func (ig *IndexedGraph) Variables() map[int]*Variable {
	return ig.variables
}

// RegisterGate adopts a Gate built outside of AddGate so that the graph
// owns and indexes it. The rewrite passes in pkg/preprocess do not call it;
// they build their intermediate gates through NewIntermediateGate.
func (ig *IndexedGraph) RegisterGate(g *Gate) {
	if g.Index == 0 {
		g.Index = ig.allocIndex()
	} else if g.Index > ig.nextIndex {
		ig.nextIndex = g.Index
	}
	ig.gates[g.Index] = g
}

// NewIntermediateGate allocates a fresh gate of type t that is not yet
// attached to any parent, for use by rewrite passes that introduce new
// gates (XOR expansion, ATLEAST decomposition, complement propagation,
// module/Boolean-optimization wrapping).
func (ig *IndexedGraph) NewIntermediateGate(t Type) *Gate {
	g := newGate(ig.allocIndex(), t)
	ig.gates[g.Index] = g
	return g
}

// Detach removes g from the graph entirely: every remaining argument of g
// has its back-link to g dropped, and g is removed from the gate table. The
// caller is responsible for having already redirected g's parents
// elsewhere (Detach does not touch g.Parents).
func (ig *IndexedGraph) Detach(g *Gate) {
	for key := range g.GateArgs {
		g.removeArgRaw(key)
	}
	for key := range g.VarArgs {
		g.removeArgRaw(key)
	}
	for key := range g.ConstArgs {
		g.removeArgRaw(key)
	}
	delete(ig.gates, g.Index)
}

// DetachConstant drops a constant leaf from the graph once every reference
// to it has been erased by constant propagation.
func (ig *IndexedGraph) DetachConstant(c *Constant) {
	delete(ig.constants, c.Index)
	ig.Constants = len(ig.constants) > 0
}

// ClearScratch resets the per-traversal Scratch fields of every Node
// reachable from Root. Passes that rely on enter/exit timestamps or
// opti_value must call this (or the narrower clears in pkg/preprocess)
// before they run: scratch fields must be cleared by the producer before
// any pass that relies on them.
func (ig *IndexedGraph) ClearScratch() {
	Walk(ig.Root, func(n *Gate) bool {
		n.Scratch.Reset()
		for _, v := range n.VarArgs {
			v.Scratch.Reset()
		}
		for _, c := range n.ConstArgs {
			c.Scratch.Reset()
		}
		return true
	})
}

// Walk performs a pre-order DFS over Gates reachable from root, calling
// visit once per distinct gate (never revisiting one already seen on this
// walk). visit returns false to stop descending into that gate's children
// (used by passes that only need to touch the gate itself, not recurse
// below it).
func Walk(root *Gate, visit func(*Gate) bool) {
	if root == nil {
		return
	}
	seen := make(map[int]bool)
	var rec func(g *Gate)
	rec = func(g *Gate) {
		if seen[g.Index] {
			return
		}
		seen[g.Index] = true
		descend := visit(g)
		if !descend {
			return
		}
		for _, c := range g.GateArgs {
			rec(c)
		}
	}
	rec(root)
}
