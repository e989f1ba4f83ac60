// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package preprocess

import "github.com/dalzilio/scram-go/pkg/graph"

// coalesce is pass 9: an AND gate that directly contains another AND gate
// as a positive, non-module argument can absorb that child's arguments
// directly (and likewise for OR-in-OR); this flattens chains of the same
// operator that earlier passes (XOR/ATLEAST expansion, complement
// propagation) tend to introduce. It reports whether anything changed, so
// ProcessFaultTree can re-run it — together with draining any constant
// gates it produces — to a fixpoint.
func (p *Preprocessor) coalesce() bool {
	p.clearMarks()
	return p.joinGates(p.graph.Root)
}

func (p *Preprocessor) joinGates(gate *graph.Gate) bool {
	if gate.Mark {
		return false
	}
	gate.Mark = true

	var targetType graph.Type
	possible := false
	switch gate.Type {
	case graph.AND:
		targetType, possible = graph.AND, true
	case graph.OR:
		targetType, possible = graph.OR, true
	}

	var toJoin []*graph.Gate
	changed := false
	for key, arg := range gate.GateArgs {
		if p.joinGates(arg) {
			changed = true
		}
		if !possible {
			continue
		}
		if key < 0 {
			continue
		}
		if arg.IsModule {
			continue
		}
		if arg.Type == targetType {
			toJoin = append(toJoin, arg)
		}
	}

	if !changed && len(toJoin) > 0 {
		changed = true
	}
	for _, child := range toJoin {
		if _, stillOwned := p.graph.Gates()[child.Index]; !stillOwned {
			continue // already absorbed via a different parent edge
		}
		p.joinGate(gate, child)
		if gate.State != graph.Normal {
			p.constGates = append(p.constGates, gate)
			return true // gate is now constant; no point joining further children
		}
	}
	return changed
}

// joinGate absorbs child's arguments directly into parent (they share the
// same operator) and detaches child. Absorbing an argument parent already
// holds with the opposite sign collapses parent to a constant, exactly as
// any other argument insertion does.
func (p *Preprocessor) joinGate(parent *graph.Gate, child *graph.Gate) {
	parent.RemoveArg(child.Index)
	for _, k := range child.ArgIndices() {
		p.spliceArg(parent, k)
		if parent.State != graph.Normal {
			break
		}
	}
	p.graph.Detach(child)
}
