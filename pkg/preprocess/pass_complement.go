// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package preprocess

import "github.com/dalzilio/scram-go/pkg/graph"

// propagateComplements is pass 6: it pushes every complement (negative
// edge) down to the leaves via De Morgan's laws, so the graph ends up with
// only positive AND/OR gates. A complemented AND/OR gate with a single
// parent is flipped and inverted in place; one shared by several parents is
// cloned instead, since the other parents still need the uncomplemented
// version.
func (p *Preprocessor) propagateComplements() {
	root := p.graph.Root
	if p.rootSign < 0 {
		if root.Type == graph.AND || root.Type == graph.OR {
			if root.Type == graph.OR {
				root.Type = graph.AND
			} else {
				root.Type = graph.OR
			}
		}
		invertAllArgs(root)
		p.rootSign = 1
	}

	p.clearMarks()
	complements := make(map[int]*graph.Gate)
	p.walkPropagateComplements(root, complements)
}

func (p *Preprocessor) walkPropagateComplements(gate *graph.Gate, complements map[int]*graph.Gate) {
	if gate.Mark {
		return
	}
	gate.Mark = true

	var toSwap []int
	for key, arg := range gate.GateArgs {
		argGate := arg
		if key < 0 {
			toSwap = append(toSwap, key)
			if comp, ok := complements[arg.Index]; ok {
				argGate = comp
			} else {
				complementType := graph.OR
				if arg.Type == graph.OR {
					complementType = graph.AND
				}
				var complementGate *graph.Gate
				if arg.NumParents() == 1 {
					arg.Type = complementType
					invertAllArgs(arg)
					complementGate = arg
				} else {
					complementGate = p.graph.NewIntermediateGate(complementType)
					for _, k := range arg.ArgIndices() {
						_ = p.graph.AddArg(complementGate, k)
					}
					invertAllArgs(complementGate)
				}
				complements[arg.Index] = complementGate
				argGate = complementGate
			}
		}
		p.walkPropagateComplements(argGate, complements)
	}

	for _, key := range toSwap {
		comp := complements[-key]
		gate.RemoveArg(key)
		_ = p.graph.AddArg(gate, comp.Index)
	}
}

// invertAllArgs flips the sign of every argument of gate in place, the
// structural half of applying De Morgan's law to a gate that is being
// turned from AND to OR (or back).
func invertAllArgs(gate *graph.Gate) {
	for _, k := range gate.ArgIndices() {
		gate.InvertArg(k)
	}
}
