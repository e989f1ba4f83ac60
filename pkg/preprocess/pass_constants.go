// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package preprocess

import "github.com/dalzilio/scram-go/pkg/graph"

// constantEffect is the outcome the constant-rewrite table prescribes for
// a Gate whose argument has taken on a known Boolean value.
type constantEffect int

const (
	effectErase constantEffect = iota
	effectNull
	effectUnity
)

// basicEffect implements §4.1.1's table for the non-XOR, non-ATLEAST
// operators: AND/NULL erase a true argument and collapse to false on a
// false one, NAND erases a true argument and collapses to true on a false
// one; OR erases a false argument and collapses to true on a true one, NOR
// erases a false argument and collapses to false on a true one.  NOT
// collapses directly since it only ever has one argument.
func basicEffect(t graph.Type, state bool) constantEffect {
	switch t {
	case graph.AND, graph.NULL:
		if state {
			return effectErase
		}
		return effectNull
	case graph.OR:
		if state {
			return effectUnity
		}
		return effectErase
	case graph.NAND:
		if state {
			return effectErase
		}
		return effectUnity
	case graph.NOR:
		if state {
			return effectNull
		}
		return effectErase
	case graph.NOT:
		if state {
			return effectNull
		}
		return effectUnity
	}
	return effectErase
}

// processConstantArg applies the rewrite table to gate for the argument at
// signedIndex, which is known to carry the Boolean value state. It reports
// whether gate itself collapsed to a constant state as a result.
func (p *Preprocessor) processConstantArg(gate *graph.Gate, signedIndex int, state bool) bool {
	switch gate.Type {
	case graph.XOR:
		return p.processXorConstantArg(gate, signedIndex, state)
	case graph.ATLEAST:
		return p.processAtleastConstantArg(gate, signedIndex, state)
	}
	switch basicEffect(gate.Type, state) {
	case effectNull:
		p.makeConstant(gate, false)
		return true
	case effectUnity:
		p.makeConstant(gate, true)
		return true
	default:
		gate.RemoveArg(signedIndex)
		return p.collapseIfDegenerate(gate)
	}
}

// processXorConstantArg handles the two-argument XOR special case: a false
// argument erases to a pass-through (NULL) of the remaining one; a true
// argument turns the gate into the complement (NOT) of the remaining one.
func (p *Preprocessor) processXorConstantArg(gate *graph.Gate, signedIndex int, state bool) bool {
	gate.RemoveArg(signedIndex)
	if state {
		gate.Type = graph.NOT
	} else {
		gate.Type = graph.NULL
		p.nullGates = append(p.nullGates, gate)
	}
	return false
}

// processAtleastConstantArg handles a k-of-n vote gate whose argument has
// resolved to a constant: a true argument lowers the vote number by one
// (degenerating to OR once the vote reaches one); a false argument leaves
// the vote unchanged but can degenerate the gate to AND once the remaining
// argument count equals it.
func (p *Preprocessor) processAtleastConstantArg(gate *graph.Gate, signedIndex int, state bool) bool {
	gate.RemoveArg(signedIndex)
	if state {
		gate.VoteNumber--
		if gate.VoteNumber == 1 {
			gate.Type = graph.OR
		}
	} else if gate.NumArgs() == gate.VoteNumber {
		gate.Type = graph.AND
	}
	return p.collapseIfDegenerate(gate)
}

// collapseIfDegenerate applies §4.1.1's closing paragraph: once erasure
// leaves a gate with zero or one arguments, the gate itself collapses to a
// constant or to a pass-through, respectively.
func (p *Preprocessor) collapseIfDegenerate(gate *graph.Gate) bool {
	switch gate.NumArgs() {
	case 0:
		switch gate.Type {
		case graph.AND, graph.NOR:
			p.makeConstant(gate, true)
		default: // OR, NAND, XOR, degenerate ATLEAST
			p.makeConstant(gate, false)
		}
		return true
	case 1:
		switch gate.Type {
		case graph.AND, graph.OR, graph.XOR:
			gate.Type = graph.NULL
			p.nullGates = append(p.nullGates, gate)
		case graph.NAND, graph.NOR:
			gate.Type = graph.NOT
		}
		return false
	default:
		return false
	}
}

// makeConstant collapses gate to a constant state, dropping every
// remaining argument (a constant-state gate carries no arguments) and
// registering it on the worklist that clearConstGates drains.
func (p *Preprocessor) makeConstant(gate *graph.Gate, value bool) {
	p.detachAllArgs(gate)
	if value {
		gate.State = graph.GateUnity
	} else {
		gate.State = graph.GateNull
	}
	p.constGates = append(p.constGates, gate)
}

func (p *Preprocessor) detachAllArgs(gate *graph.Gate) {
	for _, k := range gate.ArgIndices() {
		gate.RemoveArg(k)
	}
}

// propagateConstants is pass 1's entry point: a post-order walk from root
// that applies processConstantArg wherever a Constant leaf or an
// already-collapsed Gate argument is found, then drains the worklists the
// walk deferred (constGates, nullGates) to push the effect on to every
// other parent a multiply-referenced gate may have.
func (p *Preprocessor) propagateConstants(root *graph.Gate) {
	p.constGates = p.constGates[:0]
	p.nullGates = p.nullGates[:0]
	p.clearMarks()
	p.walkPropagateConstants(root)
	p.clearConstGates()
	p.clearNullGates()
}

func (p *Preprocessor) walkPropagateConstants(gate *graph.Gate) bool {
	if gate.Mark {
		return false
	}
	gate.Mark = true
	if gate.State != graph.Normal {
		return false
	}
	changed := false
	for key, c := range gate.ConstArgs {
		state := c.Value
		if key < 0 {
			state = !state
		}
		if p.processConstantArg(gate, key, state) {
			return true
		}
		changed = true
	}
	for key, child := range gate.GateArgs {
		if p.walkPropagateConstants(child) {
			changed = true
		}
		if child.State == graph.Normal {
			continue
		}
		state := child.State == graph.GateUnity
		if key < 0 {
			state = !state
		}
		if p.processConstantArg(gate, key, state) {
			return true
		}
		changed = true
	}
	return changed
}

// clearConstGates drains the constant-gate worklist, pushing each gate's
// collapsed state up to every remaining parent (propagateConstGate), for
// gates whose fan-out reaches parents the initial DFS had already finished
// visiting by the time they collapsed.
func (p *Preprocessor) clearConstGates() {
	worklist := p.constGates
	p.constGates = nil
	for _, g := range worklist {
		if _, stillOwned := p.graph.Gates()[g.Index]; !stillOwned {
			continue
		}
		p.propagateConstGate(g)
	}
}

// clearNullGates drains the NULL-gate worklist built up by
// collapseIfDegenerate and the XOR/constant rewrites, splicing each one's
// sole remaining argument into every parent.
func (p *Preprocessor) clearNullGates() {
	worklist := p.nullGates
	p.nullGates = nil
	for _, g := range worklist {
		if _, stillOwned := p.graph.Gates()[g.Index]; !stillOwned {
			continue
		}
		p.propagateNullGate(g)
	}
}

// propagateConstGate pushes gate's already-collapsed state up to every
// parent in turn, removing the edge to gate as it goes, until gate has no
// parents left. A parent that itself collapses, or degenerates to NULL, is
// cascaded further immediately.
func (p *Preprocessor) propagateConstGate(gate *graph.Gate) {
	for len(gate.Parents) > 0 {
		var parent *graph.Gate
		for _, pp := range gate.Parents {
			parent = pp
			break
		}
		sign, _ := parent.HasAbs(gate.Index)
		state := gate.State == graph.GateUnity
		if sign < 0 {
			state = !state
		}
		p.processConstantArg(parent, sign*gate.Index, state)
		if parent.State != graph.Normal {
			p.propagateConstGate(parent)
		} else if parent.Type == graph.NULL {
			p.propagateNullGate(parent)
		}
	}
}

// propagateNullGate splices gate's sole remaining argument into each of
// gate's parents in turn, multiplying signs as it goes, until gate has no
// parents left, then detaches gate from the graph.
func (p *Preprocessor) propagateNullGate(gate *graph.Gate) {
	for len(gate.Parents) > 0 {
		var parent *graph.Gate
		for _, pp := range gate.Parents {
			parent = pp
			break
		}
		sign, _ := parent.HasAbs(gate.Index)
		p.joinNullGate(parent, sign, gate)
		if parent.State != graph.Normal {
			p.propagateConstGate(parent)
		} else if parent.Type == graph.NULL {
			p.propagateNullGate(parent)
		}
	}
	if gate == p.graph.Root {
		// The root has no parents to splice into by construction; passes 4
		// and 5 deal with a NULL-typed or constant-state root directly, so
		// it must survive as the graph's root object rather than being
		// detached here.
		return
	}
	p.graph.Detach(gate)
}

// joinNullGate replaces parent's edge to nullGate (held with the given
// sign) with a direct edge to nullGate's own sole argument, with the sign
// multiplied through.
func (p *Preprocessor) joinNullGate(parent *graph.Gate, sign int, nullGate *graph.Gate) {
	parent.RemoveArg(sign * nullGate.Index)
	argKeys := nullGate.ArgIndices()
	if len(argKeys) != 1 {
		return
	}
	childKey := argKeys[0]
	childAbs := childKey
	newSign := sign
	if childKey < 0 {
		childAbs = -childKey
		newSign = -newSign
	}
	p.spliceArg(parent, newSign*childAbs)
}

// spliceArg attaches a signed argument to parent, applying the §3
// "no Gate contains both +k and -k" invariant: if parent already holds the
// opposite sign of the same magnitude, parent itself collapses instead
// (false for AND/NULL, true otherwise).
func (p *Preprocessor) spliceArg(parent *graph.Gate, signedIndex int) {
	a := signedIndex
	if a < 0 {
		a = -a
	}
	if sign, ok := parent.HasAbs(a); ok {
		wantSign := 1
		if signedIndex < 0 {
			wantSign = -1
		}
		if sign != wantSign {
			switch parent.Type {
			case graph.AND, graph.NULL:
				p.makeConstant(parent, false)
			default:
				p.makeConstant(parent, true)
			}
		}
		return
	}
	_ = p.graph.AddArg(parent, signedIndex)
}

// removeNullGates is pass 3: gather every remaining NULL gate in Normal
// state and splice it out of the graph. It is also re-run at the start of
// pass 9 since coalescing can reintroduce NULL gates.
func (p *Preprocessor) removeNullGates() {
	root := p.graph.Root
	p.nullGates = p.nullGates[:0]
	for _, g := range p.graph.Gates() {
		if g == root {
			// The root has no parents to splice into; passes 4 and 5
			// handle a NULL-typed root directly.
			continue
		}
		if g.Type == graph.NULL && g.State == graph.Normal {
			p.nullGates = append(p.nullGates, g)
		}
	}
	p.clearNullGates()
}

// collapseConstantRoot is pass 4: if the root itself collapsed to a
// constant state, replace it with a fresh NULL-typed root carrying that
// state (inverted if the accumulated root sign is negative) and stop.
func (p *Preprocessor) collapseConstantRoot() {
	g := p.graph
	orig := g.Root
	state := orig.State
	if p.rootSign < 0 {
		if state == graph.GateNull {
			state = graph.GateUnity
		} else {
			state = graph.GateNull
		}
	}
	newRoot := g.NewIntermediateGate(graph.NULL)
	newRoot.State = state
	g.Root = newRoot
	p.rootSign = 1
}

// unwrapPassThroughRoot is pass 5: if the root degenerated into a NULL
// pass-through over a single Gate argument, replace the root with that
// argument and absorb its sign into rootSign.
func (p *Preprocessor) unwrapPassThroughRoot() {
	g := p.graph
	root := g.Root
	if root.Type != graph.NULL {
		return
	}
	keys := root.ArgIndices()
	if len(keys) != 1 {
		return
	}
	key := keys[0]
	child, ok := root.GateArgs[key]
	if !ok {
		return
	}
	g.Root = child
	if key < 0 {
		p.rootSign = -p.rootSign
	}
}
