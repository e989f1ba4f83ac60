// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package preprocess

import "github.com/dalzilio/scram-go/pkg/graph"

// eliminateMultipleDefinitions is pass 7: two gates of the same type (and,
// for ATLEAST, the same vote number) with identical argument sets compute
// the same Boolean function and are structurally redundant. Every
// duplicate found is spliced out in favor of a single canonical instance
// across all of its parents. It reports whether anything changed so
// ProcessFaultTree can re-run it to a fixpoint: removing one duplicate can
// expose another isomorphism higher up the graph.
func (p *Preprocessor) eliminateMultipleDefinitions() bool {
	p.clearMarks()
	typeGroups := make(map[graph.Type][]*graph.Gate)
	multiDef := make(map[*graph.Gate][]*graph.Gate)
	p.detectMultipleDefinitions(p.graph.Root, typeGroups, multiDef)

	if len(multiDef) == 0 {
		return false
	}

	for orig, dups := range multiDef {
		for _, dup := range dups {
			if _, stillOwned := p.graph.Gates()[dup.Index]; !stillOwned {
				continue
			}
			parents := make([]*graph.Gate, 0, len(dup.Parents))
			for _, parent := range dup.Parents {
				parents = append(parents, parent)
			}
			for _, parent := range parents {
				sign := 1
				if _, ok := parent.GateArgs[-dup.Index]; ok {
					sign = -1
				}
				parent.RemoveArg(sign * dup.Index)
				p.spliceArg(parent, sign*orig.Index)

				if parent.State != graph.Normal {
					p.constGates = append(p.constGates, parent)
				} else if parent.Type == graph.NULL {
					p.nullGates = append(p.nullGates, parent)
				}
			}
		}
	}
	if len(p.constGates) > 0 {
		p.clearConstGates()
	}
	if len(p.nullGates) > 0 {
		p.clearNullGates()
	}
	return true
}

// detectMultipleDefinitions walks the graph bottom-up (a gate is only
// compared against already-fully-processed gates of its own type, so an
// isomorphism between two subtrees is only found once both subtrees are
// themselves free of internal duplicates), grouping every gate by type and
// recording a duplicate the first time its signature matches one already
// in that type's group.
func (p *Preprocessor) detectMultipleDefinitions(gate *graph.Gate, typeGroups map[graph.Type][]*graph.Gate, multiDef map[*graph.Gate][]*graph.Gate) {
	if gate.Mark {
		return
	}
	gate.Mark = true

	sig := argSignature(gate)
	for _, orig := range typeGroups[gate.Type] {
		if gate.Type == graph.ATLEAST && orig.VoteNumber != gate.VoteNumber {
			continue
		}
		if argSignature(orig) == sig {
			multiDef[orig] = append(multiDef[orig], gate)
			return
		}
	}
	for _, child := range gate.GateArgs {
		p.detectMultipleDefinitions(child, typeGroups, multiDef)
	}
	typeGroups[gate.Type] = append(typeGroups[gate.Type], gate)
}

// argSignature renders a gate's argument set as a comparable string. Two
// gates of the same type with identical signatures compute the same
// Boolean function.
func argSignature(gate *graph.Gate) string {
	keys := gate.ArgIndices()
	buf := make([]byte, 0, len(keys)*5)
	for _, k := range keys {
		buf = append(buf, byte(k), byte(k>>8), byte(k>>16), byte(k>>24), ',')
	}
	return string(buf)
}
