// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package preprocess

import "github.com/dalzilio/scram-go/pkg/graph"

// detectModules is pass 10: a two-phase DFS that tags every gate whose
// entire reachable subtree is disjoint from the rest of the graph as a
// module (IsModule), so pkg/zbdd can analyze it independently and cache
// the result instead of re-expanding it once per occurrence.
//
// Phase one (assignTiming) performs a DFS from root and stamps every node
// with an enter and an exit timestamp, as well as the timestamp of its
// last visit (distinct from the exit time for a node revisited through a
// later sibling). Phase two (findModules) then walks the graph bottom-up:
// a gate is a module exactly when every timestamp reachable below it
// (including a shared node's repeat visits) falls strictly between its own
// enter and exit time — i.e. nothing outside the subtree ever touches it,
// and nothing inside the subtree ever escapes it.
func (p *Preprocessor) detectModules() {
	p.graph.ClearScratch()
	time := 0
	p.assignTiming(&time, p.graph.Root)

	p.clearMarks()
	p.findModules(p.graph.Root)
}

func (p *Preprocessor) assignTiming(time *int, gate *graph.Gate) {
	*time++
	if gate.EnterTime != 0 {
		gate.LastVisit = *time
		return // revisited through a later sibling
	}
	gate.EnterTime = *time

	for _, arg := range gate.GateArgs {
		p.assignTiming(time, arg)
	}
	for _, v := range gate.VarArgs {
		*time++
		if v.EnterTime == 0 {
			v.EnterTime = *time
		}
		v.LastVisit = *time
	}

	*time++
	gate.ExitTime = *time
	gate.LastVisit = *time
}

func (p *Preprocessor) findModules(gate *graph.Gate) {
	if gate.Mark {
		return
	}
	gate.Mark = true

	enter, exit := gate.EnterTime, gate.ExitTime
	minTime, maxTime := enter, exit

	for _, arg := range gate.GateArgs {
		p.findModules(arg)
		if arg.IsModule && arg.NumParents() == 1 {
			continue // non-shared module sub-tree: its timings are within ours
		}
		if arg.MinTime < minTime {
			minTime = arg.MinTime
		}
		if arg.MaxTime > maxTime {
			maxTime = arg.MaxTime
		}
	}
	for _, v := range gate.VarArgs {
		min, max := v.EnterTime, v.LastVisit
		if min == max && v.NumParents() == 1 {
			continue // a single-parent leaf is always within our own range
		}
		if min < minTime {
			minTime = min
		}
		if max > maxTime {
			maxTime = max
		}
	}

	if minTime == enter && maxTime == exit {
		gate.IsModule = true
	}
	if gate.LastVisit > maxTime {
		maxTime = gate.LastVisit
	}
	gate.MinTime = minTime
	gate.MaxTime = maxTime
}
