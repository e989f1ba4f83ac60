// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package graph

import "github.com/dalzilio/scram-go/pkg/scramerr"

// Validate checks every structural precondition the preprocessor assumes
// as a caller contract: the graph is acyclic, every non-root Gate's parent
// back-link set equals the set of Gates that actually list it among their
// arguments, no Gate holds both +k and -k for the same k, and every
// ATLEAST gate has a vote number of at least two. It collects every
// violation it finds (via scramerr.Violations) instead of aborting on the
// first, so the external model layer can report all of them at once.
func (ig *IndexedGraph) Validate() error {
	var v scramerr.Violations
	if ig.Root == nil {
		v.Add(scramerr.Contract("graph has no root"))
		return v.Err()
	}
	v.Add(ig.checkAcyclic())
	v.Add(ig.checkBackLinks())
	v.Add(ig.checkNoOppositeSigns())
	v.Add(ig.checkAtleastVotes())
	return v.Err()
}

// checkAcyclic walks from Root with the current-path recursion stack
// tracked explicitly, so a Gate that reappears on its own path (rather than
// merely being shared by two branches) is reported as a cycle.
func (ig *IndexedGraph) checkAcyclic() error {
	const (
		unvisited = 0
		onPath    = 1
		done      = 2
	)
	state := make(map[int]int, len(ig.gates))
	var cyclic *Gate
	var rec func(g *Gate) bool
	rec = func(g *Gate) bool {
		if state[g.Index] == onPath {
			cyclic = g
			return true
		}
		if state[g.Index] == done {
			return false
		}
		state[g.Index] = onPath
		for _, c := range g.GateArgs {
			if rec(c) {
				return true
			}
		}
		state[g.Index] = done
		return false
	}
	if rec(ig.Root) {
		return scramerr.Contract("cycle detected reaching gate %d", cyclic.Index)
	}
	return nil
}

func (ig *IndexedGraph) checkBackLinks() error {
	var v scramerr.Violations
	Walk(ig.Root, func(g *Gate) bool {
		for _, c := range g.GateArgs {
			if _, ok := c.Parents[g.Index]; !ok {
				v.Add(scramerr.Contract("gate %d argument %d missing back-link", g.Index, c.Index))
			}
		}
		for _, parent := range g.Parents {
			_, ok := parent.HasAbs(g.Index)
			if !ok {
				v.Add(scramerr.Contract("gate %d parent %d does not list it as an argument", g.Index, parent.Index))
			}
		}
		return true
	})
	return v.Err()
}

func (ig *IndexedGraph) checkNoOppositeSigns() error {
	var v scramerr.Violations
	Walk(ig.Root, func(g *Gate) bool {
		// Both +k and -k cannot happen by construction (AddArg rejects it),
		// but a rewrite pass bug could reintroduce it, hence this defensive
		// re-check. ArgIndices sorts by absolute value, so +k and -k are
		// adjacent whichever argument map holds them.
		keys := g.ArgIndices()
		for i := 1; i < len(keys); i++ {
			if keys[i] == -keys[i-1] {
				v.Add(scramerr.Invariant("gate %d has both +%d and -%d", g.Index, abs(keys[i]), abs(keys[i])))
			}
		}
		return true
	})
	return v.Err()
}

func (ig *IndexedGraph) checkAtleastVotes() error {
	var v scramerr.Violations
	Walk(ig.Root, func(g *Gate) bool {
		if g.Type == ATLEAST && g.VoteNumber < 2 {
			v.Add(scramerr.Contract("gate %d is ATLEAST with vote number %d < 2", g.Index, g.VoteNumber))
		}
		return true
	})
	return v.Err()
}
