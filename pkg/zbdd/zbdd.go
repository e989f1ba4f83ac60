// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package zbdd

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/dalzilio/scram-go/pkg/ddkit"
	"github.com/dalzilio/scram-go/pkg/graph"
	"github.com/dalzilio/scram-go/pkg/settings"
)

// Zbdd owns the shared node table and the operation caches for one
// analysis run: the top graph's diagram and every module's diagram are
// built into the same table, so a proxy node and the module it stands for
// can share structure with the rest of the graph.
type Zbdd struct {
	settings settings.Settings

	nodes  []setnode
	unique *ddkit.UniqueTable

	applyCache      *ddkit.CacheTable
	unionCache      *ddkit.CacheTable
	minimizeCache   *ddkit.CacheTable
	subsumeCache    *ddkit.CacheTable
	convertBddCache *ddkit.CacheTable

	cutSetCache map[Node][][]int

	gateNodes   map[int]Node        // gate index -> already-converted node
	moduleGates map[int]*graph.Gate // module id -> its gate, for lazy build
	moduleRoots map[int]Node        // module id -> minimized root, once built

	complementBase   int         // synthetic indices for complemented variables start here
	complementOrigin map[int]int // synthetic index -> original variable index

	produced int
}

// New allocates a Zbdd over g, sized for roughly nodeHint non-terminals.
// complementBase must exceed every index g currently owns; it is the base
// of the synthetic index range used to materialize complemented variable
// arguments (see convertVariable).
func New(s settings.Settings, complementBase, nodeHint int) *Zbdd {
	if nodeHint < 8 {
		nodeHint = 8
	}
	z := &Zbdd{
		settings:         s,
		unique:           ddkit.NewUniqueTable(nodeHint),
		applyCache:       ddkit.NewCacheTable(nodeHint),
		unionCache:       ddkit.NewCacheTable(nodeHint / 4),
		minimizeCache:    ddkit.NewCacheTable(nodeHint / 4),
		subsumeCache:     ddkit.NewCacheTable(nodeHint / 4),
		convertBddCache:  ddkit.NewCacheTable(nodeHint / 4),
		cutSetCache:      make(map[Node][][]int),
		gateNodes:        make(map[int]Node),
		moduleGates:      make(map[int]*graph.Gate),
		moduleRoots:      make(map[int]Node),
		complementBase:   complementBase,
		complementOrigin: make(map[int]int),
	}
	// nodes[0] and nodes[1] are never consulted (Empty/Base are terminals
	// handled directly by every operation), but keeping them reserves ids
	// 0 and 1 so real non-terminals start at 2, matching package bdd's
	// node table convention.
	z.nodes = make([]setnode, 2, nodeHint)
	log.WithField("hint", nodeHint).Debug("zbdd allocated")
	return z
}

// node returns the setnode backing id n. It must not be called with a
// terminal (Empty or Base).
func (z *Zbdd) node(n Node) setnode {
	return z.nodes[n]
}

// index returns the order key of n: a terminal's is unused by callers
// (they special-case terminals before consulting it).
func (z *Zbdd) index(n Node) int {
	return z.nodes[n].index
}

// minOrder returns the length of the shortest path from n to Base: 0 for
// Base, infiniteOrder for Empty, and the precomputed field otherwise.
func (z *Zbdd) minOrder(n Node) int {
	switch n {
	case Base:
		return 0
	case Empty:
		return infiniteOrder
	default:
		return z.nodes[n].minOrder
	}
}

// makenode interns (index, low, high), zero-suppressing a high branch of
// Empty and truncating a high branch whose shortest path to Base would
// exceed the limit-order budget. This is the single choke point every
// construction path (Apply, ConvertBdd, Minimize) routes through, so the
// budget is enforced uniformly.
func (z *Zbdd) makenode(index int, low, high Node) Node {
	if z.minOrder(high)+1 > z.settings.LimitOrder {
		high = Empty
	}
	if high == Empty {
		return low
	}
	key := ddkit.Key{Index: index, Low: int(low), High: int(high)}
	if id, ok := z.unique.Lookup(key); ok {
		return Node(id)
	}
	id := Node(len(z.nodes))
	z.nodes = append(z.nodes, setnode{
		index:    index,
		low:      low,
		high:     high,
		minOrder: min(z.minOrder(low), z.minOrder(high)+1),
	})
	z.unique.Insert(key, int(id))
	z.produced++
	return id
}

// Stats returns a human-readable summary of node table occupancy.
func (z *Zbdd) Stats() string {
	return fmt.Sprintf("Allocated:  %d\nProduced:   %d\nModules:    %d\n",
		len(z.nodes), z.produced, len(z.moduleGates))
}
