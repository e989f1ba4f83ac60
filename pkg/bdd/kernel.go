// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/dalzilio/scram-go/pkg/ddkit"
)

// number of bytes in a int (kept only as a comment-level reminder of the
// original hashing scheme; node identity is now interned through
// ddkit.UniqueTable instead of a byte-buffer hash, see makenode).

// _MINFREENODES is the minimal number of nodes (%) that has to be left after
// a garbage collect unless a resize should be done.
const _MINFREENODES int = 20

// _MAXVAR is the maximal number of levels in the BDD. We use only the first
// 21 bits for encoding levels (so also the max number of variables); marking
// lives in a separate field (node.marked) instead of borrowing high bits.
const _MAXVAR int32 = 0x1FFFFF

// _MAXREFCOUNT is the maximal value of the reference counter (refcou), also
// used to stick nodes (like constants and variables) in the node list.
const _MAXREFCOUNT int32 = 0x3FF

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes.
const _DEFAULTMAXNODEINC int = 1 << 20

var errResize = errors.New("should cache resize") // when gbc and then noderesize

// node is one vertex of the node table: a decision on variable level between
// a low (false) and a high (true) successor. Constants are kept at index 0
// (False) and 1 (True), both at the sentinel level equal to varnum.
type node struct {
	level  int32
	low    int
	high   int
	refcou int32
	marked bool
}

// bdd is the concrete engine behind the BDD interface: a hashmap-based node
// table, generalized through pkg/ddkit.UniqueTable for node interning and
// pkg/ddkit.CacheTable for operation memoization.
type bdd struct {
	varnum   int32
	varset   [][2]int // [i] = {positive node, negative node} for variable i
	refstack []int
	error

	nodes         []node
	unique        *ddkit.UniqueTable
	freenum       int
	freepos       int
	produced      int
	nodefinalizer func(*int)

	maxnodesize     int
	maxnodeincrease int
	minfreenodes    int

	applyCache *ddkit.CacheTable
	applyOp    int

	gcHistory        []gcpoint
	setFinalizers    uint64
	calledFinalizers uint64
}

type gcpoint struct {
	nodes            int
	freenodes        int
	setFinalizers    int
	calledFinalizers int
}

// inode wraps a known node id (a constant or a variable) as a Node without
// going through the reference-counting machinery in retnode.
func inode(n int) Node {
	x := n
	return &x
}

var bddone Node = inode(1)
var bddzero Node = inode(0)

// New allocates a BDD over varnum variables (levels [0..varnum)). Options
// configure the initial node/cache table sizes and resize behavior; see
// Nodesize, Cachesize, Cacheratio, Maxnodesize, Maxnodeincrease and
// Minfreenodes.
func New(varnum int, opts ...func(*configs)) (Set, error) {
	c := makeconfigs(varnum)
	for _, o := range opts {
		o(c)
	}
	if varnum < 1 || int32(varnum) > _MAXVAR {
		return Set{}, fmt.Errorf("bad number of variables (%d)", varnum)
	}
	b := &bdd{}
	b.minfreenodes = c.minfreenodes
	b.maxnodeincrease = c.maxnodeincrease
	b.maxnodesize = c.maxnodesize

	nodesize := c.nodesize
	if nodesize < 2*varnum+2 {
		nodesize = 2*varnum + 2
	}
	b.nodes = make([]node, nodesize)
	b.unique = ddkit.NewUniqueTable(nodesize)
	for k := range b.nodes {
		b.nodes[k].low = -1
		b.nodes[k].high = k + 1
	}
	b.nodes[nodesize-1].high = 0
	b.nodes[0] = node{level: int32(varnum), refcou: _MAXREFCOUNT}
	b.nodes[1] = node{level: int32(varnum), low: 1, high: 1, refcou: _MAXREFCOUNT}
	b.freepos = 2
	b.freenum = len(b.nodes) - 2

	b.nodefinalizer = func(n *int) {
		atomic.AddUint64(&b.calledFinalizers, 1)
		b.nodes[*n].refcou--
	}

	cachesize := c.cachesize
	if cachesize <= 0 {
		cachesize = len(b.nodes)/5 + 1
	}
	b.applyCache = ddkit.NewCacheTable(cachesize)
	if c.cacheratio > 0 {
		b.applyCache.SetRatio(c.cacheratio)
	}

	if err := b.SetVarnum(varnum); err != nil {
		return Set{}, err
	}
	log.WithField("varnum", varnum).Debug("bdd allocated")
	return Set{b}, nil
}

// SetVarnum sets the number of BDD variables, allocating the Ithvar/NIthvar
// node for each new one. It may be called more than once, but only to
// increase the number of variables.
func (b *bdd) SetVarnum(num int) error {
	inum := int32(num)
	if inum < 1 || inum > _MAXVAR {
		b.seterror("bad number of variables (%d) in SetVarnum", inum)
		return b.error
	}
	if inum < b.varnum {
		b.seterror("cannot decrease varnum from %d to %d", b.varnum, inum)
		return b.error
	}
	start := b.varnum
	b.varnum = inum
	b.nodes[0].level = inum
	b.nodes[1].level = inum
	newvarset := make([][2]int, inum)
	copy(newvarset, b.varset)
	b.varset = newvarset
	if cap(b.refstack) == 0 {
		b.refstack = make([]int, 0, 2*inum+4)
	}
	b.initref()
	for k := start; k < inum; k++ {
		v0 := b.makenode(k, 0, 1)
		if v0 < 0 {
			return fmt.Errorf("cannot allocate new variable %d in SetVarnum", k)
		}
		b.pushref(v0)
		v1 := b.makenode(k, 1, 0)
		if v1 < 0 {
			return fmt.Errorf("cannot allocate new variable %d in SetVarnum", k)
		}
		b.popref(1)
		b.varset[k] = [2]int{v0, v1}
		b.nodes[v0].refcou = _MAXREFCOUNT
		b.nodes[v1].refcou = _MAXREFCOUNT
	}
	return nil
}

// Varnum returns the number of declared variables.
func (b *bdd) Varnum() int { return int(b.varnum) }

// True returns the constant true node.
func (b *bdd) True() Node { return bddone }

// False returns the constant false node.
func (b *bdd) False() Node { return bddzero }

// From returns a constant node from a boolean value.
func (b *bdd) From(v bool) Node {
	if v {
		return bddone
	}
	return bddzero
}

// Ithvar returns the node representing the i'th variable in its positive
// form.
func (b *bdd) Ithvar(i int) Node {
	if i < 0 || int32(i) >= b.varnum {
		return b.seterror("unknown variable %d in call to Ithvar", i)
	}
	return inode(b.varset[i][0])
}

// NIthvar returns the node representing the negation of the i'th variable.
func (b *bdd) NIthvar(i int) Node {
	if i < 0 || int32(i) >= b.varnum {
		return b.seterror("unknown variable %d in call to NIthvar", i)
	}
	return inode(b.varset[i][1])
}

// Low returns the false branch of n.
func (b *bdd) Low(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror("illegal access to node %d in call to Low", *n)
	}
	return b.retnode(b.nodes[*n].low)
}

// High returns the true branch of n.
func (b *bdd) High(n Node) Node {
	if b.checkptr(n) != nil {
		return b.seterror("illegal access to node %d in call to High", *n)
	}
	return b.retnode(b.nodes[*n].high)
}

// Var returns the variable index n branches on. It is meaningless on a
// terminal.
func (b *bdd) Var(n Node) int {
	if b.checkptr(n) != nil {
		return -1
	}
	return int(b.nodes[*n].level)
}

func (b *bdd) level(n int) int32 { return b.nodes[n].level }
func (b *bdd) low(n int) int     { return b.nodes[n].low }
func (b *bdd) high(n int) int    { return b.nodes[n].high }

// checkptr reports whether n is a currently valid node reference: non-nil,
// in range, and (for a non-constant) actually allocated.
func (b *bdd) checkptr(n Node) error {
	if n == nil {
		return fmt.Errorf("nil node")
	}
	if *n < 0 || *n >= len(b.nodes) {
		return fmt.Errorf("node %d out of range", *n)
	}
	if *n >= 2 && b.nodes[*n].low == -1 {
		return fmt.Errorf("node %d is not allocated", *n)
	}
	return nil
}

// retnode wraps n as an externally held Node, installing a GC finalizer that
// decrements its reference count once Go reclaims the wrapper. Reference
// counting only tracks nodes held outside the engine; internal recursion
// uses the refstack instead (see pushref/popref).
func (b *bdd) retnode(n int) Node {
	if n < 0 || n > len(b.nodes) {
		return nil
	}
	if n == 0 {
		return bddzero
	}
	if n == 1 {
		return bddone
	}
	x := n
	if b.nodes[n].refcou < _MAXREFCOUNT {
		b.nodes[n].refcou++
		runtime.SetFinalizer(&x, b.nodefinalizer)
		atomic.AddUint64(&b.setFinalizers, 1)
	}
	return &x
}

// AddRef increases the reference count on n and returns n so calls can be
// chained. It is a no-op on a constant or an unallocated node.
func (b *bdd) AddRef(n Node) Node {
	if *n < 2 || *n >= len(b.nodes) || b.nodes[*n].low == -1 {
		return n
	}
	if b.nodes[*n].refcou < _MAXREFCOUNT {
		b.nodes[*n].refcou++
	}
	return n
}

// DelRef decreases the reference count on n and returns n so calls can be
// chained.
func (b *bdd) DelRef(n Node) Node {
	if *n >= len(b.nodes) || b.nodes[*n].low == -1 || b.nodes[*n].refcou <= 0 {
		return n
	}
	if b.nodes[*n].refcou < _MAXREFCOUNT {
		b.nodes[*n].refcou--
	}
	return n
}

// makenode returns the node for (level, low, high), reusing an existing one
// from the unique table when possible and allocating a fresh one otherwise.
// It runs garbage collection, then resizes the node table, if no free slot
// remains; it returns -1 and sets the error flag if neither frees enough
// room.
func (b *bdd) makenode(level int32, low, high int) int {
	if low == high {
		return low
	}
	key := ddkit.Key{Index: int(level), Low: low, High: high}
	if id, ok := b.unique.Lookup(key); ok {
		return id
	}
	if b.freepos == 0 {
		b.gbc()
		if (b.freenum*100)/len(b.nodes) <= b.minfreenodes {
			if err := b.noderesize(); err != nil {
				b.seterror("%s", err)
				return -1
			}
		}
		if b.freepos == 0 {
			b.seterror("unable to free or grow the node table")
			return -1
		}
	}
	res := b.freepos
	b.freepos = b.nodes[res].high
	b.freenum--
	b.produced++
	b.nodes[res] = node{level: level, low: low, high: high}
	b.unique.Insert(key, res)
	return res
}

func (b *bdd) delnode(n int) {
	k := b.nodes[n]
	b.unique.Delete(ddkit.Key{Index: int(k.level), Low: k.low, High: k.high})
}

// gbc reclaims every node with neither an external reference (refcou > 0)
// nor a pending internal one (present on the refstack), then resets every
// operation cache since cached results may reference reclaimed ids.
func (b *bdd) gbc() {
	b.gcHistory = append(b.gcHistory, gcpoint{
		nodes:            len(b.nodes),
		freenodes:        b.freenum,
		setFinalizers:    int(b.setFinalizers),
		calledFinalizers: int(b.calledFinalizers),
	})
	b.setFinalizers = 0
	b.calledFinalizers = 0

	for _, r := range b.refstack {
		b.markrec(r)
	}
	for k := range b.nodes {
		if b.nodes[k].refcou > 0 {
			b.markrec(k)
		}
	}
	b.freepos = 0
	b.freenum = 0
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.nodes[n].marked && b.nodes[n].low != -1 {
			b.nodes[n].marked = false
			continue
		}
		if b.nodes[n].low != -1 {
			b.delnode(n)
		}
		b.nodes[n].low = -1
		b.nodes[n].high = b.freepos
		b.freepos = n
		b.freenum++
	}
	b.applyCache.Reset()
	log.WithField("free", b.freenum).Debug("garbage collection finished")
}

func (b *bdd) noderesize() error {
	oldsize := len(b.nodes)
	if b.maxnodesize > 0 && oldsize >= b.maxnodesize {
		return errResize
	}
	nodesize := oldsize * 2
	if b.maxnodeincrease > 0 && nodesize > oldsize+b.maxnodeincrease {
		nodesize = oldsize + b.maxnodeincrease
	}
	if b.maxnodesize > 0 && nodesize > b.maxnodesize {
		nodesize = b.maxnodesize
	}
	if nodesize <= oldsize {
		return errResize
	}

	tmp := b.nodes
	b.nodes = make([]node, nodesize)
	copy(b.nodes, tmp)
	for n := oldsize; n < nodesize; n++ {
		b.nodes[n].low = -1
		b.nodes[n].high = n + 1
	}
	b.nodes[nodesize-1].high = b.freepos
	b.freepos = oldsize
	b.freenum += nodesize - oldsize
	b.applyCache.Resize(nodesize)
	log.WithField("size", nodesize).Debug("node table resized")
	return nil
}

func (b *bdd) markrec(n int) {
	if n < 2 || b.nodes[n].marked || b.nodes[n].low == -1 {
		return
	}
	b.nodes[n].marked = true
	b.markrec(b.nodes[n].low)
	b.markrec(b.nodes[n].high)
}

func (b *bdd) initref()         { b.refstack = b.refstack[:0] }
func (b *bdd) pushref(n int) int {
	b.refstack = append(b.refstack, n)
	return n
}
func (b *bdd) popref(a int) { b.refstack = b.refstack[:len(b.refstack)-a] }

// Stats returns a human-readable summary of node table occupancy and
// garbage-collection activity.
func (b *bdd) Stats() string {
	res := fmt.Sprintf("Varnum:     %d\n", b.varnum)
	res += fmt.Sprintf("Allocated:  %d\n", len(b.nodes))
	res += fmt.Sprintf("Produced:   %d\n", b.produced)
	r := (float64(b.freenum) / float64(len(b.nodes))) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", b.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", len(b.nodes)-b.freenum, 100.0-r)
	res += fmt.Sprintf("# of GC:    %d\n", len(b.gcHistory))
	allocated := int(b.setFinalizers)
	reclaimed := int(b.calledFinalizers)
	for _, g := range b.gcHistory {
		allocated += g.setFinalizers
		reclaimed += g.calledFinalizers
	}
	res += fmt.Sprintf("Ext. refs:  %d\n", allocated)
	res += fmt.Sprintf("Reclaimed:  %d\n", reclaimed)
	return res
}
