// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Set encapsulates the access to a BDD implementation and provides additionnal
// functions to ease the display and computation of arbitrary Boolean
// expressions.
type Set struct {
	// we embedd the BDD interface in order to implement methods with a Set
	// receiver
	BDD
}

// BDD is an interface implementing the basic operations over Binary Decision
// Diagrams. It is deliberately narrow: package zbdd's ConvertBdd is the
// only collaborator that walks a BDD node by node, and it only ever reads
// a node's shape (Var/Low/High) and tests against the two terminals
// (True/False/Equal), so that is all this interface promises beyond
// construction (Ithvar/NIthvar/Not/Apply).
type BDD interface {
	// Error returns the error status of the BDD. We return an empty string if
	// there are no errors.
	Error() string

	// SetVarnum sets the number of BDD variables. It may be called more than
	// once, but only to increase the number of variables.
	SetVarnum(num int) error

	// Varnum returns the number of defined variables.
	Varnum() int

	// True returns the Node for the constant true.
	True() Node

	// False returns the Node for the constant false.
	False() Node

	// From returns a (constant) Node from a boolean value.
	From(v bool) Node

	// Ithvar returns a BDD representing the i'th variable on success. The
	// requested variable must be in the range [0..Varnum).
	Ithvar(i int) Node

	// NIthvar returns a bdd representing the negation of the i'th variable on
	// success. See *ithvar* for further info.
	NIthvar(i int) Node

	// Low returns the false branch of a BDD or nil if there is an error.
	Low(n Node) Node

	// High returns the true branch of a BDD.
	High(n Node) Node

	// Var returns the variable index a non-terminal node branches on. It
	// is meaningless on True()/False() and exists for collaborators (such
	// as package zbdd's ConvertBdd) that walk the diagram node by node
	// instead of through Apply.
	Var(n Node) int

	// Not returns the negation (!n) of expression n.
	Not(n Node) Node

	// Apply performs a basic binary operation on BDD nodes, conjunction or
	// disjunction.
	Apply(left Node, right Node, op Operator) Node

	// AddRef increases the reference count on node n and returns n so that
	// calls can be easily chained together.
	AddRef(n Node) Node

	// DelRef decreases the reference count on a node and returns n so that
	// calls can be easily chained together.
	DelRef(n Node) Node

	// Stats returns information about the BDD
	Stats() string
}

// ************************************************************

// Node is a reference to an element of a BDD. It represents the atomic unit of
// interactions and computations within a BDD.
type Node *int

// ************************************************************

// And returns the logical 'and' of a sequence of nodes.
func (b Set) And(n ...Node) Node {
	if len(n) == 1 {
		return n[0]
	}
	if len(n) == 0 {
		return bddone
	}
	return b.Apply(n[0], b.And(n[1:]...), OPand)
}

// Or returns the logical 'or' of a sequence of BDDs.
func (b Set) Or(n ...Node) Node {
	if len(n) == 1 {
		return n[0]
	}
	if len(n) == 0 {
		return bddzero
	}
	return b.Apply(n[0], b.Or(n[1:]...), OPor)
}

// Equal tests equivalence between nodes.
func (b Set) Equal(low, high Node) bool {
	if low == high {
		return true
	}
	if low == nil || high == nil {
		return false
	}
	return *low == *high
}

// True returns the constant true BDD.
func (b Set) True() Node {
	return bddone
}

// False returns the constant false BDD.
func (b Set) False() Node {
	return bddzero
}

// From returns a (constant) Node from a boolean value.
func (b Set) From(v bool) Node {
	if v {
		return bddone
	}
	return bddzero
}

// *************************************************************************
