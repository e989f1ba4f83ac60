// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package bdd defines a concrete type for (Reduced Ordered) Binary Decision
Diagrams, used by package zbdd as the collaborator behind the BDD-sourced
cut-set construction path (ConvertBdd/AnalyzeBDD). Module proxies are ZBDD
nodes and do not involve this package.

Basics

Each BDD has a fixed number of variables, Varnum, declared when it is
initialized (using the method New) and each variable is represented by an
(integer) index in the interval [0..Varnum), called a level.

Most operations over BDD return a Node; that is a pointer to a "vertex" in the
BDD that includes a variable level, and the address of the low and high branch
for this node. We use integer to represent the address of Nodes, with the
convention that 1 (respectively 0) is the address of the constant function
True (respectively False). Only this node shape and edge convention are
contractual for package zbdd's ConvertBdd, which walks a diagram built
through Ithvar/Not/Apply node by node instead of through a generic
operation family: unlike the library this package is adapted from, there is
no quantification, variable-replacement, satisfaction-counting, or
DOT/automaton export here, since no construction path in this module
reaches any of that.

Data structures and algorithms implemented in this package are a direct
adaptation of those found in the C library BuDDy, developed by Jorn
Lind-Nielsen, restricted to the Not/Apply(AND/OR) subset package zbdd
actually exercises. Node interning and operation-cache lookups go through a
shared hashmap-based implementation (package ddkit) rather than a
hand-rolled array/bucket scheme, which keeps the package architecture
independent and free of unsafe pointer arithmetic.

Automatic memory management

The library is written in pure Go, without the need for CGo or any other
dependencies. We piggyback on the garbage collection mechanism offered by
our host language: BDD resizing and memory management is handled directly
in the library, but "external" references to BDD nodes made by user code
are automatically managed by the Go runtime through finalizers attached to
each Node.
*/
package bdd
