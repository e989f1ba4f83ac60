// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package zbdd computes and enumerates minimal cut sets of a preprocessed
// Boolean graph using a Zero-Suppressed Binary Decision Diagram.
//
// A Zbdd owns a single node table shared by every set it builds, including
// the sets built for independent modules: non-terminals are interned
// through a pkg/ddkit.UniqueTable keyed on (index, low, high), and the
// Apply/Subsume/Minimize operations are memoized through
// pkg/ddkit.CacheTable, the same building blocks package bdd uses for its
// own node and operation tables. Node 0 is the Empty terminal (the empty
// family of sets, ∅); node 1 is the Base terminal (the family containing
// only the empty set, {∅}).
//
// Two construction paths populate the table: ConvertGraph walks a
// coherent Boolean graph directly, folding each gate's arguments through
// Apply; ConvertBdd instead walks a reduced ordered BDD (package bdd),
// which is how a non-coherent graph's complement edges get resolved
// before this package ever sees them. Independent modules are converted
// lazily: a module gate appears in its parent's ZBDD as a single proxy
// node, and its own diagram is only built the first time cut-set
// enumeration reaches that proxy.
package zbdd
