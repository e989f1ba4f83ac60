// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "testing"

// TestAndOr checks the basic shape package zbdd's ConvertBdd relies on:
// And/Or fold through Apply, terminals compare equal across paths, and Not
// swaps the terminal a variable resolves to.
func TestAndOr(t *testing.T) {
	b, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v0 := b.Ithvar(0)
	v1 := b.Ithvar(1)
	v2 := b.Ithvar(2)

	and := b.And(v0, v1, v2)
	if b.Equal(and, b.False()) {
		t.Fatalf("v0 & v1 & v2 should not collapse to False")
	}

	or := b.Or(v0, v1)
	if b.Equal(or, b.False()) {
		t.Fatalf("v0 | v1 should not collapse to False")
	}

	if !b.Equal(b.And(v0, b.True()), v0) {
		t.Fatalf("n & True should be n")
	}
	if !b.Equal(b.Or(v0, b.False()), v0) {
		t.Fatalf("n | False should be n")
	}
	if !b.Equal(b.And(v0, b.Not(v0)), b.False()) {
		t.Fatalf("n & !n should be False")
	}
	if !b.Equal(b.Or(v0, b.Not(v0)), b.True()) {
		t.Fatalf("n | !n should be True")
	}
}

// TestVarLowHigh checks the node-shape surface ConvertBdd walks directly:
// Var identifies the branching level, and High/Low follow the two edges of
// the convention (0 the False branch, 1 the True branch).
func TestVarLowHigh(t *testing.T) {
	b, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v0 := b.Ithvar(0)
	if got := b.Var(v0); got != 0 {
		t.Fatalf("Var(Ithvar(0)) = %d, want 0", got)
	}
	if !b.Equal(b.High(v0), b.True()) {
		t.Fatalf("High(Ithvar(0)) should be True")
	}
	if !b.Equal(b.Low(v0), b.False()) {
		t.Fatalf("Low(Ithvar(0)) should be False")
	}
}
