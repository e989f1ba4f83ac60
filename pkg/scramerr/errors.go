// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package scramerr defines the error kinds surfaced by the core: a
// ContractViolation when the caller handed the preprocessor or the ZBDD
// engine a graph that breaks a documented precondition, and an
// InternalInvariantBroken when a pass produces a state its own postcondition
// forbids. Both are fatal: the core performs no local recovery and expects
// the collaborator to abort.
//
// A third condition, LimitOrderExhausted, is not an error at all. It is the
// silent truncation of a ZBDD branch once a cut set would exceed
// Settings.LimitOrder, and it never reaches this package.
package scramerr

import (
	"errors"
	"fmt"
)

// ErrContractViolation is wrapped by every contract-violation error: a
// cycle in Gate->Gate edges, a root with existing parents, an ATLEAST gate
// with a vote number below two, or a duplicate signed argument.
var ErrContractViolation = errors.New("contract violation")

// ErrInvariantBroken is wrapped by every internal-invariant error: a pass
// left behind a gate type or state its own postcondition forbids.
var ErrInvariantBroken = errors.New("internal invariant broken")

// Contract wraps ErrContractViolation with a formatted message.
func Contract(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrContractViolation)
}

// Invariant wraps ErrInvariantBroken with a formatted message.
func Invariant(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvariantBroken)
}

// Violations accumulates every contract breach found during a single
// validation pass instead of aborting on the first one. A builder can run
// the full sweep, report everything that is wrong, and let the caller
// decide whether to proceed.
type Violations struct {
	errs []error
}

// Add records err if it is non-nil. It is a no-op otherwise so call sites
// can unconditionally feed the result of a check into it.
func (v *Violations) Add(err error) {
	if err != nil {
		v.errs = append(v.errs, err)
	}
}

// Err returns the joined error, or nil if nothing was recorded.
func (v *Violations) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return errors.Join(v.errs...)
}

// Len returns the number of violations recorded so far.
func (v *Violations) Len() int {
	return len(v.errs)
}
