// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package settings defines the Settings object recognized by the ZBDD
// engine, built through the same functional-options idiom used elsewhere
// in this module for BDD configuration (see package bdd's config.go).
package settings

// Settings carries every caller-supplied knob the ZBDD engine reads. A
// zero-value Settings is not usable; construct one with New.
type Settings struct {
	// LimitOrder is the maximum cut-set cardinality. Cut sets larger than
	// this are never produced: branches whose smallest set would exceed it
	// are truncated to Empty, and any larger set left over is dropped from
	// the result.
	LimitOrder int

	// ProbabilityAnalysis is informational only. It does not alter
	// cut-set computation; it signals the collaborator to populate
	// basic-event probability expressions from the result.
	ProbabilityAnalysis bool

	// MaterializeComplements controls how a non-coherent graph's
	// complemented variables appear in cut sets: as a positive variable
	// standing in for "basic event did not occur" (true, the default,
	// matching common PRA convention) or as a signed index (false), for
	// callers that want to tell complemented and asserted literals apart
	// in diagnostic output.
	MaterializeComplements bool
}

// Option configures a Settings value.
type Option func(*Settings)

// New builds a Settings with the given limit order and applies opts in
// order. LimitOrder must be a positive integer; a non-positive value is
// clamped to 1.
func New(limitOrder int, opts ...Option) Settings {
	if limitOrder < 1 {
		limitOrder = 1
	}
	s := Settings{
		LimitOrder:             limitOrder,
		MaterializeComplements: true,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithProbabilityAnalysis sets the informational ProbabilityAnalysis flag.
func WithProbabilityAnalysis(on bool) Option {
	return func(s *Settings) {
		s.ProbabilityAnalysis = on
	}
}

// WithMaterializeComplements overrides the default complement-materialization
// behavior described on the Settings field of the same name.
func WithMaterializeComplements(on bool) Option {
	return func(s *Settings) {
		s.MaterializeComplements = on
	}
}
