// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package scram wires the indexed Boolean graph preprocessor to the ZBDD
// cut-set engine behind a single entry point, Analyze. A collaborator
// builds an IndexedGraph (package graph), hands it here with a Settings
// (package settings), and gets back the minimal cut sets bounded by
// Settings.LimitOrder.
package scram

import (
	log "github.com/sirupsen/logrus"

	"github.com/dalzilio/scram-go/pkg/graph"
	"github.com/dalzilio/scram-go/pkg/preprocess"
	"github.com/dalzilio/scram-go/pkg/scramerr"
	"github.com/dalzilio/scram-go/pkg/settings"
	"github.com/dalzilio/scram-go/pkg/zbdd"
)

// Result is the outcome of Analyze: the minimal cut sets bounded by
// Settings.LimitOrder, each sorted by basic-event index and free of
// duplicates, plus the materialized-complement registry described on
// zbdd.Result.
type Result = zbdd.Result

// Analyze normalizes g in place (preprocess.ProcessFaultTree) and converts
// the normalized graph directly into a ZBDD (zbdd.Analyze), the "Boolean
// graph -> ZBDD" path of the two construction paths the engine supports.
// A caller that already has a reduced ordered BDD for g (built, for
// instance, because a non-coherent graph was routed through the bdd
// package for reasons of its own) should call zbdd.AnalyzeBDD directly
// instead; this entry point only ever exercises the direct path.
//
// g must already have its Root set; it is mutated by preprocessing, so a
// caller that still needs the pre-normalized graph (e.g. for reporting)
// should build it from a fresh copy.
func Analyze(g *graph.IndexedGraph, s settings.Settings) (Result, error) {
	if g.Root == nil {
		return Result{}, scramerr.Contract("graph has no root")
	}
	log.WithField("limit_order", s.LimitOrder).Debug("scram analysis started")

	if err := preprocess.New(g).ProcessFaultTree(); err != nil {
		return Result{}, err
	}

	res, err := zbdd.Analyze(g, s)
	if err != nil {
		return Result{}, err
	}

	log.WithField("cutsets", len(res.CutSets)).Debug("scram analysis complete")
	return res, nil
}
