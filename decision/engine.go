// Package decision runs a rule catalog over an examination snapshot: it
// derives features, scores the differential, recommends tests and picks
// an urgency banner.
//
// Compute never fails and never performs I/O. Everything that can go wrong
// with a catalog is caught by New.
package decision

import (
	"errors"
	"fmt"

	"github.com/liamcoop/neurocds/exam"
	"github.com/liamcoop/neurocds/features"
	"github.com/liamcoop/neurocds/rules"
)

// Engine evaluates one catalog. It is immutable after New and safe for
// concurrent use.
type Engine struct {
	catalog   *rules.Catalog
	rules     *rules.Engine
	conds     *conditions
	config    features.Config
	cacheSize int
}

// Option configures an Engine.
type Option func(*Engine)

// WithAnisocoriaThreshold sets the anisocoria threshold in millimetres.
// Non-positive values fall back to features.DefaultAnisocoriaThreshold.
func WithAnisocoriaThreshold(mm float64) Option {
	return func(e *Engine) {
		e.config.AnisocoriaThreshold = mm
	}
}

// WithFeatureConfig replaces the whole feature derivation config.
func WithFeatureConfig(cfg features.Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithRulesEngine shares a rules engine, and its compiled program cache,
// between several decision engines. The rules engine must have been built
// from features.Schema(). The cache only de-duplicates compiles: each engine
// keeps its own programs, so Compute never consults it.
func WithRulesEngine(re *rules.Engine) Option {
	return func(e *Engine) {
		e.rules = re
	}
}

// WithProgramCacheSize bounds the program cache of the engine's own rules
// engine. Ignored when WithRulesEngine is given.
func WithProgramCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// New compiles every expression in c and returns an engine for it. The
// engine keeps c; callers must not modify it afterwards.
func New(c *rules.Catalog, opts ...Option) (*Engine, error) {
	if c == nil {
		return nil, errors.New("catalog cannot be nil")
	}

	e := &Engine{
		catalog:   c,
		config:    features.DefaultConfig(),
		cacheSize: rules.DefaultProgramCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.rules == nil {
		re, err := rules.NewEngineWithCacheSize(features.Schema(), e.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create rules engine: %w", err)
		}
		e.rules = re
	}

	conds, err := prepareConditions(e.rules, c)
	if err != nil {
		return nil, fmt.Errorf("failed to compile catalog %s: %w", c.Name, err)
	}
	e.conds = conds

	return e, nil
}

// Catalog returns the catalog the engine evaluates.
func (e *Engine) Catalog() *rules.Catalog {
	return e.catalog
}

// Config returns the feature derivation config.
func (e *Engine) Config() features.Config {
	return e.config
}

// Compute runs the full pipeline over one snapshot. The differential is
// only scored when at least one exam module is ready.
func (e *Engine) Compute(s exam.Snapshot) Result {
	fs := features.Derive(s, e.config)
	facts := fs.Facts()

	differential := []Candidate{}
	if fs.Readiness.Any() {
		differential = e.score(facts)
	}

	return Result{
		Features:               fs,
		Differential:           differential,
		Urgency:                e.classify(fs, facts),
		TestingRecommendations: e.recommend(facts),
	}
}
