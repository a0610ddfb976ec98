// Package search implements move-selection policies: expectimax with a
// per-search memo table, a greedy one-ply policy and a uniform random one.
package search

import (
	"github.com/vovakirdan/agent2048/internal/games/t2048"
)

// Stats counts the work done by one search. It is instrumentation only and
// never influences the values computed.
type Stats struct {
	Evals         int // heuristic calls
	CacheHits     int
	CacheMisses   int
	ChanceNodes   int // chance nodes expanded (cache misses with depth > 0)
	DecisionNodes int
	CacheEntries  int
	CacheFull     bool // the entry cap was hit and later results were not stored
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Evals += o.Evals
	s.CacheHits += o.CacheHits
	s.CacheMisses += o.CacheMisses
	s.ChanceNodes += o.ChanceNodes
	s.DecisionNodes += o.DecisionNodes
	s.CacheEntries += o.CacheEntries
	s.CacheFull = s.CacheFull || o.CacheFull
}

// cacheKey pairs a chance-state board with the remaining depth it was
// evaluated at; values at different depths are not comparable.
type cacheKey struct {
	board t2048.Board
	depth int
}

// Tree evaluates expectimax values for one top-level search.
// A Tree must not be reused across searches run at different depth budgets
// or shared between goroutines.
type Tree struct {
	eval       t2048.Evaluator
	baseline   float64
	cache      map[cacheKey]float64
	maxEntries int
	stats      Stats
}

// NewTree creates a tree with an empty memo table.
// maxEntries <= 0 leaves the table unbounded. baseline is the starting
// maximum of decision nodes (0 reproduces the reference behaviour).
func NewTree(eval t2048.Evaluator, baseline float64, maxEntries int) *Tree {
	return &Tree{
		eval:       eval,
		baseline:   baseline,
		cache:      make(map[cacheKey]float64),
		maxEntries: maxEntries,
	}
}

// Stats returns the counters accumulated so far.
func (t *Tree) Stats() Stats {
	s := t.stats
	s.CacheEntries = len(t.cache)
	return s
}

// ExpectedValue is the value of a chance state: the heuristic at depth 0,
// otherwise the probability-weighted value of every spawn outcome.
func (t *Tree) ExpectedValue(c t2048.ChanceState, depth int) float64 {
	if depth <= 0 {
		t.stats.Evals++
		return c.Evaluate(t.eval)
	}

	key := cacheKey{board: c.Board(), depth: depth}
	if v, ok := t.cache[key]; ok {
		t.stats.CacheHits++
		return v
	}
	t.stats.CacheMisses++
	t.stats.ChanceNodes++

	sum := 0.0
	for p, next := range c.Spawns() {
		sum += p * t.DecisionValue(next, depth)
	}

	// Store only the complete sum
	if t.maxEntries <= 0 || len(t.cache) < t.maxEntries {
		t.cache[key] = sum
	} else {
		t.stats.CacheFull = true
	}

	return sum
}

// DecisionValue is the best ExpectedValue over the legal actions of s, one
// ply shallower. A state with no legal action is worth 0.
func (t *Tree) DecisionValue(s t2048.DecisionState, depth int) float64 {
	t.stats.DecisionNodes++

	best := t.baseline
	legal := false
	for _, a := range t2048.Actions {
		succ, ok := s.Apply(a)
		if !ok {
			continue
		}
		legal = true
		if v := t.ExpectedValue(succ, depth-1); v > best {
			best = v
		}
	}

	if !legal {
		return 0
	}
	return best
}
