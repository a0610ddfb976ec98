package search

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/registry"
)

// DefaultDepth is the chance-node lookahead used when none is configured.
const DefaultDepth = 3

// Options parameterizes Expectimax.
type Options struct {
	Depth           int     // values < 1 are treated as 1
	Baseline        float64 // 0 keeps the reference zero floor, -Inf removes it
	MaxCacheEntries int     // <= 0 means unbounded
	Logger          *log.Logger
}

// ActionValue is the searched value of one top-level action.
type ActionValue struct {
	Action t2048.Action
	Value  float64
	Legal  bool
}

// Analysis is the full result of one top-level search.
type Analysis struct {
	Action    t2048.Action
	OK        bool // false when no action beat the baseline
	Values    [4]ActionValue
	Stats     Stats
	Elapsed   time.Duration
	Cancelled bool
}

// Analyzer is implemented by policies that expose per-action values.
type Analyzer interface {
	Analyze(ctx context.Context, s t2048.DecisionState) Analysis
}

// Expectimax selects the action with the highest expected heuristic value
// after Depth chance layers.
type Expectimax struct {
	eval t2048.Evaluator
	opts Options
}

// NewExpectimax creates an expectimax policy.
func NewExpectimax(eval t2048.Evaluator, opts Options) *Expectimax {
	if opts.Depth < 1 {
		opts.Depth = 1
	}
	return &Expectimax{eval: eval, opts: opts}
}

func (e *Expectimax) ID() string    { return "expectimax" }
func (e *Expectimax) Title() string { return fmt.Sprintf("Expectimax (depth %d)", e.opts.Depth) }
func (e *Expectimax) Depth() int    { return e.opts.Depth }

// SelectAction returns the best action on s, or false when the position is
// dead or no action scores above the baseline.
func (e *Expectimax) SelectAction(ctx context.Context, s t2048.DecisionState) (t2048.Action, bool) {
	a := e.Analyze(ctx, s)
	return a.Action, a.OK
}

// Analyze searches every top-level action with a fresh memo table.
// Cancellation is checked between actions; a cancelled search still returns
// the best action among those already searched.
func (e *Expectimax) Analyze(ctx context.Context, s t2048.DecisionState) Analysis {
	tree := NewTree(e.eval, e.opts.Baseline, e.opts.MaxCacheEntries)
	res := selectBest(ctx, s, e.opts.Baseline, func(c t2048.ChanceState) float64 {
		return tree.ExpectedValue(c, e.opts.Depth-1)
	})
	res.Stats = tree.Stats()

	if e.opts.Logger != nil {
		e.opts.Logger.Debug("search done",
			"action", res.Action,
			"ok", res.OK,
			"depth", e.opts.Depth,
			"evals", res.Stats.Evals,
			"hits", res.Stats.CacheHits,
			"entries", res.Stats.CacheEntries,
			"elapsed", res.Elapsed,
		)
		if res.Stats.CacheFull {
			e.opts.Logger.Warn("memo table full", "max", e.opts.MaxCacheEntries)
		}
	}

	return res
}

// selectBest scores each legal action of s in Actions order and keeps the
// first strictly greater value, starting from baseline.
func selectBest(ctx context.Context, s t2048.DecisionState, baseline float64, value func(t2048.ChanceState) float64) Analysis {
	start := time.Now()

	var res Analysis
	best := baseline
	for i, a := range t2048.Actions {
		res.Values[i].Action = a
	}

	for i, a := range t2048.Actions {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}

		succ, ok := s.Apply(a)
		if !ok {
			continue
		}

		v := value(succ)
		res.Values[i].Value = v
		res.Values[i].Legal = true

		if v > best {
			best = v
			res.Action = a
			res.OK = true
		}
	}

	res.Elapsed = time.Since(start)
	return res
}

func init() {
	registry.Register("expectimax", func(env registry.Env) registry.Policy {
		depth := env.Depth
		if depth == 0 {
			depth = DefaultDepth
		}
		return NewExpectimax(env.Evaluator, Options{
			Depth:           depth,
			Baseline:        env.Baseline,
			MaxCacheEntries: env.MaxCacheEntries,
			Logger:          env.Logger,
		})
	})
}
