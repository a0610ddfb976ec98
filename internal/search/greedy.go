package search

import (
	"context"

	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/registry"
)

// Greedy picks the action whose successor scores best on the heuristic,
// ignoring spawns. It matches Expectimax at depth 1.
type Greedy struct {
	eval     t2048.Evaluator
	baseline float64
}

// NewGreedy creates a greedy policy.
func NewGreedy(eval t2048.Evaluator, baseline float64) *Greedy {
	return &Greedy{eval: eval, baseline: baseline}
}

func (g *Greedy) ID() string    { return "greedy" }
func (g *Greedy) Title() string { return "Greedy (one ply)" }

func (g *Greedy) SelectAction(ctx context.Context, s t2048.DecisionState) (t2048.Action, bool) {
	a := g.Analyze(ctx, s)
	return a.Action, a.OK
}

func (g *Greedy) Analyze(ctx context.Context, s t2048.DecisionState) Analysis {
	var stats Stats
	res := selectBest(ctx, s, g.baseline, func(c t2048.ChanceState) float64 {
		stats.Evals++
		return c.Evaluate(g.eval)
	})
	res.Stats = stats
	return res
}

func init() {
	registry.Register("greedy", func(env registry.Env) registry.Policy {
		return NewGreedy(env.Evaluator, env.Baseline)
	})
}
