// Package agent plays complete games: it alternates a policy's decisions with
// random spawns and reports how the game ended.
package agent

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/agent2048/internal/core"
	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/heuristic"
	"github.com/vovakirdan/agent2048/internal/registry"
	"github.com/vovakirdan/agent2048/internal/search"
	"github.com/vovakirdan/agent2048/internal/trace"
)

// Runner plays one game with one policy.
type Runner struct {
	Policy    registry.Policy
	Evaluator t2048.Evaluator // used for the heuristic name and failure checks; may be nil
	Config    core.RuntimeConfig
	GameID    string
	Logger    *log.Logger
	Trace     *trace.Writer // optional per-move export

	// OnMove is called after every played move. Optional.
	OnMove func(MoveInfo)
}

// MoveInfo describes one played move.
type MoveInfo struct {
	Move     int
	Before   t2048.Board
	After    t2048.Board
	Action   t2048.Action
	Gain     int
	Score    int
	Decision time.Duration
	Stats    search.Stats
}

// depther is implemented by policies with a search depth.
type depther interface {
	Depth() int
}

// Play runs the game until it is over, the policy gives up, the move limit is
// reached or ctx is done. A cancelled game is still reported as a result.
// An error is returned when the heuristic fails or the policy plays an
// illegal move.
func (r *Runner) Play(ctx context.Context) (core.GameResult, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	if r.GameID == "" {
		r.GameID = NewGameID(r.Policy.ID(), r.Config.Seed)
	}

	res := core.GameResult{
		GameID:    r.GameID,
		Policy:    r.Policy.ID(),
		Heuristic: "none",
		Seed:      r.Config.Seed,
	}
	if r.Evaluator != nil {
		res.Heuristic = heuristic.NameOf(r.Evaluator)
	}
	if d, ok := r.Policy.(depther); ok {
		res.Depth = d.Depth()
	}

	analyzer, _ := r.Policy.(search.Analyzer)

	g := t2048.New()
	g.Reset(r.Config)
	reached := t2048.MilestonesReached(g.Decision().Board())
	start := time.Now()

	finish := func(reason core.EndReason) core.GameResult {
		snap := g.Snapshot()
		res.Score = snap.Score
		res.MaxTile = snap.MaxTile
		res.Moves = snap.Moves
		res.Reason = reason
		res.Duration = time.Since(start)
		res.MilestoneMoves = g.MilestoneMoves()
		return res
	}

	for {
		s := g.Decision()
		if s.IsTerminal() {
			return finish(core.EndGameOver), nil
		}
		if r.Config.MaxMoves > 0 && g.State().Moves >= r.Config.MaxMoves {
			return finish(core.EndMaxMoves), nil
		}
		if ctx.Err() != nil {
			return finish(core.EndCancelled), nil
		}

		var (
			action t2048.Action
			ok     bool
			an     search.Analysis
		)
		t0 := time.Now()
		if analyzer != nil {
			an = analyzer.Analyze(ctx, s)
			action, ok = an.Action, an.OK
		} else {
			action, ok = r.Policy.SelectAction(ctx, s)
		}
		decision := time.Since(t0)

		if r.Evaluator != nil {
			if err := heuristic.ErrOf(r.Evaluator); err != nil {
				return finish(core.EndNoAction), err
			}
		}
		if an.Cancelled || (!ok && ctx.Err() != nil) {
			return finish(core.EndCancelled), nil
		}
		if !ok {
			logger.Warn("policy returned no action", "game", r.GameID, "move", g.State().Moves)
			return finish(core.EndNoAction), nil
		}

		before := s.Board()
		step := g.Step(action)
		if !step.Moved {
			return finish(core.EndNoAction), fmt.Errorf("agent: policy %s chose illegal action %s on %s",
				r.Policy.ID(), action, before)
		}
		after := g.Decision().Board()

		logger.Debug("move",
			"game", r.GameID,
			"n", step.State.Moves,
			"action", action,
			"gain", step.Gain,
			"score", step.State.Score,
			"ms", decision.Milliseconds(),
		)

		if now := t2048.MilestonesReached(after); now > reached {
			for _, m := range t2048.Milestones[reached:now] {
				logger.Info("milestone", "game", r.GameID, "tile", m.Target(), "name", m.Name, "move", step.State.Moves)
			}
			reached = now
		}

		if r.Trace != nil {
			r.Trace.Add(traceRow(r.GameID, res.Policy, step.State.Moves-1, before, action, an, analyzer != nil, step, decision))
		}
		if r.OnMove != nil {
			r.OnMove(MoveInfo{
				Move:     step.State.Moves,
				Before:   before,
				After:    after,
				Action:   action,
				Gain:     step.Gain,
				Score:    step.State.Score,
				Decision: decision,
				Stats:    an.Stats,
			})
		}
	}
}

func traceRow(gameID, policy string, move int, before t2048.Board, a t2048.Action,
	an search.Analysis, analyzed bool, step core.StepResult, decision time.Duration) trace.Row {
	cells := before.Cells()

	values := make([]float64, len(an.Values))
	for i, v := range an.Values {
		if analyzed && v.Legal {
			values[i] = v.Value
		} else {
			values[i] = math.NaN()
		}
	}

	return trace.Row{
		GameID:       gameID,
		Policy:       policy,
		Move:         int32(move),
		BoardHash:    before.Hash(),
		Cells:        cells[:],
		Action:       int32(a),
		ActionValues: values,
		Gain:         int32(step.Gain),
		Score:        int32(step.State.Score),
		MaxTile:      int32(step.State.MaxTile),
		EmptyCells:   int32(before.EmptyCount()),
		DecisionUS:   decision.Microseconds(),
		Evals:        int64(an.Stats.Evals),
		CacheHits:    int64(an.Stats.CacheHits),
	}
}
