// Package bench plays many independent games in parallel and aggregates
// their results.
package bench

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/agent2048/internal/agent"
	"github.com/vovakirdan/agent2048/internal/core"
	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/registry"
	"github.com/vovakirdan/agent2048/internal/storage"
	"github.com/vovakirdan/agent2048/internal/trace"
)

// Factory builds a fresh policy for one game. Policies and evaluators are not
// shared between goroutines. cleanup may be nil.
type Factory func(seed int64) (p registry.Policy, eval t2048.Evaluator, cleanup func(), err error)

// Config describes a benchmark run.
type Config struct {
	Games    int
	Workers  int
	Seed     int64 // game i is played with Seed+i; 0 picks a random base
	MaxMoves int
	Factory  Factory

	Store    *storage.Store // optional; results are saved as games finish
	TraceDir string         // optional; one parquet file per game
	Logger   *log.Logger
}

// Run plays cfg.Games games with at most cfg.Workers in flight. The first
// game error stops the run; games interrupted by ctx are counted as
// cancelled rather than failed.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	if cfg.Factory == nil {
		return Summary{}, fmt.Errorf("bench: no policy factory")
	}
	if cfg.Games < 1 {
		return Summary{}, fmt.Errorf("bench: games must be >= 1, got %d", cfg.Games)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	base := agent.ResolveSeed(cfg.Seed)

	start := time.Now()
	results := make([]core.GameResult, cfg.Games)
	played := make([]bool, cfg.Games)
	var finished atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < cfg.Games; i++ {
		if gctx.Err() != nil {
			break
		}
		seed := base + int64(i)

		g.Go(func() error {
			res, err := playOne(gctx, cfg, seed, logger)
			if err != nil {
				return fmt.Errorf("bench: game %d (seed %d): %w", i, seed, err)
			}
			results[i] = res
			played[i] = true

			n := finished.Add(1)
			logger.Info("game finished",
				"n", fmt.Sprintf("%d/%d", n, cfg.Games),
				"score", res.Score,
				"max_tile", res.MaxTile,
				"moves", res.Moves,
				"reason", res.Reason,
			)
			return nil
		})
	}

	err := g.Wait()

	var done []core.GameResult
	for i, ok := range played {
		if ok {
			done = append(done, results[i])
		}
	}
	sum := Summarize(done)
	sum.BaseSeed = base
	sum.Elapsed = time.Since(start)
	return sum, err
}

func playOne(ctx context.Context, cfg Config, seed int64, logger *log.Logger) (core.GameResult, error) {
	p, eval, cleanup, err := cfg.Factory(seed)
	if err != nil {
		return core.GameResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	r := &agent.Runner{
		Policy:    p,
		Evaluator: eval,
		Config:    core.RuntimeConfig{Seed: seed, MaxMoves: cfg.MaxMoves},
		GameID:    agent.NewGameID(p.ID(), seed),
		Logger:    logger,
	}
	if cfg.TraceDir != "" {
		r.Trace = trace.NewWriter(trace.PathFor(cfg.TraceDir, r.GameID))
	}

	res, err := r.Play(ctx)
	if err != nil {
		return res, err
	}

	if r.Trace != nil && res.Reason != core.EndCancelled {
		if err := r.Trace.Flush(); err != nil {
			logger.Warn("trace not written", "game", res.GameID, "err", err)
		}
	}
	if cfg.Store != nil && res.Reason != core.EndCancelled {
		if _, err := cfg.Store.SaveResult(ctx, res); err != nil {
			logger.Warn("result not saved", "game", res.GameID, "err", err)
		}
	}

	return res, nil
}
