package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/agent2048/internal/agent"
	"github.com/vovakirdan/agent2048/internal/core"
	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/search"
	"github.com/vovakirdan/agent2048/internal/storage"
	"github.com/vovakirdan/agent2048/internal/trace"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game",
	Long: `Play a single game with the configured policy and print the result.

The game ends when no move is possible, when the policy finds no move worth
playing, when --max-moves is reached, or on Ctrl+C.

Preset options:
  fast   - Expectimax depth 2
  normal - Expectimax depth 3
  deep   - Expectimax depth 4, capped at 20000 moves

Examples:
  agent2048 play
  agent2048 play --seed 42
  agent2048 play --preset fast
  agent2048 play --policy greedy --no-store
  agent2048 play --log-level debug --trace ./traces`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		fail("%v", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		fail("%v", err)
	}

	seed := agent.ResolveSeed(cfg.Game.Seed)
	policy, eval, cleanup, err := buildPolicy(cfg, seed, cacheEntries(cfg, 1), logger)
	if err != nil {
		fail("%v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		slowest  time.Duration
		thinking time.Duration
		final    t2048.Board
		searched search.Stats
	)
	runner := &agent.Runner{
		Policy:    policy,
		Evaluator: eval,
		Config:    core.RuntimeConfig{Seed: seed, MaxMoves: cfg.Game.MaxMoves},
		Logger:    logger,
		OnMove: func(m agent.MoveInfo) {
			thinking += m.Decision
			slowest = max(slowest, m.Decision)
			final = m.After
			searched.Add(m.Stats)
		},
	}
	runner.GameID = agent.NewGameID(policy.ID(), seed)
	if cfg.Trace.Dir != "" {
		runner.Trace = trace.NewWriter(trace.PathFor(cfg.Trace.Dir, runner.GameID))
	}

	logger.Info("starting game", "game", runner.GameID, "policy", policy.Title(), "seed", seed)
	res, err := runner.Play(ctx)
	if err != nil {
		fail("%v", err)
	}

	if runner.Trace != nil {
		if err := runner.Trace.Flush(); err != nil {
			logger.Warn("trace not written", "err", err)
		} else {
			logger.Info("trace written", "path", runner.Trace.Path(), "rows", res.Moves)
		}
	}

	if !cfg.Storage.Disable && res.Reason != core.EndCancelled {
		saveResult(ctx, cfg.Storage.DB, res)
	}

	printResult(res, final, thinking, slowest, searched)
}

func saveResult(ctx context.Context, dbPath string, res core.GameResult) {
	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.SaveResult(ctx, res); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save result: %v\n", err)
	}
}

func printResult(res core.GameResult, final t2048.Board, thinking, slowest time.Duration, searched search.Stats) {
	fmt.Printf("Game %s - %s\n", res.GameID, res.Policy)
	fmt.Println()
	if res.Moves > 0 {
		printBoard(final)
		fmt.Println()
	}

	fmt.Printf("  %-12s %s\n", "Ended:", res.Reason)
	fmt.Printf("  %-12s %d\n", "Moves:", res.Moves)
	fmt.Printf("  %-12s %d\n", "Score:", res.Score)
	fmt.Printf("  %-12s %d\n", "Max tile:", res.MaxTile)
	fmt.Printf("  %-12s %d\n", "Seed:", res.Seed)
	fmt.Printf("  %-12s %s\n", "Duration:", res.Duration.Round(time.Millisecond))
	if res.Moves > 0 {
		avg := thinking / time.Duration(res.Moves)
		fmt.Printf("  %-12s avg %s, max %s\n", "Decision:", avg.Round(time.Microsecond), slowest.Round(time.Microsecond))
	}
	if searched.Evals > 0 {
		fmt.Printf("  %-12s %d evaluations, %d cache hits\n", "Search:", searched.Evals, searched.CacheHits)
	}

	for i, m := range t2048.Milestones {
		if i >= len(res.MilestoneMoves) || res.MilestoneMoves[i] < 0 {
			break
		}
		if i == 0 {
			fmt.Println()
			fmt.Println("Milestones:")
		}
		fmt.Printf("  %-6d %-18s move %d\n", m.Target(), m.Name, res.MilestoneMoves[i])
	}
}

func printBoard(b t2048.Board) {
	for y := range t2048.Size {
		fmt.Print(" ")
		for x := range t2048.Size {
			if b[y][x] == 0 {
				fmt.Printf(" %5s", ".")
				continue
			}
			fmt.Printf(" %5d", t2048.TileValue(b[y][x]))
		}
		fmt.Println()
	}
}
