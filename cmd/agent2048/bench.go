package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/agent2048/internal/bench"
	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/registry"
	"github.com/vovakirdan/agent2048/internal/storage"
)

var (
	flagGames   int
	flagWorkers int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Play many games and summarize the results",
	Long: `Play a batch of independent games in parallel, one game per worker at a
time, and print score statistics, the max-tile distribution, milestone
rates and a score histogram.

Game i is played with seed+i, so a fixed --seed reproduces the whole batch.

Examples:
  agent2048 bench --games 50
  agent2048 bench --games 200 --workers 8 --preset fast
  agent2048 bench --policy random --games 1000 --no-store`,
	Args: cobra.NoArgs,
	Run:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagGames, "games", 0, "Number of games (overrides config)")
	benchCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent games (0 = number of CPUs)")
}

func runBench(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		fail("%v", err)
	}
	if cmd.Flags().Changed("games") {
		cfg.Bench.Games = flagGames
	}
	if cmd.Flags().Changed("workers") {
		cfg.Bench.Workers = flagWorkers
	}
	if err := cfg.Validate(); err != nil {
		fail("%v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fail("%v", err)
	}

	var store *storage.Store
	if !cfg.Storage.Disable {
		store, err = storage.Open(cfg.Storage.DB)
		if err != nil {
			logger.Warn("could not open results database", "err", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	maxEntries := cacheEntries(cfg, cfg.Bench.Workers)
	logger.Info("starting bench",
		"games", cfg.Bench.Games,
		"workers", cfg.Bench.Workers,
		"policy", cfg.Search.Policy,
		"depth", cfg.Search.Depth,
		"cache_entries", maxEntries,
	)

	sum, err := bench.Run(ctx, bench.Config{
		Games:    cfg.Bench.Games,
		Workers:  cfg.Bench.Workers,
		Seed:     cfg.Game.Seed,
		MaxMoves: cfg.Game.MaxMoves,
		Factory: func(seed int64) (registry.Policy, t2048.Evaluator, func(), error) {
			return buildPolicy(cfg, seed, maxEntries, logger)
		},
		Store:    store,
		TraceDir: cfg.Trace.Dir,
		Logger:   logger,
	})
	if err != nil {
		// Partial results are still worth printing
		logger.Error("bench stopped", "err", err)
	}

	os.Stdout.WriteString("\n")
	if perr := sum.Fprint(os.Stdout); perr != nil {
		fail("%v", perr)
	}
	if err != nil {
		os.Exit(1)
	}
}
