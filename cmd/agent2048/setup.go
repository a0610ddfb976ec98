package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/agent2048/internal/config"
	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/heuristic"
	"github.com/vovakirdan/agent2048/internal/logging"
	"github.com/vovakirdan/agent2048/internal/registry"
	"github.com/vovakirdan/agent2048/internal/search"
)

// loadSettings reads the config file and applies command-line overrides.
// Flags win over the preset, which wins over the file.
func loadSettings(cmd *cobra.Command) (config.AgentConfig, error) {
	cfg, err := config.LoadAgent(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return cfg, err
	}
	config.ApplySearchPreset(&cfg, preset)

	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.Search.Policy = flagPolicy
	}
	if flags.Changed("depth") {
		cfg.Search.Depth = flagDepth
	}
	if flags.Changed("baseline") {
		cfg.Search.Baseline = flagBaseline
	}
	if flags.Changed("seed") {
		cfg.Game.Seed = flagSeed
	}
	if flags.Changed("max-moves") {
		cfg.Game.MaxMoves = flagMaxMoves
	}
	if flags.Changed("db") {
		cfg.Storage.DB = flagDBPath
	}
	if flagNoStore {
		cfg.Storage.Disable = true
	}
	if flags.Changed("trace") {
		cfg.Trace.Dir = flagTraceDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if !registry.Exists(cfg.Search.Policy) {
		return cfg, fmt.Errorf("unknown policy %q (run 'agent2048 policies' to see available policies)", cfg.Search.Policy)
	}
	return cfg, nil
}

func newLogger(cfg config.AgentConfig) (*log.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Prefix: "agent2048",
	})
}

// cacheEntries resolves the per-search memo cap; shared splits the
// memory-derived default between concurrent searches.
func cacheEntries(cfg config.AgentConfig, shared int) int {
	switch n := cfg.Search.MaxCacheEntries; {
	case n < 0:
		return 0
	case n > 0:
		return n
	}
	if shared < 1 {
		shared = 1
	}
	return search.DefaultMaxCacheEntries() / shared
}

// buildPolicy creates the configured evaluator and policy for one game.
// The returned cleanup releases the evaluator.
func buildPolicy(cfg config.AgentConfig, seed int64, maxEntries int, logger *log.Logger) (registry.Policy, t2048.Evaluator, func(), error) {
	eval, err := heuristic.New(cfg.Heuristic.HeuristicSettings())
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if c, ok := eval.(io.Closer); ok {
			c.Close()
		}
	}

	p, err := registry.Create(cfg.Search.Policy, registry.Env{
		Evaluator:       eval,
		Rand:            rand.New(rand.NewSource(seed ^ 0x5eed)),
		Depth:           cfg.Search.Depth,
		Baseline:        cfg.Search.BaselineValue(),
		MaxCacheEntries: maxEntries,
		Logger:          logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return p, eval, cleanup, nil
}

// fail prints an error in the CLI's format and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
