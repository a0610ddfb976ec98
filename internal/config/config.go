// Package config provides YAML-based agent configuration loading and
// search presets.
package config

import (
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/vovakirdan/agent2048/internal/heuristic"
)

// AgentConfig contains all configuration for playing and benchmarking.
type AgentConfig struct {
	Search    SearchConfig    `yaml:"search"`
	Heuristic HeuristicConfig `yaml:"heuristic"`
	Game      GameConfig      `yaml:"game"`
	Bench     BenchConfig     `yaml:"bench"`
	Storage   StorageConfig   `yaml:"storage"`
	Trace     TraceConfig     `yaml:"trace"`
	Log       LogConfig       `yaml:"log"`
}

// SearchConfig selects the policy and its search parameters.
type SearchConfig struct {
	Policy          string `yaml:"policy"`            // "expectimax", "greedy" or "random"
	Depth           int    `yaml:"depth"`             // chance layers, clamped to >= 1
	Baseline        string `yaml:"baseline"`          // "zero" or "neg_inf"
	MaxCacheEntries int    `yaml:"max_cache_entries"` // 0 = derive from system memory, < 0 = unbounded
}

// HeuristicConfig selects the board evaluator.
type HeuristicConfig struct {
	Kind    string            `yaml:"kind"` // "weighted" or "lua"
	Weights heuristic.Weights `yaml:"weights"`
	Script  string            `yaml:"script"`
}

// GameConfig defines per-game limits.
type GameConfig struct {
	MaxMoves int   `yaml:"max_moves"` // 0 = play until the board is dead
	Seed     int64 `yaml:"seed"`      // 0 = random
}

// BenchConfig defines the benchmark run.
type BenchConfig struct {
	Games   int `yaml:"games"`
	Workers int `yaml:"workers"` // 0 = number of CPUs
}

// StorageConfig locates the results database.
type StorageConfig struct {
	DB      string `yaml:"db"`
	Disable bool   `yaml:"disable"`
}

// TraceConfig controls per-move parquet export.
type TraceConfig struct {
	Dir string `yaml:"dir"` // empty disables tracing
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // "", text, logfmt, json
}

// Baseline names.
const (
	BaselineZero   = "zero"
	BaselineNegInf = "neg_inf"
)

// BaselineValue returns the numeric starting best score for Search.Baseline.
func (c SearchConfig) BaselineValue() float64 {
	if c.Baseline == BaselineNegInf {
		return math.Inf(-1)
	}
	return 0
}

// HeuristicSettings converts the section into a heuristic.Config.
func (c HeuristicConfig) HeuristicSettings() heuristic.Config {
	return heuristic.Config{
		Kind:    c.Kind,
		Weights: c.Weights,
		Script:  expandHome(c.Script),
	}
}

// Validate normalizes c in place and reports values that cannot be fixed up.
func (c *AgentConfig) Validate() error {
	if c.Search.Policy == "" {
		c.Search.Policy = "expectimax"
	}
	if c.Search.Depth < 1 {
		c.Search.Depth = 1
	}

	switch c.Search.Baseline {
	case "":
		c.Search.Baseline = BaselineZero
	case BaselineZero, BaselineNegInf:
	default:
		return fmt.Errorf("config: search.baseline must be %q or %q, got %q",
			BaselineZero, BaselineNegInf, c.Search.Baseline)
	}

	switch c.Heuristic.Kind {
	case "":
		c.Heuristic.Kind = heuristic.KindWeighted
	case heuristic.KindWeighted:
	case heuristic.KindLua:
		if c.Heuristic.Script == "" {
			return fmt.Errorf("config: heuristic.script is required for kind %q", heuristic.KindLua)
		}
	default:
		return fmt.Errorf("config: unknown heuristic.kind %q", c.Heuristic.Kind)
	}

	if c.Game.MaxMoves < 0 {
		return fmt.Errorf("config: game.max_moves must be >= 0, got %d", c.Game.MaxMoves)
	}

	if c.Bench.Games < 1 {
		c.Bench.Games = 1
	}
	if c.Bench.Workers <= 0 {
		c.Bench.Workers = runtime.NumCPU()
	}
	if c.Bench.Workers > c.Bench.Games {
		c.Bench.Workers = c.Bench.Games
	}

	c.Log.Level = strings.ToLower(c.Log.Level)
	switch c.Log.Level {
	case "":
		c.Log.Level = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "", "text", "logfmt", "json":
	default:
		return fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}

	return nil
}
