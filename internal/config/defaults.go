package config

import (
	_ "embed"

	"github.com/vovakirdan/agent2048/internal/heuristic"
)

//go:embed defaults/agent.yaml
var defaultAgentYAML []byte

// DefaultAgentConfig returns the default agent configuration.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Search: SearchConfig{
			Policy:          "expectimax",
			Depth:           3,
			Baseline:        BaselineZero,
			MaxCacheEntries: 0,
		},
		Heuristic: HeuristicConfig{
			Kind:    heuristic.KindWeighted,
			Weights: heuristic.DefaultWeights(),
		},
		Game: GameConfig{
			MaxMoves: 0,
			Seed:     0,
		},
		Bench: BenchConfig{
			Games:   20,
			Workers: 0,
		},
		Storage: StorageConfig{
			DB: "~/.agent2048/results.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultAgentYAML
}
