// agent2048 plays 2048 with an expectimax search agent.
//
// Usage:
//
//	agent2048 play               - Play one game and print the result
//	agent2048 bench              - Play many games in parallel and summarize
//	agent2048 suggest <board>    - Show the best move for a board
//	agent2048 policies           - List available policies
//	agent2048 scores [policy]    - Show stored results
//
// Global flags:
//
//	--config <path>   - Agent config YAML (default search: ~/.agent2048/agent.yaml, ./configs/agent.yaml)
//	--policy <id>     - Policy to play with (default: expectimax)
//	--depth <n>       - Expectimax depth
//	--preset <name>   - Search preset: fast, normal, deep
//	--seed <value>    - RNG seed for reproducible games (0 = random)
//	--db <path>       - Results database (default: ~/.agent2048/results.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import search to register its policies
	_ "github.com/vovakirdan/agent2048/internal/search"
)

var (
	// Global flags
	flagConfig    string
	flagPolicy    string
	flagDepth     int
	flagPreset    string
	flagBaseline  string
	flagSeed      int64
	flagMaxMoves  int
	flagDBPath    string
	flagNoStore   bool
	flagTraceDir  string
	flagLogLevel  string
	flagLogFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agent2048",
	Short: "A 2048-playing expectimax agent",
	Long: `agent2048 plays the game 2048 by searching future boards and picking
the move with the highest expected heuristic value.

Available commands:
  play      - Play one game
  bench     - Play many games and summarize the results
  suggest   - Show the best move for a given board
  policies  - Show all available policies
  scores    - View stored results

Examples:
  agent2048 play --seed 42
  agent2048 play --preset deep --trace ./traces
  agent2048 bench --games 100 --workers 8
  agent2048 suggest "1 2 1 0/4 1 0 0/3 0 0 0/0 0 0 0"
  agent2048 scores expectimax`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to agent config YAML")
	pf.StringVar(&flagPolicy, "policy", "", "Policy: expectimax, greedy, random")
	pf.IntVar(&flagDepth, "depth", 0, "Expectimax depth in chance layers (overrides config)")
	pf.StringVar(&flagPreset, "preset", "", "Search preset: fast, normal, deep")
	pf.StringVar(&flagBaseline, "baseline", "", "Top-level baseline: zero or neg_inf")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random)")
	pf.IntVar(&flagMaxMoves, "max-moves", 0, "Stop a game after this many moves (0 = until game over)")
	pf.StringVar(&flagDBPath, "db", "", "Path to results database (default from config: ~/.agent2048/results.db)")
	pf.BoolVar(&flagNoStore, "no-store", false, "Do not save results")
	pf.StringVar(&flagTraceDir, "trace", "", "Write per-move parquet traces to this directory")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: text, logfmt, json")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(scoresCmd)
}
