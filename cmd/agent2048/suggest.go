package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/search"
)

var flagValues bool

var suggestCmd = &cobra.Command{
	Use:   "suggest <board>",
	Short: "Show the best move for a board",
	Long: `Search a single position and print the chosen move with the value of
every action.

The board is given row by row, rows separated by "/" and cells by spaces or
commas. Cells are tile exponents (0 = empty, 1 = 2, 2 = 4, ...) unless
--values is set, in which case they are tile values ("." or 0 = empty).

Examples:
  agent2048 suggest "1 2 1 0/4 1 0 0/3 0 0 0/0 0 0 0"
  agent2048 suggest --values "2 4 2 ./16 2 . ./8 . . ./. . . ."
  agent2048 suggest --depth 4 "1 1 0 0/0 0 0 0/0 0 0 0/0 0 0 0"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSuggest,
}

func init() {
	suggestCmd.Flags().BoolVar(&flagValues, "values", false, "Cells are tile values instead of exponents")
}

func runSuggest(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		fail("%v", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		fail("%v", err)
	}

	input := strings.Join(args, " ")
	parse := t2048.ParseBoard
	if flagValues {
		parse = t2048.ParseValueBoard
	}
	board, err := parse(input)
	if err != nil {
		fail("%v", err)
	}

	policy, _, cleanup, err := buildPolicy(cfg, 1, cacheEntries(cfg, 1), logger)
	if err != nil {
		fail("%v", err)
	}
	defer cleanup()

	state := t2048.NewDecisionState(board)
	printBoard(board)
	fmt.Println()

	if state.IsTerminal() {
		fmt.Println("No legal move: the game is over.")
		return
	}

	analyzer, ok := policy.(search.Analyzer)
	if !ok {
		action, ok := policy.SelectAction(context.Background(), state)
		if !ok {
			fmt.Println("No move selected.")
			return
		}
		fmt.Printf("Move: %s (%s)\n", action, policy.Title())
		return
	}

	res := analyzer.Analyze(context.Background(), state)

	fmt.Printf("  %-6s  %s\n", "Action", "Value")
	fmt.Printf("  %-6s  %s\n", "------", "-----")
	for _, v := range res.Values {
		if !v.Legal {
			fmt.Printf("  %-6s  %s\n", v.Action, "illegal")
			continue
		}
		marker := ""
		if res.OK && v.Action == res.Action {
			marker = "  <-"
		}
		fmt.Printf("  %-6s  %.4f%s\n", v.Action, v.Value, marker)
	}
	fmt.Println()

	if !res.OK {
		fmt.Println("No move beats the baseline.")
	} else {
		fmt.Printf("Move: %s (%s)\n", res.Action, policy.Title())
	}
	fmt.Printf("Searched %d evaluations, %d cache hits, %d entries in %s\n",
		res.Stats.Evals, res.Stats.CacheHits, res.Stats.CacheEntries, res.Elapsed)
}
