package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/agent2048/internal/registry"
	"github.com/vovakirdan/agent2048/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [policy]",
	Short: "Show stored results",
	Long: `Display the best stored games for a policy, with its max-tile
distribution. Without a policy, show a summary line for every policy that
has results.

Examples:
  agent2048 scores
  agent2048 scores expectimax
  agent2048 scores greedy --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of games to show")
}

func runScores(cmd *cobra.Command, args []string) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		fail("%v", err)
	}

	// Open result storage
	store, err := storage.Open(cfg.Storage.DB)
	if err != nil {
		fail("opening results database: %v", err)
	}
	defer store.Close()

	if len(args) == 0 {
		showAllPolicies(store)
		return
	}

	policyID := args[0]
	if !registry.Exists(policyID) {
		fmt.Fprintf(os.Stderr, "Error: unknown policy %q\n", policyID)
		fmt.Fprintln(os.Stderr, "Run 'agent2048 policies' to see available policies.")
		os.Exit(1)
	}

	entries, err := store.TopResults(policyID, flagLimit)
	if err != nil {
		fail("retrieving results: %v", err)
	}

	fmt.Printf("Best games - %s\n", policyID)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'agent2048 play --policy %s' to record the first game!\n", policyID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %-5s  %-10s  %s\n", "Rank", "Score", "Max tile", "Moves", "Depth", "Ended", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %-5s  %-10s  %s\n", "----", "-----", "--------", "-----", "-----", "-----", "----")

	for i, e := range entries {
		dateStr := e.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-8d  %-6d  %-5d  %-10s  %s\n",
			i+1, e.Score, e.MaxTile, e.Moves, e.Depth, e.Reason, dateStr)
	}

	stats, err := store.GetPolicyStats(policyID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Best: %d  Average: %.1f  Best tile: %d\n",
			stats.Games, stats.HighScore, stats.AvgScore, stats.BestTile)
	}

	counts, err := store.MaxTileCounts(policyID)
	if err == nil && len(counts) > 0 {
		fmt.Println()
		fmt.Println("Max tile reached:")
		tiles := lo.Keys(counts)
		slices.Sort(tiles)
		slices.Reverse(tiles)
		for _, tile := range tiles {
			fmt.Printf("  %-6d %d\n", tile, counts[tile])
		}
	}
}

func showAllPolicies(store *storage.Store) {
	all, err := store.GetAllPolicyStats()
	if err != nil {
		fail("retrieving stats: %v", err)
	}
	if len(all) == 0 {
		fmt.Println("No results recorded yet.")
		return
	}

	ids := lo.Keys(all)
	slices.Sort(ids)

	fmt.Printf("  %-12s  %-6s  %-8s  %-10s  %-9s  %s\n", "Policy", "Games", "Best", "Average", "Best tile", "Last played")
	fmt.Printf("  %-12s  %-6s  %-8s  %-10s  %-9s  %s\n", "------", "-----", "----", "-------", "---------", "-----------")
	for _, id := range ids {
		s := all[id]
		fmt.Printf("  %-12s  %-6d  %-8d  %-10.1f  %-9d  %s\n",
			id, s.Games, s.HighScore, s.AvgScore, s.BestTile, s.LastPlayed.Format("2006-01-02 15:04"))
	}
}
