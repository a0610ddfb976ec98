package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/agent2048/internal/config"
	"github.com/vovakirdan/agent2048/internal/registry"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List all available policies",
	Long:  `Shows a list of all move-selection policies and search presets.`,
	Run:   runPolicies,
}

func runPolicies(cmd *cobra.Command, args []string) {
	policies := registry.List()

	if len(policies) == 0 {
		fmt.Println("No policies available.")
		return
	}

	fmt.Println("Available policies:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range policies {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	// Print policies
	for _, p := range policies {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, p.Title)
	}

	fmt.Println()
	fmt.Println("Presets (expectimax):")
	for _, p := range config.Presets {
		fmt.Printf("  %-8s depth %d\n", p, config.DepthForPreset(p))
	}

	fmt.Println()
	fmt.Println("Run 'agent2048 play --policy <id>' to play with a policy.")
}
