// Package core provides the small types shared between the game model, the
// agent loop, storage and the CLI. It has no dependencies beyond the standard
// library so every layer can import it.
package core

import "time"

// RuntimeConfig contains configuration passed to a game at initialization.
type RuntimeConfig struct {
	Seed     int64 // RNG seed for deterministic spawns
	MaxMoves int   // Stop after this many moves (0 = until game over)
}

// GameState represents the current state of a game.
type GameState struct {
	Score    int  // Sum of merged tile values
	Moves    int  // Moves played so far
	MaxTile  int  // Highest displayed tile
	GameOver bool // No legal move remains
}

// StepResult is returned by Game.Step() after each move.
type StepResult struct {
	State GameState
	Moved bool // false when the action was illegal and nothing happened
	Gain  int  // Score gained by this move
}

// EndReason explains why a game stopped.
type EndReason string

const (
	EndGameOver  EndReason = "game_over" // no legal move
	EndNoAction  EndReason = "no_action" // policy returned no action
	EndMaxMoves  EndReason = "max_moves" // move limit reached
	EndCancelled EndReason = "cancelled" // context cancelled
)

// GameResult summarises a finished game.
type GameResult struct {
	GameID    string
	Policy    string
	Heuristic string
	Depth     int
	Seed      int64
	Score     int
	MaxTile   int
	Moves     int
	Reason    EndReason
	Duration  time.Duration
	// MilestoneMoves holds, per milestone, the move on which it was first
	// reached, or -1 if it never was.
	MilestoneMoves []int
}
