package t2048

import (
	"math/rand"
	"slices"

	"github.com/vovakirdan/agent2048/internal/core"
)

// Game drives one 2048 game: it owns the spawn RNG and alternates between
// the agent's move and nature's spawn.
type Game struct {
	rng   *rand.Rand
	state DecisionState
	tick  uint64

	score    int
	moves    int
	gameOver bool

	lastAction Action
	lastGain   int
	moved      bool

	// milestoneMoves[i] is the move on which Milestones[i] was first reached, -1 if not yet.
	milestoneMoves []int
}

// New creates a game; call Reset before playing.
func New() *Game {
	return &Game{}
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.score = 0
	g.moves = 0
	g.lastGain = 0
	g.moved = false

	g.milestoneMoves = make([]int, len(Milestones))
	for i := range g.milestoneMoves {
		g.milestoneMoves[i] = -1
	}

	// A single tile on an empty grid
	g.state = InitialDecisionState(g.rng)
	g.gameOver = g.state.IsTerminal()
	g.trackMilestones()
}

// Decision returns the state the agent must act on.
func (g *Game) Decision() DecisionState {
	return g.state
}

// Step plays one action. An illegal action leaves the game untouched and
// spawns nothing.
func (g *Game) Step(a Action) core.StepResult {
	g.tick++

	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	chance, gain, ok := g.state.ApplyScored(a)
	if !ok {
		// Board didn't change - don't spawn new tile
		g.moved = false
		return core.StepResult{State: g.State()}
	}

	g.moves++
	g.score += gain
	g.lastAction = a
	g.lastGain = gain
	g.moved = true

	// A legal move always frees or keeps an empty cell, so the spawn is safe
	g.state = chance.SpawnRandom(g.rng)
	g.trackMilestones()

	if g.state.IsTerminal() {
		g.gameOver = true
	}

	return core.StepResult{State: g.State(), Moved: true, Gain: gain}
}

// trackMilestones records the first move each milestone was reached on.
func (g *Game) trackMilestones() {
	reached := MilestonesReached(g.state.Board())
	for i := 0; i < reached; i++ {
		if g.milestoneMoves[i] < 0 {
			g.milestoneMoves[i] = g.moves
		}
	}
}

// MilestoneMoves returns a copy of the per-milestone first-reach moves.
func (g *Game) MilestoneMoves() []int {
	return slices.Clone(g.milestoneMoves)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Moves:    g.moves,
		MaxTile:  g.state.Board().MaxTile(),
		GameOver: g.gameOver,
	}
}
