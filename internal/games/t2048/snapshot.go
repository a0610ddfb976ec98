package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StateGameOver GameStateType = "game_over"
)

// Snapshot captures the complete game state for determinism testing and traces.
type Snapshot struct {
	Tick       uint64
	Moves      int
	Score      int
	Board      Board
	MaxTile    int
	LastAction Action // valid only when Moved is true
	LastGain   int
	Moved      bool
	Milestones int // milestones reached so far
	State      GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	if g.gameOver {
		state = StateGameOver
	}

	board := g.state.Board()
	return Snapshot{
		Tick:       g.tick,
		Moves:      g.moves,
		Score:      g.score,
		Board:      board,
		MaxTile:    board.MaxTile(),
		LastAction: g.lastAction,
		LastGain:   g.lastGain,
		Moved:      g.moved,
		Milestones: MilestonesReached(board),
		State:      state,
	}
}
