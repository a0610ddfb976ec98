package t2048

import (
	"iter"
	"math/rand"

	"github.com/samber/lo"
)

// Evaluator scores a board; higher is better. Implementations must be pure
// and return a finite value for every reachable board.
type Evaluator interface {
	Evaluate(b Board) float64
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(b Board) float64

// Evaluate calls f(b).
func (f EvaluatorFunc) Evaluate(b Board) float64 {
	return f(b)
}

// DecisionState is a board on which the next thing to do is to pick a move.
type DecisionState struct {
	board Board
}

// ChanceState is a board on which a move was just played and a tile must spawn.
type ChanceState struct {
	board Board
}

// InitialDecisionState returns an empty board with a single random tile.
func InitialDecisionState(rng *rand.Rand) DecisionState {
	return DecisionState{board: Board{}.SpawnRandom(rng)}
}

// NewDecisionState wraps a board on which it is the agent's turn.
func NewDecisionState(b Board) DecisionState {
	return DecisionState{board: b}
}

// NewChanceState wraps a board awaiting a spawn.
func NewChanceState(b Board) ChanceState {
	return ChanceState{board: b}
}

// Board returns the underlying grid.
func (s DecisionState) Board() Board {
	return s.board
}

// Apply plays an action. Returns false when the action changes nothing.
func (s DecisionState) Apply(a Action) (ChanceState, bool) {
	next, ok := s.board.Apply(a)
	if !ok {
		return ChanceState{}, false
	}
	return ChanceState{board: next}, true
}

// ApplyScored is Apply that also reports the merge score.
func (s DecisionState) ApplyScored(a Action) (ChanceState, int, bool) {
	next, score, ok := s.board.ApplyScored(a)
	if !ok {
		return ChanceState{}, 0, false
	}
	return ChanceState{board: next}, score, true
}

// LegalActions returns the actions that change the board, in canonical order.
func (s DecisionState) LegalActions() []Action {
	return lo.Filter(Actions[:], func(a Action, _ int) bool {
		_, ok := s.board.Apply(a)
		return ok
	})
}

// IsTerminal reports whether no action is legal (game over).
func (s DecisionState) IsTerminal() bool {
	for _, a := range Actions {
		if _, ok := s.board.Apply(a); ok {
			return false
		}
	}
	return true
}

// HasAtLeastTile reports whether some tile has exponent >= k.
func (s DecisionState) HasAtLeastTile(k uint8) bool {
	return s.board.MaxExponent() >= k
}

// Board returns the underlying grid.
func (c ChanceState) Board() Board {
	return c.board
}

// Spawns yields every (probability, next decision state) pair.
func (c ChanceState) Spawns() iter.Seq2[float64, DecisionState] {
	return func(yield func(float64, DecisionState) bool) {
		for p, next := range c.board.Spawns() {
			if !yield(p, DecisionState{board: next}) {
				return
			}
		}
	}
}

// SpawnRandom draws one spawn and hands the turn back to the agent.
func (c ChanceState) SpawnRandom(rng *rand.Rand) DecisionState {
	return DecisionState{board: c.board.SpawnRandom(rng)}
}

// Evaluate scores the state with the given heuristic.
func (c ChanceState) Evaluate(e Evaluator) float64 {
	return e.Evaluate(c.board)
}
