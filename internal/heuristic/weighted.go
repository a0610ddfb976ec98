// Package heuristic provides board evaluators for the search engine.
//
// Every evaluator returns a finite score where higher is better. The built-in
// weighted evaluator is non-negative and strictly positive for any board
// holding a tile, which keeps it compatible with the zero baseline used by
// the top-level selectors.
package heuristic

import (
	"github.com/vovakirdan/agent2048/internal/games/t2048"
)

// Weights are the coefficients of the weighted evaluator's features.
type Weights struct {
	Snake        float64 `yaml:"snake"`
	Empty        float64 `yaml:"empty"`
	Merges       float64 `yaml:"merges"`
	Monotonicity float64 `yaml:"monotonicity"`
	MaxTile      float64 `yaml:"max_tile"`
}

// DefaultWeights returns the weights used when no config overrides them.
func DefaultWeights() Weights {
	return Weights{
		Snake:        1.0,
		Empty:        12.0,
		Merges:       4.0,
		Monotonicity: 2.0,
		MaxTile:      4.0,
	}
}

// Weighted combines board features linearly.
type Weighted struct {
	w Weights
}

// NewWeighted creates a weighted evaluator.
func NewWeighted(w Weights) *Weighted {
	return &Weighted{w: w}
}

// Name identifies the evaluator in results and logs.
func (e *Weighted) Name() string {
	return "weighted"
}

// Evaluate returns the weighted sum of all features.
func (e *Weighted) Evaluate(b t2048.Board) float64 {
	score := 0.0
	if e.w.Snake != 0 {
		score += e.w.Snake * SnakeScore(b)
	}
	if e.w.Empty != 0 {
		score += e.w.Empty * float64(b.EmptyCount())
	}
	if e.w.Merges != 0 {
		score += e.w.Merges * float64(MergeablePairs(b))
	}
	if e.w.Monotonicity != 0 {
		score += e.w.Monotonicity * Monotonicity(b)
	}
	if e.w.MaxTile != 0 {
		score += e.w.MaxTile * float64(b.MaxExponent())
	}
	return score
}

// snakeWeights rank the cells along a serpentine path from the top-left corner.
var snakeWeights = [t2048.Size][t2048.Size]float64{
	{15, 14, 13, 12},
	{8, 9, 10, 11},
	{7, 6, 5, 4},
	{0, 1, 2, 3},
}

// snakePatterns holds the snake weights in all eight board symmetries.
var snakePatterns = buildSnakePatterns()

func buildSnakePatterns() [8][t2048.Size][t2048.Size]float64 {
	var patterns [8][t2048.Size][t2048.Size]float64
	patterns[0] = snakeWeights
	for i := 1; i < 4; i++ {
		patterns[i] = rotate(patterns[i-1])
	}
	for i := range 4 {
		patterns[i+4] = flip(patterns[i])
	}
	return patterns
}

func rotate(w [t2048.Size][t2048.Size]float64) [t2048.Size][t2048.Size]float64 {
	var result [t2048.Size][t2048.Size]float64
	for r := range t2048.Size {
		for c := range t2048.Size {
			result[c][t2048.Size-1-r] = w[r][c]
		}
	}
	return result
}

func flip(w [t2048.Size][t2048.Size]float64) [t2048.Size][t2048.Size]float64 {
	var result [t2048.Size][t2048.Size]float64
	for r := range t2048.Size {
		for c := range t2048.Size {
			result[r][t2048.Size-1-c] = w[r][c]
		}
	}
	return result
}

// SnakeScore rewards large exponents laid out along a serpentine path from a
// corner, taking the best of the eight orientations.
func SnakeScore(b t2048.Board) float64 {
	best := 0.0
	for _, pattern := range snakePatterns {
		score := 0.0
		for r := range t2048.Size {
			for c := range t2048.Size {
				score += pattern[r][c] * float64(b[r][c])
			}
		}
		if score > best {
			best = score
		}
	}
	return best
}

// MergeablePairs counts horizontally or vertically adjacent equal tiles.
func MergeablePairs(b t2048.Board) int {
	n := 0
	for r := range t2048.Size {
		for c := range t2048.Size {
			v := b[r][c]
			if v == 0 {
				continue
			}
			if c < t2048.Size-1 && b[r][c+1] == v {
				n++
			}
			if r < t2048.Size-1 && b[r+1][c] == v {
				n++
			}
		}
	}
	return n
}

// Monotonicity counts adjacent pairs that do not increase away from a corner,
// taking the best of the four corners. Ranges from 0 to 24.
func Monotonicity(b t2048.Board) float64 {
	best := 0
	for _, fromTop := range []bool{true, false} {
		for _, fromLeft := range []bool{true, false} {
			if s := monotonicityFrom(b, fromTop, fromLeft); s > best {
				best = s
			}
		}
	}
	return float64(best)
}

func monotonicityFrom(b t2048.Board, fromTop, fromLeft bool) int {
	score := 0
	last := t2048.Size - 1

	for r := range t2048.Size {
		for c := 0; c < last; c++ {
			c1, c2 := c, c+1
			if !fromLeft {
				c1, c2 = last-c, last-c-1
			}
			if b[r][c1] >= b[r][c2] {
				score++
			}
		}
	}

	for c := range t2048.Size {
		for r := 0; r < last; r++ {
			r1, r2 := r, r+1
			if !fromTop {
				r1, r2 = last-r, last-r-1
			}
			if b[r1][c] >= b[r2][c] {
				score++
			}
		}
	}

	return score
}
