package t2048

import (
	"iter"
	"math/rand"
)

// Spawn distribution: a "2" (exponent 1) 90% of the time, a "4" otherwise.
const (
	Spawn2Prob = 0.9
	Spawn4Prob = 0.1
)

var spawnOutcomes = [2]struct {
	exp  uint8
	prob float64
}{
	{exp: 1, prob: Spawn2Prob},
	{exp: 2, prob: Spawn4Prob},
}

// SpawnRandom places a 2 or a 4 on a uniformly chosen empty cell.
// The board must have at least one empty cell; callers check terminality first.
func (b Board) SpawnRandom(rng *rand.Rand) Board {
	empty := b.EmptyCount()
	if empty == 0 {
		panic("t2048: SpawnRandom called on a full board")
	}

	picked := rng.Intn(empty)

	value := uint8(1)
	if rng.Float64() >= Spawn2Prob {
		value = 2
	}

	next := b
	for y := range Size {
		for x := range Size {
			if next[y][x] != 0 {
				continue
			}
			if picked == 0 {
				next[y][x] = value
				return next
			}
			picked--
		}
	}
	return next
}

// Spawns yields every board reachable by a single spawn together with its
// probability. Cells are visited in row-major order, a 2 before a 4.
// Probabilities sum to 1 when at least one cell is empty; a full board yields nothing.
func (b Board) Spawns() iter.Seq2[float64, Board] {
	return func(yield func(float64, Board) bool) {
		empty := b.EmptyCount()
		if empty == 0 {
			return
		}
		n := float64(empty)

		for y := range Size {
			for x := range Size {
				if b[y][x] != 0 {
					continue
				}
				for _, out := range spawnOutcomes {
					next := b
					next[y][x] = out.exp
					if !yield(out.prob/n, next) {
						return
					}
				}
			}
		}
	}
}
