package t2048

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash"
)

// Action represents a move direction.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

// Actions lists every action in canonical order.
// The order matters: searches break ties in favour of the earlier action.
var Actions = [4]Action{Up, Down, Left, Right}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

// ParseAction converts a name ("up", "Left", "r", ...) into an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("t2048: unknown action %q", s)
}

// Size is the board dimension.
const Size = 4

// Board is a 4x4 grid of tile exponents.
// 0 is an empty cell, k > 0 is the tile 2^k.
type Board [Size][Size]uint8

// Row is a single board row.
type Row [Size]uint8

// maxExponent caps merges so an exponent never wraps around to empty.
const maxExponent = 255

// TileValue returns the displayed value of exponent k (0 for an empty cell).
func TileValue(k uint8) int {
	if k == 0 {
		return 0
	}
	return 1 << k
}

// MergeLeft slides and merges a single row to the left.
func MergeLeft(row Row) Row {
	result, _ := mergeRow(row)
	return result
}

// mergeRow slides a row to the left, merging equal neighbours once.
// Returns the updated row and the score gained from merges.
func mergeRow(row Row) (result Row, score int) {
	writePos := 0
	var pending uint8 // last tile still waiting for a partner

	for _, v := range row {
		if v == 0 {
			continue
		}

		if pending == v {
			// Merge with the pending tile; the merged tile is final for this pass
			merged := v
			if merged < maxExponent {
				merged++
			}
			result[writePos] = merged
			score += TileValue(merged)
			writePos++
			pending = 0
			continue
		}

		if pending != 0 {
			result[writePos] = pending
			writePos++
		}
		pending = v
	}

	if pending != 0 {
		result[writePos] = pending
	}

	return result, score
}

// Transpose returns the board with rows and columns swapped.
func (b Board) Transpose() Board {
	var result Board
	for y := range Size {
		for x := range Size {
			result[y][x] = b[x][y]
		}
	}
	return result
}

// Mirror returns the board with every row reversed.
func (b Board) Mirror() Board {
	var result Board
	for y := range Size {
		for x := range Size {
			result[y][x] = b[y][Size-1-x]
		}
	}
	return result
}

// mergeLeftAll merges every row to the left.
func (b Board) mergeLeftAll() (Board, int) {
	var next Board
	total := 0
	for y := range Size {
		row, score := mergeRow(Row(b[y]))
		next[y] = row
		total += score
	}
	return next, total
}

// ApplyScored performs a move and also reports the score gained from merges.
// The boolean is false when the move leaves the board unchanged.
func (b Board) ApplyScored(a Action) (Board, int, bool) {
	var next Board
	var score int

	// Only merge-left is implemented; the other directions map onto it
	// through transpose/mirror and are mapped back afterwards.
	switch a {
	case Left:
		next, score = b.mergeLeftAll()
	case Right:
		next, score = b.Mirror().mergeLeftAll()
		next = next.Mirror()
	case Up:
		next, score = b.Transpose().mergeLeftAll()
		next = next.Transpose()
	case Down:
		next, score = b.Transpose().Mirror().mergeLeftAll()
		next = next.Mirror().Transpose()
	default:
		return b, 0, false
	}

	if next == b {
		return b, 0, false
	}
	return next, score, true
}

// Apply performs a move in the given direction.
// Returns the new board, or false when the move changes nothing.
func (b Board) Apply(a Action) (Board, bool) {
	next, _, ok := b.ApplyScored(a)
	return next, ok
}

// EmptyCount returns the number of empty cells.
func (b Board) EmptyCount() int {
	n := 0
	for y := range Size {
		for x := range Size {
			if b[y][x] == 0 {
				n++
			}
		}
	}
	return n
}

// HasPossibleMerge returns true if any adjacent tiles can merge.
func (b Board) HasPossibleMerge() bool {
	for y := range Size {
		for x := range Size {
			val := b[y][x]
			if val == 0 {
				continue
			}
			if x < Size-1 && b[y][x+1] == val {
				return true
			}
			if y < Size-1 && b[y+1][x] == val {
				return true
			}
		}
	}
	return false
}

// MaxExponent returns the highest exponent on the board.
func (b Board) MaxExponent() uint8 {
	var maxVal uint8
	for y := range Size {
		for x := range Size {
			if b[y][x] > maxVal {
				maxVal = b[y][x]
			}
		}
	}
	return maxVal
}

// MaxTile returns the highest displayed tile value on the board.
func (b Board) MaxTile() int {
	return TileValue(b.MaxExponent())
}

// Cells returns the exponents in row-major order.
func (b Board) Cells() [Size * Size]uint8 {
	var cells [Size * Size]uint8
	for y := range Size {
		copy(cells[y*Size:], b[y][:])
	}
	return cells
}

// Hash returns a stable 64-bit hash of the board.
func (b Board) Hash() uint64 {
	cells := b.Cells()
	return xxhash.Sum64(cells[:])
}

// String formats the board as displayed values, rows separated by "/".
// Empty cells are shown as ".".
func (b Board) String() string {
	var sb strings.Builder
	for y := range Size {
		if y > 0 {
			sb.WriteString(" / ")
		}
		for x := range Size {
			if x > 0 {
				sb.WriteByte(' ')
			}
			if b[y][x] == 0 {
				sb.WriteByte('.')
				continue
			}
			fmt.Fprintf(&sb, "%d", TileValue(b[y][x]))
		}
	}
	return sb.String()
}
