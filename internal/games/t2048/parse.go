package t2048

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ParseBoard reads a board of exponents written row by row.
// Rows are separated by "/" or newlines, cells by spaces or commas:
//
//	"1 2 1 0 / 4 1 0 0 / 3 0 0 0 / 0 0 0 0"
func ParseBoard(s string) (Board, error) {
	return parseGrid(s, func(cell string) (uint8, error) {
		v, err := strconv.ParseUint(cell, 10, 8)
		return uint8(v), err
	})
}

// ParseValueBoard is ParseBoard for displayed tile values, the format
// Board.String produces: "2 4 . . / 8 2 . . / 4 . . . / . . . .".
func ParseValueBoard(s string) (Board, error) {
	return parseGrid(s, func(cell string) (uint8, error) {
		v, err := strconv.ParseUint(cell, 10, 64)
		if err != nil {
			return 0, err
		}
		if v == 0 {
			return 0, nil
		}
		if v < 2 || v&(v-1) != 0 {
			return 0, fmt.Errorf("%d is not a tile value", v)
		}
		return uint8(bits.TrailingZeros64(v)), nil
	})
}

func parseGrid(s string, parseCell func(string) (uint8, error)) (Board, error) {
	var b Board

	rows := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '\n' || r == ';'
	})
	if len(rows) != Size {
		return b, fmt.Errorf("t2048: board needs %d rows, got %d", Size, len(rows))
	}

	for y, row := range rows {
		cells := strings.FieldsFunc(row, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t'
		})
		if len(cells) != Size {
			return b, fmt.Errorf("t2048: row %d needs %d cells, got %d", y+1, Size, len(cells))
		}
		for x, cell := range cells {
			if cell == "." {
				continue
			}
			v, err := parseCell(cell)
			if err != nil {
				return b, fmt.Errorf("t2048: row %d cell %d: %w", y+1, x+1, err)
			}
			b[y][x] = v
		}
	}

	return b, nil
}
