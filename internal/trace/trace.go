// Package trace exports per-move game traces as zstd-compressed parquet files.
package trace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// SchemaVersion is recorded in each file's key/value metadata.
const SchemaVersion = "move_trace_v1"

// Row is one decision of one game.
//
// Cells holds the 16 board exponents in row-major order before the move.
// Action is 0=Up, 1=Down, 2=Left, 3=Right, or -1 when no move was made.
// ActionValues are the searched values in the same order; illegal or
// unsearched actions are NaN.
type Row struct {
	GameID       string    `parquet:"game_id,dict"`
	Policy       string    `parquet:"policy,dict"`
	Move         int32     `parquet:"move"`
	BoardHash    uint64    `parquet:"board_hash"`
	Cells        []byte    `parquet:"cells"`
	Action       int32     `parquet:"action"`
	ActionValues []float64 `parquet:"action_values"`
	Gain         int32     `parquet:"gain"`
	Score        int32     `parquet:"score"`
	MaxTile      int32     `parquet:"max_tile"`
	EmptyCells   int32     `parquet:"empty_cells"`
	DecisionUS   int64     `parquet:"decision_us"`
	Evals        int64     `parquet:"evals"`
	CacheHits    int64     `parquet:"cache_hits"`
}

// Writer buffers the rows of one game and writes them in one go.
// A Writer is not safe for concurrent use; give each game its own.
type Writer struct {
	path string
	rows []Row
}

// NewWriter creates a writer targeting path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// PathFor returns the trace file path for a game inside dir.
func PathFor(dir, gameID string) string {
	return filepath.Join(dir, gameID+".parquet")
}

// Path returns the destination file.
func (w *Writer) Path() string { return w.path }

// Len returns the number of buffered rows.
func (w *Writer) Len() int { return len(w.rows) }

// Add buffers a row.
func (w *Writer) Add(r Row) {
	w.rows = append(w.rows, r)
}

// Flush writes all buffered rows to a temp file and renames it into place,
// so readers never observe a partial trace. The buffer is kept on error.
func (w *Writer) Flush() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("trace: cannot create directory: %w", err)
	}

	tmpPath := w.path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, w.rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", SchemaVersion),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("trace: cannot write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("trace: cannot rename parquet: %w", err)
	}

	w.rows = w.rows[:0]
	return nil
}

// Read loads every row of a trace file.
func Read(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot read %s: %w", path, err)
	}
	return rows, nil
}
