// Package storage provides SQLite-based persistence for finished game results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"modernc.org/sqlite" // Pure Go SQLite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vovakirdan/agent2048/internal/core"
)

// Store manages the SQLite database connection for result persistence.
// It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// ResultEntry is a stored game result.
type ResultEntry struct {
	ID int64
	core.GameResult
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// One writer at a time; concurrent games queue here instead of failing
	// with SQLITE_BUSY
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL UNIQUE,
			policy TEXT NOT NULL,
			heuristic TEXT NOT NULL,
			depth INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL,
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			end_reason TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			milestones TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_policy ON results(policy);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(policy, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records a finished game. Writes that hit a locked database are
// retried until ctx is done.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(ctx context.Context, r core.GameResult) (int64, error) {
	id, err := retry.DoWithData(
		func() (int64, error) {
			res, err := s.db.ExecContext(ctx,
				`INSERT INTO results
				 (game_id, policy, heuristic, depth, seed, score, max_tile, moves, end_reason, duration_ms, milestones)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				r.GameID,
				r.Policy,
				r.Heuristic,
				r.Depth,
				r.Seed,
				r.Score,
				r.MaxTile,
				r.Moves,
				string(r.Reason),
				r.Duration.Milliseconds(),
				encodeMilestones(r.MilestoneMoves),
			)
			if err != nil {
				return 0, err
			}
			return res.LastInsertId()
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(25*time.Millisecond),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}
	return id, nil
}

// isBusy reports whether err is a transient lock error.
func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

const resultColumns = `id, game_id, policy, heuristic, depth, seed, score, max_tile, moves,
	end_reason, duration_ms, milestones, created_at`

// TopResults retrieves the top N results for the given policy.
// Results are ordered by score descending.
func (s *Store) TopResults(policy string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE policy = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		policy, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// ResultByGameID retrieves one result. Returns nil if it does not exist.
func (s *Store) ResultByGameID(gameID string) (*ResultEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+resultColumns+` FROM results WHERE game_id = ?`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query result: %w", err)
	}
	defer rows.Close()

	entries, err := scanResults(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func scanResults(rows *sql.Rows) ([]ResultEntry, error) {
	var entries []ResultEntry
	for rows.Next() {
		var e ResultEntry
		var reason, milestones string
		var durationMS int64
		var createdAt any
		if err := rows.Scan(
			&e.ID,
			&e.GameID,
			&e.Policy,
			&e.Heuristic,
			&e.Depth,
			&e.Seed,
			&e.Score,
			&e.MaxTile,
			&e.Moves,
			&reason,
			&durationMS,
			&milestones,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		e.Reason = core.EndReason(reason)
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.MilestoneMoves = decodeMilestones(milestones)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given policy.
// Returns 0 if no results exist.
func (s *Store) HighScore(policy string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM results WHERE policy = ?",
		policy,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// MaxTileCounts returns how many games of the policy ended with each max tile.
func (s *Store) MaxTileCounts(policy string) (map[int]int, error) {
	rows, err := s.db.Query(
		`SELECT max_tile, COUNT(*) FROM results WHERE policy = ? GROUP BY max_tile`,
		policy,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query tile counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var tile, n int
		if err := rows.Scan(&tile, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		counts[tile] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return counts, nil
}

// ClearResults deletes all results for the given policy.
func (s *Store) ClearResults(policy string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE policy = ?", policy)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// PolicyStats contains aggregated statistics for a policy.
type PolicyStats struct {
	Policy     string
	Games      int
	HighScore  int
	AvgScore   float64
	BestTile   int
	AvgMoves   float64
	LastPlayed time.Time
}

// GetPolicyStats retrieves aggregated statistics for a specific policy.
func (s *Store) GetPolicyStats(policy string) (*PolicyStats, error) {
	stats := &PolicyStats{Policy: policy}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(MAX(max_tile), 0), COALESCE(AVG(moves), 0), MAX(created_at)
		 FROM results WHERE policy = ?`,
		policy,
	).Scan(&stats.Games, &stats.HighScore, &stats.AvgScore, &stats.BestTile, &stats.AvgMoves, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get policy stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllPolicyStats retrieves statistics for every policy that has results.
func (s *Store) GetAllPolicyStats() (map[string]*PolicyStats, error) {
	rows, err := s.db.Query(
		`SELECT policy, COUNT(*), MAX(score), AVG(score), MAX(max_tile), AVG(moves), MAX(created_at)
		 FROM results
		 GROUP BY policy`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all policy stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*PolicyStats)
	for rows.Next() {
		var ps PolicyStats
		var lastPlayed any
		if err := rows.Scan(&ps.Policy, &ps.Games, &ps.HighScore, &ps.AvgScore, &ps.BestTile, &ps.AvgMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.LastPlayed = parseTime(lastPlayed)
		stats[ps.Policy] = &ps
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func encodeMilestones(moves []int) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}

func decodeMilestones(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	moves := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = -1
		}
		moves = append(moves, n)
	}
	return moves
}
