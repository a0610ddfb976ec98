package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/agent2048/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func result(id, policy string, score, maxTile int) core.GameResult {
	return core.GameResult{
		GameID:         id,
		Policy:         policy,
		Heuristic:      "weighted",
		Depth:          3,
		Seed:           42,
		Score:          score,
		MaxTile:        maxTile,
		Moves:          score / 10,
		Reason:         core.EndGameOver,
		Duration:       1500 * time.Millisecond,
		MilestoneMoves: []int{12, 40, -1},
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsResults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveResult(context.Background(), result("g1", "expectimax", 1000, 128)); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("expectimax")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 1000 {
		t.Errorf("Expected high score 1000 after reopen, got %d", high)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, r := range []core.GameResult{
		result("a", "expectimax", 1000, 128),
		result("b", "expectimax", 500, 64),
		result("c", "expectimax", 2000, 256),
		result("d", "random", 300, 32),
	} {
		if _, err := store.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	entries, err := store.TopResults("expectimax", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(entries))
	}

	// Should be sorted descending
	want := []int{2000, 1000, 500}
	for i, e := range entries {
		if e.Score != want[i] {
			t.Errorf("entry %d: expected score %d, got %d", i, want[i], e.Score)
		}
	}

	top := entries[0]
	if top.GameID != "c" || top.MaxTile != 256 || top.Reason != core.EndGameOver {
		t.Errorf("unexpected top entry: %+v", top)
	}
	if top.Duration != 1500*time.Millisecond {
		t.Errorf("Expected duration 1.5s, got %v", top.Duration)
	}
	if fmt.Sprint(top.MilestoneMoves) != "[12 40 -1]" {
		t.Errorf("Expected milestones [12 40 -1], got %v", top.MilestoneMoves)
	}
	if top.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	random, err := store.TopResults("random", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(random) != 1 {
		t.Errorf("Expected 1 random result, got %d", len(random))
	}
}

func TestStoreDuplicateGameID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveResult(ctx, result("same", "greedy", 10, 8)); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	if _, err := store.SaveResult(ctx, result("same", "greedy", 20, 8)); err == nil {
		t.Error("Expected an error for a duplicate game id")
	}
}

func TestStoreTopResultsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveResult(context.Background(), result(fmt.Sprintf("g%d", i), "test", (i+1)*100, 16))
	}

	entries, err := store.TopResults("test", 3)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 results with limit, got %d", len(entries))
	}
	if entries[0].Score != 500 || entries[1].Score != 400 || entries[2].Score != 300 {
		t.Errorf("Results not in expected order: %v", entries)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("expectimax")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty policy, got %d", high)
	}

	store.SaveResult(context.Background(), result("a", "expectimax", 100, 8))
	store.SaveResult(context.Background(), result("b", "expectimax", 300, 32))

	high, err = store.HighScore("expectimax")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreResultByGameID(t *testing.T) {
	store := openTestStore(t)
	store.SaveResult(context.Background(), result("known", "greedy", 120, 16))

	e, err := store.ResultByGameID("known")
	if err != nil {
		t.Fatalf("ResultByGameID() failed: %v", err)
	}
	if e == nil || e.Score != 120 || e.Policy != "greedy" {
		t.Errorf("unexpected entry: %+v", e)
	}

	missing, err := store.ResultByGameID("unknown")
	if err != nil {
		t.Fatalf("ResultByGameID() failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for an unknown game, got %+v", missing)
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.SaveResult(ctx, result("a", "expectimax", 100, 8))
	store.SaveResult(ctx, result("b", "expectimax", 200, 16))
	store.SaveResult(ctx, result("c", "random", 300, 32))

	if err := store.ClearResults("expectimax"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	cleared, _ := store.TopResults("expectimax", 10)
	if len(cleared) != 0 {
		t.Errorf("Expected 0 expectimax results after clear, got %d", len(cleared))
	}

	kept, _ := store.TopResults("random", 10)
	if len(kept) != 1 {
		t.Errorf("Random results should not be affected by clearing expectimax")
	}
}

func TestStorePolicyStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empty, err := store.GetPolicyStats("expectimax")
	if err != nil {
		t.Fatalf("GetPolicyStats() failed: %v", err)
	}
	if empty.Games != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	store.SaveResult(ctx, result("a", "expectimax", 100, 8))
	store.SaveResult(ctx, result("b", "expectimax", 300, 32))
	store.SaveResult(ctx, result("c", "greedy", 50, 8))

	stats, err := store.GetPolicyStats("expectimax")
	if err != nil {
		t.Fatalf("GetPolicyStats() failed: %v", err)
	}
	if stats.Games != 2 || stats.HighScore != 300 || stats.BestTile != 32 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("Expected avg score 200, got %v", stats.AvgScore)
	}
	if stats.AvgMoves != 20 {
		t.Errorf("Expected avg moves 20, got %v", stats.AvgMoves)
	}

	all, err := store.GetAllPolicyStats()
	if err != nil {
		t.Fatalf("GetAllPolicyStats() failed: %v", err)
	}
	if len(all) != 2 || all["greedy"].Games != 1 || all["expectimax"].Games != 2 {
		t.Errorf("unexpected all stats: %v", all)
	}
}

func TestStoreMaxTileCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.SaveResult(ctx, result("a", "expectimax", 100, 128))
	store.SaveResult(ctx, result("b", "expectimax", 110, 128))
	store.SaveResult(ctx, result("c", "expectimax", 300, 256))

	counts, err := store.MaxTileCounts("expectimax")
	if err != nil {
		t.Fatalf("MaxTileCounts() failed: %v", err)
	}
	if counts[128] != 2 || counts[256] != 1 || len(counts) != 2 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestStoreConcurrentSaves(t *testing.T) {
	store := openTestStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.SaveResult(context.Background(), result(fmt.Sprintf("g%d", i), "bench", i, 4)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent SaveResult() failed: %v", err)
	}

	stats, err := store.GetPolicyStats("bench")
	if err != nil {
		t.Fatalf("GetPolicyStats() failed: %v", err)
	}
	if stats.Games != 16 {
		t.Errorf("Expected 16 games, got %d", stats.Games)
	}
}

func TestSaveResultCancelled(t *testing.T) {
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.SaveResult(ctx, result("x", "expectimax", 1, 2)); err == nil {
		t.Error("Expected an error for a cancelled context")
	}
}

func TestMilestoneEncoding(t *testing.T) {
	tests := []struct {
		in   []int
		want string
	}{
		{nil, ""},
		{[]int{5}, "5"},
		{[]int{1, -1, 30}, "1,-1,30"},
	}
	for _, tt := range tests {
		got := encodeMilestones(tt.in)
		if got != tt.want {
			t.Errorf("encodeMilestones(%v) = %q, want %q", tt.in, got, tt.want)
		}
		if back := decodeMilestones(got); fmt.Sprint(back) != fmt.Sprint(tt.in) {
			t.Errorf("decodeMilestones(%q) = %v, want %v", got, back, tt.in)
		}
	}
}
