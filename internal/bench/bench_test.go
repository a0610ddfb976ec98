package bench

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/agent2048/internal/core"
	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/heuristic"
	"github.com/vovakirdan/agent2048/internal/logging"
	"github.com/vovakirdan/agent2048/internal/registry"
	"github.com/vovakirdan/agent2048/internal/search"
	"github.com/vovakirdan/agent2048/internal/storage"
)

func greedyFactory(int64) (registry.Policy, t2048.Evaluator, func(), error) {
	eval := heuristic.NewWeighted(heuristic.DefaultWeights())
	return search.NewGreedy(eval, 0), eval, nil, nil
}

func milestones(reached int) []int {
	m := make([]int, t2048.MilestoneCount())
	for i := range m {
		if i < reached {
			m[i] = 10 * (i + 1)
		} else {
			m[i] = -1
		}
	}
	return m
}

func TestSummarize(t *testing.T) {
	results := []core.GameResult{
		{Score: 100, MaxTile: 8, Moves: 10, Reason: core.EndGameOver, MilestoneMoves: milestones(0)},
		{Score: 300, MaxTile: 128, Moves: 30, Reason: core.EndGameOver, MilestoneMoves: milestones(1)},
		{Score: 200, MaxTile: 128, Moves: 20, Reason: core.EndMaxMoves, MilestoneMoves: milestones(1)},
		{Score: 9999, MaxTile: 1024, Moves: 99, Reason: core.EndCancelled, MilestoneMoves: milestones(4)},
	}

	s := Summarize(results)
	assert.Equal(t, 3, s.Games)
	assert.Equal(t, 1, s.Cancelled)
	assert.InDelta(t, 200.0, s.MeanScore, 1e-9)
	assert.InDelta(t, 100.0, s.StdScore, 1e-9)
	assert.InDelta(t, 200.0, s.MedianScore, 1e-9)
	assert.InDelta(t, 248.41, s.CI95, 0.01)
	assert.Equal(t, 100, s.MinScore)
	assert.Equal(t, 300, s.MaxScore)
	assert.InDelta(t, 20.0, s.MeanMoves, 1e-9)
	assert.Equal(t, map[int]int{8: 1, 128: 2}, s.TileCounts)

	require.Len(t, s.MilestoneRates, t2048.MilestoneCount())
	assert.InDelta(t, 2.0/3.0, s.MilestoneRates[0], 1e-9)
	assert.Equal(t, 0.0, s.MilestoneRates[1])
}

func TestSummarizeSingleAndEmpty(t *testing.T) {
	one := Summarize([]core.GameResult{{Score: 50, MaxTile: 16, Moves: 5, Reason: core.EndGameOver}})
	assert.Equal(t, 1, one.Games)
	assert.Equal(t, 50.0, one.MeanScore)
	assert.Equal(t, 0.0, one.StdScore)
	assert.Equal(t, 0.0, one.CI95)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Games)

	var buf bytes.Buffer
	require.NoError(t, empty.Fprint(&buf))
	assert.Contains(t, buf.String(), "No finished games.")
}

func TestSummaryFprint(t *testing.T) {
	s := Summarize([]core.GameResult{
		{Score: 100, MaxTile: 8, Reason: core.EndGameOver, MilestoneMoves: milestones(0)},
		{Score: 400, MaxTile: 128, Reason: core.EndGameOver, MilestoneMoves: milestones(1)},
		{Score: 250, MaxTile: 16, Reason: core.EndGameOver, MilestoneMoves: milestones(0)},
	})

	var buf bytes.Buffer
	require.NoError(t, s.Fprint(&buf))
	out := buf.String()

	assert.Contains(t, out, "Games:    3")
	assert.Contains(t, out, "Warm-up")
	assert.Contains(t, out, "Score distribution:")
	assert.Contains(t, out, "max 400")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.Open(filepath.Join(dir, "results.db"))
	require.NoError(t, err)
	defer store.Close()

	traceDir := filepath.Join(dir, "traces")
	sum, err := Run(context.Background(), Config{
		Games:    4,
		Workers:  2,
		Seed:     100,
		MaxMoves: 20,
		Factory:  greedyFactory,
		Store:    store,
		TraceDir: traceDir,
		Logger:   logging.Discard(),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Games)
	assert.Equal(t, int64(100), sum.BaseSeed)
	assert.Greater(t, sum.MeanScore, 0.0)
	assert.InDelta(t, 20.0, sum.MeanMoves, 1e-9)

	stats, err := store.GetPolicyStats("greedy")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Games)

	entries, err := store.TopResults("greedy", 10)
	require.NoError(t, err)
	seeds := make([]int, 0, len(entries))
	for _, e := range entries {
		seeds = append(seeds, int(e.Seed))
	}
	sort.Ints(seeds)
	assert.Equal(t, []int{100, 101, 102, 103}, seeds)

	files, err := os.ReadDir(traceDir)
	require.NoError(t, err)
	assert.Len(t, files, 4)
}

func TestRunFactoryError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), Config{
		Games:   3,
		Workers: 1,
		Factory: func(int64) (registry.Policy, t2048.Evaluator, func(), error) {
			return nil, nil, nil, boom
		},
		Logger: logging.Discard(),
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunValidates(t *testing.T) {
	_, err := Run(context.Background(), Config{Games: 1})
	assert.Error(t, err)

	_, err = Run(context.Background(), Config{Games: 0, Factory: greedyFactory})
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := Run(ctx, Config{Games: 3, Workers: 1, Factory: greedyFactory, Logger: logging.Discard()})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Games)
}

func TestRunCallsCleanup(t *testing.T) {
	var cleaned int
	_, err := Run(context.Background(), Config{
		Games:    3,
		Workers:  1,
		MaxMoves: 3,
		Factory: func(seed int64) (registry.Policy, t2048.Evaluator, func(), error) {
			p, eval, _, err := greedyFactory(seed)
			return p, eval, func() { cleaned++ }, err
		},
		Logger: logging.Discard(),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cleaned)
}
