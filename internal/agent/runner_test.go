package agent

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/agent2048/internal/core"
	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/heuristic"
	"github.com/vovakirdan/agent2048/internal/logging"
	"github.com/vovakirdan/agent2048/internal/search"
	"github.com/vovakirdan/agent2048/internal/trace"
)

// stubPolicy answers every decision with a fixed reply.
type stubPolicy struct {
	action t2048.Action
	ok     bool
}

func (p stubPolicy) ID() string    { return "stub" }
func (p stubPolicy) Title() string { return "Stub" }
func (p stubPolicy) SelectAction(context.Context, t2048.DecisionState) (t2048.Action, bool) {
	return p.action, p.ok
}

func greedyRunner(seed int64, maxMoves int) *Runner {
	eval := heuristic.NewWeighted(heuristic.DefaultWeights())
	return &Runner{
		Policy:    search.NewGreedy(eval, 0),
		Evaluator: eval,
		Config:    core.RuntimeConfig{Seed: seed, MaxMoves: maxMoves},
		Logger:    logging.Discard(),
	}
}

func TestPlayUntilGameOver(t *testing.T) {
	res, err := greedyRunner(1, 0).Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.EndGameOver, res.Reason)
	assert.Greater(t, res.Moves, 0)
	assert.Greater(t, res.Score, 0)
	assert.GreaterOrEqual(t, res.MaxTile, 4)
	assert.Equal(t, "greedy", res.Policy)
	assert.Equal(t, "weighted", res.Heuristic)
	assert.Equal(t, int64(1), res.Seed)
	assert.Len(t, res.MilestoneMoves, t2048.MilestoneCount())
	assert.True(t, strings.HasPrefix(res.GameID, "greedy-"))
}

func TestPlayIsDeterministicForSeed(t *testing.T) {
	a, err := greedyRunner(99, 60).Play(context.Background())
	require.NoError(t, err)
	b, err := greedyRunner(99, 60).Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Moves, b.Moves)
	assert.Equal(t, a.MaxTile, b.MaxTile)
}

func TestPlayMaxMoves(t *testing.T) {
	res, err := greedyRunner(5, 10).Play(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.EndMaxMoves, res.Reason)
	assert.Equal(t, 10, res.Moves)
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := greedyRunner(5, 0).Play(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.EndCancelled, res.Reason)
	assert.Equal(t, 0, res.Moves)
}

func TestPlayNoAction(t *testing.T) {
	r := &Runner{
		Policy: stubPolicy{ok: false},
		Config: core.RuntimeConfig{Seed: 3},
		Logger: logging.Discard(),
	}
	res, err := r.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.EndNoAction, res.Reason)
	assert.Equal(t, 0, res.Moves)
	assert.Equal(t, "none", res.Heuristic)
}

func TestPlayIllegalActionIsAnError(t *testing.T) {
	r := &Runner{
		Policy: stubPolicy{action: t2048.Action(9), ok: true},
		Config: core.RuntimeConfig{Seed: 3},
		Logger: logging.Discard(),
	}
	_, err := r.Play(context.Background())
	assert.Error(t, err)
}

func TestPlayHeuristicFailure(t *testing.T) {
	// Fails as soon as any board holds a 4
	eval, err := heuristic.NewLuaEvaluatorString(`
function evaluate(cells)
  for i = 1, 16 do
    if cells[i] >= 2 then error("tile too big") end
  end
  return 1
end
`)
	require.NoError(t, err)
	defer eval.Close()

	r := &Runner{
		Policy:    search.NewGreedy(eval, 0),
		Evaluator: eval,
		Config:    core.RuntimeConfig{Seed: 11},
		Logger:    logging.Discard(),
	}
	_, err = r.Play(context.Background())
	assert.Error(t, err)
}

func TestPlayRecordsTraceAndMoves(t *testing.T) {
	path := trace.PathFor(t.TempDir(), "g")
	w := trace.NewWriter(path)

	var infos []MoveInfo
	r := greedyRunner(8, 5)
	r.GameID = "g"
	r.Trace = w
	r.OnMove = func(m MoveInfo) { infos = append(infos, m) }

	res, err := r.Play(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, res.Moves)
	require.Len(t, infos, 5)
	assert.Equal(t, 1, infos[0].Move)
	assert.Equal(t, res.Score, infos[4].Score)
	assert.Equal(t, 4, infos[2].Stats.Evals+countIllegal(infos[2].Before))

	require.Equal(t, 5, w.Len())
	require.NoError(t, w.Flush())

	rows, err := trace.Read(filepath.Clean(path))
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i, row := range rows {
		assert.Equal(t, "g", row.GameID)
		assert.Equal(t, int32(i), row.Move)
		assert.Len(t, row.Cells, 16)
		assert.False(t, math.IsNaN(row.ActionValues[row.Action]), "chosen action must have a value")
	}
}

func countIllegal(b t2048.Board) int {
	return 4 - len(t2048.NewDecisionState(b).LegalActions())
}

func TestPlayWithExpectimax(t *testing.T) {
	eval := heuristic.NewWeighted(heuristic.DefaultWeights())
	r := &Runner{
		Policy:    search.NewExpectimax(eval, search.Options{Depth: 2}),
		Evaluator: eval,
		Config:    core.RuntimeConfig{Seed: 21, MaxMoves: 30},
		Logger:    logging.Discard(),
	}
	res, err := r.Play(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Depth)
	assert.Equal(t, 30, res.Moves)
}

func TestResolveSeed(t *testing.T) {
	assert.Equal(t, int64(7), ResolveSeed(7))
	assert.Equal(t, int64(-7), ResolveSeed(-7))
	for i := 0; i < 100; i++ {
		assert.Greater(t, ResolveSeed(0), int64(0))
	}
}

func TestNewGameIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewGameID("expectimax", 1)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		assert.True(t, strings.HasPrefix(id, "expectimax-"))
	}
}
