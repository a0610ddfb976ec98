package bench

import (
	"fmt"
	"io"
	"math"
	"slices"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/vovakirdan/agent2048/internal/core"
	"github.com/vovakirdan/agent2048/internal/games/t2048"
)

// Summary aggregates finished games. Cancelled games are counted but left
// out of every statistic.
type Summary struct {
	Games     int
	Cancelled int

	MeanScore   float64
	StdScore    float64
	CI95        float64 // half-width of the 95% confidence interval of MeanScore
	MedianScore float64
	MinScore    int
	MaxScore    int
	MeanMoves   float64

	TileCounts     map[int]int // final max tile -> games
	MilestoneRates []float64   // per t2048.Milestones, fraction of games reaching it

	Scores   []float64 // per counted game, in result order
	BaseSeed int64
	Elapsed  time.Duration
}

// Summarize computes statistics over results.
func Summarize(results []core.GameResult) Summary {
	counted := lo.Filter(results, func(r core.GameResult, _ int) bool {
		return r.Reason != core.EndCancelled
	})

	s := Summary{
		Games:          len(counted),
		Cancelled:      len(results) - len(counted),
		TileCounts:     lo.CountValues(lo.Map(counted, func(r core.GameResult, _ int) int { return r.MaxTile })),
		MilestoneRates: make([]float64, t2048.MilestoneCount()),
	}
	if len(counted) == 0 {
		return s
	}

	s.Scores = lo.Map(counted, func(r core.GameResult, _ int) float64 { return float64(r.Score) })
	s.MeanScore, s.StdScore = stat.MeanStdDev(s.Scores, nil)
	if len(counted) < 2 {
		s.StdScore = 0
	} else {
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(len(counted) - 1)}
		s.CI95 = t.Quantile(0.975) * s.StdScore / math.Sqrt(float64(len(counted)))
	}

	sorted := slices.Clone(s.Scores)
	slices.Sort(sorted)
	s.MedianScore = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.MinScore = int(sorted[0])
	s.MaxScore = int(sorted[len(sorted)-1])

	s.MeanMoves = float64(lo.SumBy(counted, func(r core.GameResult) int { return r.Moves })) / float64(len(counted))

	for i := range s.MilestoneRates {
		reached := lo.CountBy(counted, func(r core.GameResult) bool {
			return i < len(r.MilestoneMoves) && r.MilestoneMoves[i] >= 0
		})
		s.MilestoneRates[i] = float64(reached) / float64(len(counted))
	}

	return s
}

// Fprint writes a human-readable report, including a score histogram.
func (s Summary) Fprint(w io.Writer) error {
	fmt.Fprintf(w, "Games:    %d", s.Games)
	if s.Cancelled > 0 {
		fmt.Fprintf(w, " (%d cancelled)", s.Cancelled)
	}
	fmt.Fprintln(w)
	if s.Elapsed > 0 {
		fmt.Fprintf(w, "Elapsed:  %s\n", s.Elapsed.Round(time.Millisecond))
	}
	if s.Games == 0 {
		fmt.Fprintln(w, "No finished games.")
		return nil
	}

	fmt.Fprintf(w, "Score:    mean %.1f ± %.1f  sd %.1f  median %.0f  min %d  max %d\n",
		s.MeanScore, s.CI95, s.StdScore, s.MedianScore, s.MinScore, s.MaxScore)
	fmt.Fprintf(w, "Moves:    mean %.1f\n", s.MeanMoves)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-8s  %-6s  %s\n", "Max tile", "Games", "Share")
	fmt.Fprintf(w, "  %-8s  %-6s  %s\n", "--------", "-----", "-----")
	tiles := lo.Keys(s.TileCounts)
	slices.Sort(tiles)
	slices.Reverse(tiles)
	for _, tile := range tiles {
		n := s.TileCounts[tile]
		fmt.Fprintf(w, "  %-8d  %-6d  %5.1f%%\n", tile, n, 100*float64(n)/float64(s.Games))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-8s  %-18s  %s\n", "Tile", "Milestone", "Reached")
	fmt.Fprintf(w, "  %-8s  %-18s  %s\n", "----", "---------", "-------")
	for i, m := range t2048.Milestones {
		fmt.Fprintf(w, "  %-8d  %-18s  %5.1f%%\n", m.Target(), m.Name, 100*s.MilestoneRates[i])
	}

	if s.MaxScore > s.MinScore {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Score distribution:")
		bins := min(10, len(s.Scores))
		if err := histogram.Fprint(w, histogram.Hist(bins, s.Scores), histogram.Linear(40)); err != nil {
			return fmt.Errorf("bench: cannot print histogram: %w", err)
		}
	}

	return nil
}
