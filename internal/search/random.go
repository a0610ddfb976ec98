package search

import (
	"context"
	"math/rand"

	"github.com/vovakirdan/agent2048/internal/games/t2048"
	"github.com/vovakirdan/agent2048/internal/registry"
)

// Random plays a uniformly chosen legal action.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy. A nil rng falls back to a fixed seed.
func NewRandom(rng *rand.Rand) *Random {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Random{rng: rng}
}

func (r *Random) ID() string    { return "random" }
func (r *Random) Title() string { return "Random legal move" }

func (r *Random) SelectAction(_ context.Context, s t2048.DecisionState) (t2048.Action, bool) {
	legal := s.LegalActions()
	if len(legal) == 0 {
		return 0, false
	}
	return legal[r.rng.Intn(len(legal))], true
}

func init() {
	registry.Register("random", func(env registry.Env) registry.Policy {
		return NewRandom(env.Rand)
	})
}
