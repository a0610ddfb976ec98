package agent

import (
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"
)

// ResolveSeed returns seed, or a fresh positive random seed when seed is 0.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return int64(frand.Uint64n(math.MaxInt64-1)) + 1
}

// NewGameID derives a short unique identifier for a game.
func NewGameID(policy string, seed int64) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s/%d/%d/%d", policy, seed, time.Now().UnixNano(), frand.Uint64n(math.MaxUint32)))
	return fmt.Sprintf("%s-%012x", policy, h>>16)
}
