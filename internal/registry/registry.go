// Package registry provides a global registry for policy factories.
// Policies register themselves in init() functions, allowing the CLI
// to discover and instantiate them by name without hardcoded dependencies.
package registry

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/agent2048/internal/games/t2048"
)

// Policy is the interface every move-selection strategy implements.
type Policy interface {
	// ID returns a unique identifier (e.g., "expectimax", "greedy").
	// Used for CLI flags and result storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// SelectAction picks the action to play on s. It returns false when no
	// action is chosen, which the caller treats as the end of the game.
	// Any returned action is legal on s.
	SelectAction(ctx context.Context, s t2048.DecisionState) (t2048.Action, bool)
}

// Env carries what a factory may need to build a policy.
// Each game gets its own Env; nothing in it is shared between games.
type Env struct {
	Evaluator       t2048.Evaluator
	Rand            *rand.Rand
	Depth           int
	Baseline        float64 // best score a top-level action must beat
	MaxCacheEntries int
	Logger          *log.Logger
}

// PolicyInfo contains metadata about a registered policy.
type PolicyInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a policy.
type Factory func(env Env) Policy

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a policy factory to the registry.
// Typically called from a package's init() function.
// Panics if a policy with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: policy %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	p := f(Env{})
	titles[id] = p.Title()
}

// List returns information about all registered policies, sorted by ID.
func List() []PolicyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PolicyInfo, 0, len(factories))
	for id := range factories {
		result = append(result, PolicyInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new policy by its ID.
// Returns an error if the policy ID is not registered.
func Create(id string, env Env) (Policy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown policy %q", id)
	}

	return f(env), nil
}

// Exists checks if a policy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
