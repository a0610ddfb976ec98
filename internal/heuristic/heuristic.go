package heuristic

import (
	"fmt"

	"github.com/vovakirdan/agent2048/internal/games/t2048"
)

// Kinds of evaluator New can build.
const (
	KindWeighted = "weighted"
	KindLua      = "lua"
)

// Config selects and parameterizes an evaluator.
type Config struct {
	Kind    string
	Weights Weights
	Script  string // Lua script path, KindLua only
}

// Named is implemented by evaluators that report a name.
type Named interface {
	Name() string
}

// Failing is implemented by evaluators that can fail while scoring.
type Failing interface {
	Err() error
}

// New builds the evaluator described by cfg.
// Callers should Close the result if it implements io.Closer.
func New(cfg Config) (t2048.Evaluator, error) {
	switch cfg.Kind {
	case "", KindWeighted:
		return NewWeighted(cfg.Weights), nil
	case KindLua:
		if cfg.Script == "" {
			return nil, fmt.Errorf("heuristic: lua evaluator needs a script path")
		}
		return NewLuaEvaluator(cfg.Script)
	default:
		return nil, fmt.Errorf("heuristic: unknown kind %q", cfg.Kind)
	}
}

// NameOf returns the evaluator's name, or "custom".
func NameOf(e t2048.Evaluator) string {
	if n, ok := e.(Named); ok {
		return n.Name()
	}
	return "custom"
}

// ErrOf returns the evaluator's pending error, if it tracks one.
func ErrOf(e t2048.Evaluator) error {
	if f, ok := e.(Failing); ok {
		return f.Err()
	}
	return nil
}
