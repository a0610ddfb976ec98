package heuristic

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/agent2048/internal/games/t2048"
)

// luaEntryPoint is the global function a script must define.
// It receives a 16-element array of exponents in row-major order (1-indexed)
// and returns a number.
const luaEntryPoint = "evaluate"

// LuaEvaluator scores boards by calling a Lua function.
// A LuaEvaluator owns its interpreter and is not safe for concurrent use.
type LuaEvaluator struct {
	L     *lua.LState
	fn    lua.LValue
	cells *lua.LTable
	err   error
}

// NewLuaEvaluator loads a script file defining `evaluate(cells)`.
func NewLuaEvaluator(path string) (*LuaEvaluator, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("heuristic: cannot load script %s: %w", path, err)
	}
	return newLuaEvaluator(L)
}

// NewLuaEvaluatorString is NewLuaEvaluator for an in-memory script.
func NewLuaEvaluatorString(src string) (*LuaEvaluator, error) {
	L := lua.NewState()
	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("heuristic: cannot load script: %w", err)
	}
	return newLuaEvaluator(L)
}

func newLuaEvaluator(L *lua.LState) (*LuaEvaluator, error) {
	fn := L.GetGlobal(luaEntryPoint)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("heuristic: script does not define function %q", luaEntryPoint)
	}

	L.SetGlobal("board_size", lua.LNumber(t2048.Size))

	e := &LuaEvaluator{
		L:     L,
		fn:    fn,
		cells: L.CreateTable(t2048.Size*t2048.Size, 0),
	}

	// Fail early on scripts that cannot score the simplest board
	e.Evaluate(t2048.Board{})
	if e.err != nil {
		err := e.err
		L.Close()
		return nil, err
	}

	return e, nil
}

// Name identifies the evaluator in results and logs.
func (e *LuaEvaluator) Name() string {
	return "lua"
}

// Evaluate calls the script. A script error or a non-finite result scores 0
// and is kept for Err.
func (e *LuaEvaluator) Evaluate(b t2048.Board) float64 {
	cells := b.Cells()
	for i, v := range cells {
		e.cells.RawSetInt(i+1, lua.LNumber(v))
	}

	if err := e.L.CallByParam(lua.P{
		Fn:      e.fn,
		NRet:    1,
		Protect: true,
	}, e.cells); err != nil {
		e.setErr(fmt.Errorf("heuristic: script failed: %w", err))
		return 0
	}

	ret := e.L.Get(-1)
	e.L.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		e.setErr(fmt.Errorf("heuristic: script returned %s, want number", ret.Type()))
		return 0
	}

	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.setErr(fmt.Errorf("heuristic: script returned non-finite %v", v))
		return 0
	}
	return v
}

func (e *LuaEvaluator) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}

// Err returns the first evaluation error, if any.
func (e *LuaEvaluator) Err() error {
	return e.err
}

// Close releases the interpreter.
func (e *LuaEvaluator) Close() error {
	e.L.Close()
	return nil
}
