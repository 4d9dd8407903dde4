// Package scripting provides sandboxed GopherLua VMs for content hooks such
// as AI method preconditions. It has no dependency on the battle packages;
// game state reaches scripts through a Lookup supplied per call.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget used when none is configured.
const DefaultInstructionLimit = 100_000

// countingContext cancels itself after Done has been called limit times.
// GopherLua's main loop calls Done once per opcode.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

func newCountingContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

// NewSandboxedState creates a GopherLua LState with:
//   - only base, table, string and math opened
//   - dofile, loadfile, load, collectgarbage and require removed
//   - at most instLimit opcodes before the running chunk is aborted
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: The caller owns L and must call cancel and L.Close when done.
func NewSandboxedState(instLimit int) (L *lua.LState, cancel context.CancelFunc) {
	L = lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L, ResetBudget(L, instLimit)
}

// ResetBudget gives L a fresh budget of instLimit opcodes. A budget is spent
// across every chunk run on L until it is reset again.
//
// Postcondition: the returned cancel releases the budget's context.
func ResetBudget(L *lua.LState, instLimit int) context.CancelFunc {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	ctx, cancel := newCountingContext(instLimit)
	L.SetContext(ctx)
	return cancel
}
