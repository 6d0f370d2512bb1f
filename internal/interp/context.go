package interp

import (
	"math/rand"

	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
	"github.com/writewhisker/whisker-script/internal/whisker"
)

// ExecutionContext is the mutable state of a single string-interpreter
// instance (§3, §4.2). It is intentionally independent of any other
// ExecutionContext: the teacher's `getLuaEngine()` singleton convenience
// (§9) is deliberately not reproduced — callers construct one context per
// session via NewExecutionContext.
type ExecutionContext struct {
	Globals    map[string]value.Value
	Functions  map[string]*value.Func
	Output     []string
	Errors     []interperr.Located
	Metatables map[*value.Table]value.Value

	locals   []map[string]value.Value
	rng      *rand.Rand
	rngSeed  int64
	callTree []string // names of functions currently on the Go call stack, for diagnostics

	// RC is the host-owned RuntimeContext backing whisker.* calls. It is
	// nil for a bare interpreter with no host session attached, in which
	// case whisker.* calls fail with a NameError.
	RC whisker.RuntimeContext

	// MaxLoopIterations and MaxCallDepth default to the package constants
	// below but are per-context so the CLI's persistent flags (§A.3) can
	// override them without any global mutable state.
	MaxLoopIterations int
	MaxCallDepth      int

	// Trace, when set, is invoked before each statement dispatch (the
	// CLI's --trace flag, §C).
	Trace func(stmt Statement)
}

// DefaultMaxLoopIterations bounds while/repeat/for loops (§4.5, §5) unless
// overridden on the ExecutionContext: exceeding it is a fatal
// IterationCapExceeded error.
const DefaultMaxLoopIterations = 10000

// DefaultMaxCallDepth bounds recursive user-function calls (§4.5, §7's
// CallDepthExceeded) unless overridden on the ExecutionContext.
const DefaultMaxCallDepth = 200

// SetRuntimeContext attaches the host's RuntimeContext, enabling whisker.*
// calls from interpreted source.
func (c *ExecutionContext) SetRuntimeContext(rc whisker.RuntimeContext) {
	c.RC = rc
}

// NewExecutionContext creates a fresh, independent execution context with
// the standard library already registered.
func NewExecutionContext() *ExecutionContext {
	ctx := &ExecutionContext{
		Globals:           make(map[string]value.Value),
		Functions:         make(map[string]*value.Func),
		Metatables:        make(map[*value.Table]value.Value),
		rng:               rand.New(rand.NewSource(1)),
		rngSeed:           1,
		MaxLoopIterations: DefaultMaxLoopIterations,
		MaxCallDepth:      DefaultMaxCallDepth,
	}
	return ctx
}

// PushLocalScope opens a new local scope, used on function-call prologue
// and by generic-for loops (§4.2).
func (c *ExecutionContext) PushLocalScope() {
	c.locals = append(c.locals, make(map[string]value.Value))
}

// PopLocalScope closes the innermost local scope. Callers must pop even
// when the scope's body errored, so that unwinding is structured (§4.2).
func (c *ExecutionContext) PopLocalScope() {
	if len(c.locals) == 0 {
		return
	}
	c.locals = c.locals[:len(c.locals)-1]
}

// DeclareLocal creates a fresh binding for name in the topmost local
// scope, creating one if none exists (the `local x = e` statement, §4.2).
func (c *ExecutionContext) DeclareLocal(name string, v value.Value) {
	if len(c.locals) == 0 {
		c.PushLocalScope()
	}
	c.locals[len(c.locals)-1][name] = v
}

// Lookup resolves name from the innermost local scope outward, then
// globals (§4.2).
func (c *ExecutionContext) Lookup(name string) (value.Value, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if v, ok := c.locals[i][name]; ok {
			return v, true
		}
	}
	if v, ok := c.Globals[name]; ok {
		return v, true
	}
	return nil, false
}

// Assign writes into whichever scope already holds name; if none does, it
// writes globals (§4.2's plain-assignment rule).
func (c *ExecutionContext) Assign(name string, v value.Value) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if _, ok := c.locals[i][name]; ok {
			c.locals[i][name] = v
			return
		}
	}
	c.Globals[name] = v
}

// LookupFunction resolves a callable by name: locals/globals first (a
// variable may hold a function value), then the Functions registry (named
// top-level definitions and built-ins).
func (c *ExecutionContext) LookupFunction(name string) (*value.Func, bool) {
	if v, ok := c.Lookup(name); ok {
		if fn, ok := v.(*value.Func); ok {
			return fn, true
		}
	}
	if fn, ok := c.Functions[name]; ok {
		return fn, true
	}
	return nil, false
}

// Print appends the TAB-joined stringification of args to Output (§4.6).
func (c *ExecutionContext) Print(args []value.Value) {
	c.Output = append(c.Output, value.JoinTabbed(args))
}

// RecordError appends a per-statement error to Errors; the caller decides
// whether execution continues (recoverable) or the whole call unwinds
// (fatal), per §7's propagation policy.
func (c *ExecutionContext) RecordError(err *interperr.Error, stmt string, line int) {
	c.Errors = append(c.Errors, interperr.Located{
		Err:  err.WithStatement(stmt),
		Pos:  interperr.Position{Line: line},
		Line: stmt,
	})
}

// Success reports whether no errors have been recorded (§7).
func (c *ExecutionContext) Success() bool {
	return len(c.Errors) == 0
}

// RandSeed mutates only this context's RNG seed (§9's per-context RNG
// design note: no global mutable RNG).
func (c *ExecutionContext) RandSeed(seed int64) {
	c.rngSeed = seed
	c.rng = rand.New(rand.NewSource(seed))
}

// RandFloat64 returns a uniform float in [0,1) from this context's RNG.
func (c *ExecutionContext) RandFloat64() float64 {
	return c.rng.Float64()
}

// RandIntRange returns a uniform integer in [lo, hi] from this context's
// RNG.
func (c *ExecutionContext) RandIntRange(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + c.rng.Int63n(hi-lo+1)
}
