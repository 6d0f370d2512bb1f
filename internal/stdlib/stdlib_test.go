package stdlib

import (
	"math/rand"

	"github.com/writewhisker/whisker-script/internal/value"
)

// fakeContext is a minimal Context for exercising built-ins in isolation,
// grounded on the teacher's builtins tests constructing a bare VM/Context
// rather than a full interpreter.
type fakeContext struct {
	rng    *rand.Rand
	output []string
}

func newFakeContext() *fakeContext {
	return &fakeContext{rng: rand.New(rand.NewSource(1))}
}

func (c *fakeContext) RandFloat64() float64 { return c.rng.Float64() }
func (c *fakeContext) RandIntRange(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + c.rng.Int63n(hi-lo+1)
}
func (c *fakeContext) RandSeed(seed int64) { c.rng = rand.New(rand.NewSource(seed)) }
func (c *fakeContext) Print(args []value.Value) {
	c.output = append(c.output, value.JoinTabbed(args))
}
func (c *fakeContext) Call(fn *value.Func, args []value.Value) (value.Value, error) {
	if fn.Builtin != nil {
		return fn.Builtin(args)
	}
	return value.Nil, nil
}

var _ Context = (*fakeContext)(nil)
