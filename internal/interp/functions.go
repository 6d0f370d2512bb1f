package interp

import (
	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
)

// Call invokes fn with already-evaluated args and returns its single
// primary result (§4.5, §1's reduced multiple-return Non-goal). It
// satisfies internal/stdlib.Context, so built-ins like table.sort can
// invoke a user-supplied comparator without internal/stdlib importing
// this package.
func (c *ExecutionContext) Call(fn *value.Func, args []value.Value) (value.Value, error) {
	if fn.Builtin != nil {
		return fn.Builtin(args)
	}

	if len(c.callTree) >= c.MaxCallDepth {
		return nil, interperr.New(interperr.CallDepthExceeded, "call depth exceeded calling '%s'", fn.Name)
	}
	c.callTree = append(c.callTree, fn.Name)
	defer func() { c.callTree = c.callTree[:len(c.callTree)-1] }()

	c.PushLocalScope()
	defer c.PopLocalScope()

	for i, p := range fn.Params {
		if i < len(args) {
			c.DeclareLocal(p, args[i])
		} else {
			c.DeclareLocal(p, value.Nil)
		}
	}

	ret, sig, err := execBlock(c, Split(fn.Body))
	if err != nil {
		return nil, err
	}
	if sig == sigReturn {
		return ret, nil
	}
	return value.Nil, nil
}
