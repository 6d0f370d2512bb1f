package stdlib

import (
	"math"

	"github.com/writewhisker/whisker-script/internal/value"
)

// registerMath wires math.* per §4.6, grounded on the teacher's
// internal/interp/builtins/math_basic.go category (Abs/Min/Max/Sqrt/...),
// generalized from Integer/Float-split dispatch to Lua's single numeric
// kind.
func registerMath(r *Registry) {
	unary := func(name string, f func(float64) float64) {
		r.Register(NSMath, name, func(_ Context, args []value.Value) (value.Value, error) {
			n, err := numArg(name, args, 0)
			if err != nil {
				return nil, err
			}
			return value.Num(f(float64(n))), nil
		})
	}

	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("abs", math.Abs)
	unary("sqrt", math.Sqrt)
	unary("exp", math.Exp)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("deg", func(r float64) float64 { return r * 180 / math.Pi })
	unary("rad", func(d float64) float64 { return d * math.Pi / 180 })

	r.Register(NSMath, "pow", func(_ Context, args []value.Value) (value.Value, error) {
		x, err := numArg("pow", args, 0)
		if err != nil {
			return nil, err
		}
		y, err := numArg("pow", args, 1)
		if err != nil {
			return nil, err
		}
		return value.Num(math.Pow(float64(x), float64(y))), nil
	})

	r.Register(NSMath, "log", func(_ Context, args []value.Value) (value.Value, error) {
		x, err := numArg("log", args, 0)
		if err != nil {
			return nil, err
		}
		if len(args) > 1 {
			base, err := numArg("log", args, 1)
			if err != nil {
				return nil, err
			}
			return value.Num(math.Log(float64(x)) / math.Log(float64(base))), nil
		}
		return value.Num(math.Log(float64(x))), nil
	})

	r.Register(NSMath, "atan2", func(_ Context, args []value.Value) (value.Value, error) {
		y, err := numArg("atan2", args, 0)
		if err != nil {
			return nil, err
		}
		x, err := numArg("atan2", args, 1)
		if err != nil {
			return nil, err
		}
		return value.Num(math.Atan2(float64(y), float64(x))), nil
	})

	r.Register(NSMath, "fmod", func(_ Context, args []value.Value) (value.Value, error) {
		x, err := numArg("fmod", args, 0)
		if err != nil {
			return nil, err
		}
		y, err := numArg("fmod", args, 1)
		if err != nil {
			return nil, err
		}
		return value.Num(math.Mod(float64(x), float64(y))), nil
	})

	r.Register(NSMath, "modf", func(_ Context, args []value.Value) (value.Value, error) {
		x, err := numArg("modf", args, 0)
		if err != nil {
			return nil, err
		}
		i, f := math.Modf(float64(x))
		return value.NewArrayTable([]value.Value{value.Num(i), value.Num(f)}), nil
	})

	r.Register(NSMath, "min", func(_ Context, args []value.Value) (value.Value, error) {
		return minMax(args, false)
	})
	r.Register(NSMath, "max", func(_ Context, args []value.Value) (value.Value, error) {
		return minMax(args, true)
	})

	r.Register(NSMath, "random", func(ctx Context, args []value.Value) (value.Value, error) {
		switch len(args) {
		case 0:
			return value.Num(ctx.RandFloat64()), nil
		case 1:
			m, err := numArg("random", args, 0)
			if err != nil {
				return nil, err
			}
			return value.Num(ctx.RandIntRange(1, int64(m))), nil
		default:
			m, err := numArg("random", args, 0)
			if err != nil {
				return nil, err
			}
			n, err := numArg("random", args, 1)
			if err != nil {
				return nil, err
			}
			return value.Num(ctx.RandIntRange(int64(m), int64(n))), nil
		}
	})

	r.Register(NSMath, "randomseed", func(ctx Context, args []value.Value) (value.Value, error) {
		n, err := numArg("randomseed", args, 0)
		if err != nil {
			return nil, err
		}
		ctx.RandSeed(int64(n))
		return value.Nil, nil
	})

	r.Register(NSMath, "pi", func(_ Context, _ []value.Value) (value.Value, error) {
		return value.Num(math.Pi), nil
	})
	r.Register(NSMath, "huge", func(_ Context, _ []value.Value) (value.Value, error) {
		return value.Num(math.Inf(1)), nil
	})
}

func numArg(name string, args []value.Value, i int) (value.Num, error) {
	v := argN(args, i)
	n, err := value.ToNumber(v)
	if err != nil {
		return 0, wrongType(name, "number", v)
	}
	return n, nil
}

func minMax(args []value.Value, wantMax bool) (value.Value, error) {
	if len(args) == 0 {
		return nil, argErr("min/max", 1, 0)
	}
	best, err := value.ToNumber(args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		n, err := value.ToNumber(a)
		if err != nil {
			return nil, err
		}
		if (wantMax && n > best) || (!wantMax && n < best) {
			best = n
		}
	}
	return best, nil
}
