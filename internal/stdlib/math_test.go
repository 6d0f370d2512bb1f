package stdlib

import (
	"math"
	"testing"

	"github.com/writewhisker/whisker-script/internal/value"
)

func TestMathUnary(t *testing.T) {
	ctx := newFakeContext()
	cases := []struct {
		name string
		arg  value.Num
		want float64
	}{
		{"floor", 1.9, 1},
		{"ceil", 1.1, 2},
		{"abs", -4, 4},
		{"sqrt", 9, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Default.Call(ctx, NSMath, c.name, []value.Value{c.arg})
			if err != nil {
				t.Fatalf("math.%s(%v) error = %v", c.name, c.arg, err)
			}
			n, ok := got.(value.Num)
			if !ok {
				t.Fatalf("math.%s(%v) = %v, want a number", c.name, c.arg, got)
			}
			if float64(n) != c.want {
				t.Errorf("math.%s(%v) = %v, want %v", c.name, c.arg, float64(n), c.want)
			}
		})
	}
}

func TestMathPow(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSMath, "pow", []value.Value{value.Num(2), value.Num(10)})
	if err != nil {
		t.Fatalf("math.pow error = %v", err)
	}
	if got != value.Num(1024) {
		t.Errorf("math.pow(2,10) = %v, want 1024", got)
	}
}

func TestMathMinMax(t *testing.T) {
	ctx := newFakeContext()
	args := []value.Value{value.Num(3), value.Num(-1), value.Num(7), value.Num(2)}

	min, err := Default.Call(ctx, NSMath, "min", args)
	if err != nil || min != value.Num(-1) {
		t.Errorf("math.min(...) = %v, %v, want -1, nil", min, err)
	}

	max, err := Default.Call(ctx, NSMath, "max", args)
	if err != nil || max != value.Num(7) {
		t.Errorf("math.max(...) = %v, %v, want 7, nil", max, err)
	}
}

func TestMathMinRequiresArg(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Default.Call(ctx, NSMath, "min", nil); err == nil {
		t.Error("math.min() with no args: error = nil, want error")
	}
}

func TestMathPiAndHuge(t *testing.T) {
	ctx := newFakeContext()
	pi, err := Default.Call(ctx, NSMath, "pi", nil)
	if err != nil || pi != value.Num(math.Pi) {
		t.Errorf("math.pi = %v, %v, want %v, nil", pi, err, math.Pi)
	}
	huge, err := Default.Call(ctx, NSMath, "huge", nil)
	if err != nil {
		t.Fatalf("math.huge error = %v", err)
	}
	n, _ := huge.(value.Num)
	if !math.IsInf(float64(n), 1) {
		t.Errorf("math.huge = %v, want +Inf", huge)
	}
}

func TestMathRandomDeterministicWithSeed(t *testing.T) {
	ctx1 := newFakeContext()
	ctx1.RandSeed(42)
	ctx2 := newFakeContext()
	ctx2.RandSeed(42)

	a, _ := Default.Call(ctx1, NSMath, "random", []value.Value{value.Num(1), value.Num(100)})
	b, _ := Default.Call(ctx2, NSMath, "random", []value.Value{value.Num(1), value.Num(100)})
	if a != b {
		t.Errorf("math.random with identical seeds diverged: %v != %v", a, b)
	}
}
