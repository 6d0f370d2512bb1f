package stdlib

import (
	"testing"

	"github.com/writewhisker/whisker-script/internal/value"
)

func TestPrintAppendsTabbedOutput(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Default.Call(ctx, NSGlobal, "print", []value.Value{value.Num(1), value.Str("x")}); err != nil {
		t.Fatalf("print error = %v", err)
	}
	if len(ctx.output) != 1 || ctx.output[0] != "1\tx" {
		t.Errorf("output = %v, want [\"1\\tx\"]", ctx.output)
	}
}

func TestTypeBuiltin(t *testing.T) {
	ctx := newFakeContext()
	cases := []struct {
		in   value.Value
		want string
	}{
		{value.Nil, "nil"},
		{value.Num(1), "number"},
		{value.Str("x"), "string"},
		{value.True, "boolean"},
		{value.NewTable(), "table"},
	}
	for _, c := range cases {
		got, err := Default.Call(ctx, NSGlobal, "type", []value.Value{c.in})
		if err != nil {
			t.Fatalf("type(%v) error = %v", c.in, err)
		}
		if got != value.Str(c.want) {
			t.Errorf("type(%v) = %v, want %q", c.in, got, c.want)
		}
	}
}

func TestTonumber(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSGlobal, "tonumber", []value.Value{value.Str("42")})
	if err != nil || got != value.Num(42) {
		t.Errorf("tonumber(\"42\") = %v, %v, want 42, nil", got, err)
	}

	got, err = Default.Call(ctx, NSGlobal, "tonumber", []value.Value{value.Str("not a number")})
	if err != nil || got != value.Nil {
		t.Errorf("tonumber(\"not a number\") = %v, %v, want Nil, nil", got, err)
	}

	got, err = Default.Call(ctx, NSGlobal, "tonumber", []value.Value{value.Str("ff"), value.Num(16)})
	if err != nil || got != value.Num(255) {
		t.Errorf("tonumber(\"ff\", 16) = %v, %v, want 255, nil", got, err)
	}
}

func TestAssertFailure(t *testing.T) {
	ctx := newFakeContext()
	if _, err := Default.Call(ctx, NSGlobal, "assert", []value.Value{value.False, value.Str("boom")}); err == nil {
		t.Error("assert(false, \"boom\") error = nil, want error")
	} else if err.Error() != "Internal: boom" {
		t.Errorf("assert error = %q, want %q", err.Error(), "Internal: boom")
	}
}

func TestPairsIteratesInsertionOrder(t *testing.T) {
	ctx := newFakeContext()
	tbl := value.NewTable()
	tbl.Set("b", value.Num(2))
	tbl.Set("a", value.Num(1))

	got, err := Default.Call(ctx, NSGlobal, "pairs", []value.Value{tbl})
	if err != nil {
		t.Fatalf("pairs() error = %v", err)
	}
	it, ok := got.(*Iterator)
	if !ok {
		t.Fatalf("pairs() = %T, want *Iterator", got)
	}

	var keys []string
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, string(k.(value.Str)))
	}
	want := []string{"b", "a"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("pairs() order = %v, want %v (insertion order)", keys, want)
	}
}

func TestIpairsStopsAtFirstGap(t *testing.T) {
	ctx := newFakeContext()
	tbl := value.NewTable()
	tbl.Set("1", value.Num(10))
	tbl.Set("2", value.Num(20))
	tbl.Set("4", value.Num(40))

	got, _ := Default.Call(ctx, NSGlobal, "ipairs", []value.Value{tbl})
	it := got.(*Iterator)

	count := 0
	for {
		_, _, ok := it.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("ipairs iterated %d elements, want 2 (stop at gap)", count)
	}
}

func TestRawequalIsIdentityForTables(t *testing.T) {
	ctx := newFakeContext()
	a, b := value.NewTable(), value.NewTable()
	got, _ := Default.Call(ctx, NSGlobal, "rawequal", []value.Value{a, b})
	if got != value.False {
		t.Error("rawequal(a, b) for distinct identical-content tables = true, want false")
	}
}
