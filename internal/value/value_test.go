package value

import "testing"

func TestNumString(t *testing.T) {
	cases := []struct {
		in   Num
		want string
	}{
		{0, "0"},
		{42, "42"},
		{-3, "-3"},
		{3.5, "3.5"},
		{1e20, "100000000000000000000"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Errorf("Num(%v).String() = %q, want %q", float64(c.in), got, c.want)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		in   Value
		want bool
	}{
		{Nil, false},
		{False, false},
		{True, true},
		{Num(0), true},
		{Str(""), true},
	}
	for _, c := range cases {
		if got := IsTruthy(c.in); got != c.want {
			t.Errorf("IsTruthy(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEqualsIdentityForTables(t *testing.T) {
	t1 := NewTable()
	t2 := NewTable()
	t1.Set("a", Num(1))
	t2.Set("a", Num(1))

	if Equals(t1, t2) {
		t.Error("Equals(t1, t2) = true for distinct tables with identical content, want false (identity equality)")
	}
	if !Equals(t1, t1) {
		t.Error("Equals(t1, t1) = false, want true")
	}
}

func TestEqualsAcrossKinds(t *testing.T) {
	if Equals(Num(0), Str("0")) {
		t.Error("Equals(Num(0), Str(\"0\")) = true, want false (no cross-kind equality)")
	}
	if Equals(Nil, False) {
		t.Error("Equals(Nil, False) = true, want false")
	}
}

func TestTableSetDeletesOnNil(t *testing.T) {
	tbl := NewTable()
	tbl.Set("x", Num(1))
	tbl.Set("x", Nil)

	if tbl.Get("x") != Nil {
		t.Errorf("Get(%q) after nil-set = %v, want Nil", "x", tbl.Get("x"))
	}
	if len(tbl.Keys()) != 0 {
		t.Errorf("Keys() after nil-set = %v, want empty", tbl.Keys())
	}
}

func TestTableLenStopsAtFirstGap(t *testing.T) {
	tbl := NewTable()
	tbl.Set("1", Num(10))
	tbl.Set("2", Num(20))
	tbl.Set("4", Num(40))

	if got := tbl.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2 (gap at index 3)", got)
	}
}

func TestNewArrayTable(t *testing.T) {
	tbl := NewArrayTable([]Value{Str("a"), Str("b"), Str("c")})
	if got := tbl.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := tbl.Get("2"); got != Str("b") {
		t.Errorf("Get(\"2\") = %v, want Str(\"b\")", got)
	}
}

func TestJoinTabbed(t *testing.T) {
	got := JoinTabbed([]Value{Num(1), Str("x"), True})
	want := "1\tx\ttrue"
	if got != want {
		t.Errorf("JoinTabbed() = %q, want %q", got, want)
	}
}
