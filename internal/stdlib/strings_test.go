package stdlib

import (
	"testing"

	"github.com/writewhisker/whisker-script/internal/value"
)

func TestStringUpperLower(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSString, "upper", []value.Value{value.Str("MixedCase")})
	if err != nil || got != value.Str("MIXEDCASE") {
		t.Errorf("string.upper(...) = %v, %v, want MIXEDCASE, nil", got, err)
	}
	got, err = Default.Call(ctx, NSString, "lower", []value.Value{value.Str("MixedCase")})
	if err != nil || got != value.Str("mixedcase") {
		t.Errorf("string.lower(...) = %v, %v, want mixedcase, nil", got, err)
	}
}

func TestStringLen(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSString, "len", []value.Value{value.Str("hello")})
	if err != nil || got != value.Num(5) {
		t.Errorf("string.len(\"hello\") = %v, %v, want 5, nil", got, err)
	}
}

func TestStringRep(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSString, "rep", []value.Value{value.Str("ab"), value.Num(3)})
	if err != nil || got != value.Str("ababab") {
		t.Errorf("string.rep(\"ab\", 3) = %v, %v, want ababab, nil", got, err)
	}

	got, err = Default.Call(ctx, NSString, "rep", []value.Value{value.Str("ab"), value.Num(3), value.Str("-")})
	if err != nil || got != value.Str("ab-ab-ab") {
		t.Errorf("string.rep(\"ab\", 3, \"-\") = %v, %v, want ab-ab-ab, nil", got, err)
	}

	got, err = Default.Call(ctx, NSString, "rep", []value.Value{value.Str("ab"), value.Num(0)})
	if err != nil || got != value.Str("") {
		t.Errorf("string.rep(\"ab\", 0) = %v, %v, want \"\", nil", got, err)
	}
}

func TestStringReverse(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSString, "reverse", []value.Value{value.Str("abc")})
	if err != nil || got != value.Str("cba") {
		t.Errorf("string.reverse(\"abc\") = %v, %v, want cba, nil", got, err)
	}
}

func TestStringByte(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSString, "byte", []value.Value{value.Str("abc")})
	if err != nil || got != value.Num('a') {
		t.Errorf("string.byte(\"abc\") = %v, %v, want %d, nil", got, err, byte('a'))
	}

	got, err = Default.Call(ctx, NSString, "byte", []value.Value{value.Str("abc"), value.Num(-1)})
	if err != nil || got != value.Num('c') {
		t.Errorf("string.byte(\"abc\", -1) = %v, %v, want %d, nil", got, err, byte('c'))
	}
}

func TestStringSub(t *testing.T) {
	ctx := newFakeContext()
	cases := []struct {
		name string
		i, j value.Value
		want string
	}{
		{"positive range", value.Num(2), value.Num(4), "ell"},
		{"negative end", value.Num(2), value.Num(-1), "ello"},
		{"negative start", value.Num(-3), value.Num(-1), "llo"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Default.Call(ctx, NSString, "sub", []value.Value{value.Str("hello"), c.i, c.j})
			if err != nil || got != value.Str(c.want) {
				t.Errorf("string.sub(\"hello\", %v, %v) = %v, %v, want %q, nil", c.i, c.j, got, err, c.want)
			}
		})
	}
}

func TestStringFind(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSString, "find", []value.Value{value.Str("hello world"), value.Str("world")})
	if err != nil || got != value.Num(7) {
		t.Errorf("string.find(...) = %v, %v, want 7, nil", got, err)
	}

	got, err = Default.Call(ctx, NSString, "find", []value.Value{value.Str("hello world"), value.Str("xyz")})
	if err != nil || got != value.Nil {
		t.Errorf("string.find(not found) = %v, %v, want Nil, nil", got, err)
	}
}

func TestStringFormat(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSString, "format", []value.Value{value.Str("%d-%s"), value.Num(42), value.Str("x")})
	if err != nil || got != value.Str("42-x") {
		t.Errorf("string.format(...) = %v, %v, want 42-x, nil", got, err)
	}
}

func TestStringGsub(t *testing.T) {
	ctx := newFakeContext()
	got, err := Default.Call(ctx, NSString, "gsub", []value.Value{value.Str("hello world"), value.Str("o"), value.Str("0")})
	if err != nil || got != value.Str("hell0 w0rld") {
		t.Errorf("string.gsub(...) = %v, %v, want hell0 w0rld, nil", got, err)
	}
}
