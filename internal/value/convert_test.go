package value

import "testing"

func TestToNumber(t *testing.T) {
	cases := []struct {
		name    string
		in      Value
		want    Num
		wantErr bool
	}{
		{"number passthrough", Num(3.5), 3.5, false},
		{"decimal string", Str("42"), 42, false},
		{"hex string", Str("0x1F"), 31, false},
		{"bool true", True, 1, false},
		{"bool false", False, 0, false},
		{"nil", Nil, 0, false},
		{"invalid string", Str("abc"), 0, true},
		{"table", NewTable(), 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ToNumber(c.in)
			if c.wantErr {
				if err == nil {
					t.Fatalf("ToNumber(%v) error = nil, want error", c.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToNumber(%v) error = %v, want nil", c.in, err)
			}
			if got != c.want {
				t.Errorf("ToNumber(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name    string
		a, b    Value
		want    int
		wantErr bool
	}{
		{"numbers less", Num(1), Num(2), -1, false},
		{"numbers equal", Num(2), Num(2), 0, false},
		{"numbers greater", Num(3), Num(2), 1, false},
		{"strings lexicographic", Str("abc"), Str("abd"), -1, false},
		{"mixed kinds error", Num(1), Str("1"), 0, true},
		{"unordered kind error", NewTable(), NewTable(), 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Compare(c.a, c.b)
			if c.wantErr {
				if err == nil {
					t.Fatalf("Compare(%v, %v) error = nil, want error", c.a, c.b)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compare(%v, %v) error = %v, want nil", c.a, c.b, err)
			}
			if got != c.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in     string
		want   Num
		wantOK bool
	}{
		{"10", 10, true},
		{"-0x10", -16, true},
		{"3.25e2", 325, true},
		{"  7  ", 7, true},
		{"not a number", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.wantOK {
			t.Errorf("ParseNumber(%q) ok = %v, want %v", c.in, ok, c.wantOK)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
