package stdlib

import (
	"strconv"

	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
)

// Iterator is the bespoke iterator value produced by pairs()/ipairs() and
// consumed only by the generic-for executor (§4.5, §9's reduced
// multi-return design note: rather than faithfully reproduce Lua's
// three-value iterator protocol, pairs/ipairs hand back a small stateful
// cursor the for-loop drives directly).
type Iterator struct {
	Table *value.Table
	IPairs bool
	idx    int
}

func (*Iterator) Type() string   { return "table" }
func (*Iterator) String() string { return "table" }

// Next advances the iterator, returning the next (key, val, ok). For
// ipairs, iteration stops at the first gap in consecutive integer keys
// starting at 1 (§4.5).
func (it *Iterator) Next() (value.Value, value.Value, bool) {
	if it.IPairs {
		it.idx++
		key := strconv.Itoa(it.idx)
		v := it.Table.Get(key)
		if v.Type() == "nil" {
			return nil, nil, false
		}
		return value.Num(it.idx), v, true
	}
	keys := it.Table.Keys()
	if it.idx >= len(keys) {
		return nil, nil, false
	}
	k := keys[it.idx]
	it.idx++
	return value.Str(k), it.Table.Get(k), true
}

func registerBase(r *Registry) {
	r.Register(NSGlobal, "print", func(ctx Context, args []value.Value) (value.Value, error) {
		ctx.Print(args)
		return value.Nil, nil
	})

	r.Register(NSGlobal, "type", func(_ Context, args []value.Value) (value.Value, error) {
		return value.Str(value.TypeName(argN(args, 0))), nil
	})

	r.Register(NSGlobal, "tostring", func(_ Context, args []value.Value) (value.Value, error) {
		return value.Str(value.ToString(argN(args, 0))), nil
	})

	r.Register(NSGlobal, "tonumber", func(_ Context, args []value.Value) (value.Value, error) {
		v := argN(args, 0)
		base := 10
		if len(args) > 1 {
			if n, ok := args[1].(value.Num); ok {
				base = int(n)
			}
		}
		s, ok := v.(value.Str)
		if !ok {
			if n, ok := v.(value.Num); ok {
				return n, nil
			}
			return value.Nil, nil
		}
		if base != 10 {
			n, err := strconv.ParseInt(string(s), base, 64)
			if err != nil {
				return value.Nil, nil
			}
			return value.Num(n), nil
		}
		n, ok := value.ParseNumber(string(s))
		if !ok {
			return value.Nil, nil
		}
		return n, nil
	})

	r.Register(NSGlobal, "assert", func(_ Context, args []value.Value) (value.Value, error) {
		v := argN(args, 0)
		if !value.IsTruthy(v) {
			msg := "assertion failed!"
			if len(args) > 1 {
				msg = value.ToString(args[1])
			}
			return nil, interperr.New(interperr.Internal, "%s", msg)
		}
		return v, nil
	})

	r.Register(NSGlobal, "error", func(_ Context, args []value.Value) (value.Value, error) {
		msg := value.ToString(argN(args, 0))
		return nil, interperr.New(interperr.Internal, "%s", msg)
	})

	r.Register(NSGlobal, "pairs", func(_ Context, args []value.Value) (value.Value, error) {
		t, ok := argN(args, 0).(*value.Table)
		if !ok {
			return nil, wrongType("pairs", "table", argN(args, 0))
		}
		return &Iterator{Table: t}, nil
	})

	r.Register(NSGlobal, "ipairs", func(_ Context, args []value.Value) (value.Value, error) {
		t, ok := argN(args, 0).(*value.Table)
		if !ok {
			return nil, wrongType("ipairs", "table", argN(args, 0))
		}
		return &Iterator{Table: t, IPairs: true}, nil
	})

	r.Register(NSGlobal, "next", func(_ Context, args []value.Value) (value.Value, error) {
		t, ok := argN(args, 0).(*value.Table)
		if !ok {
			return nil, wrongType("next", "table", argN(args, 0))
		}
		keys := t.Keys()
		var after string
		if len(args) > 1 {
			after = value.ToString(args[1])
		}
		startAt := 0
		if len(args) > 1 {
			found := false
			for i, k := range keys {
				if k == after {
					startAt = i + 1
					found = true
					break
				}
			}
			if !found {
				return nil, interperr.New(interperr.NameError, "invalid key to 'next'")
			}
		}
		if startAt >= len(keys) {
			return value.Nil, nil
		}
		k := keys[startAt]
		pair := value.NewArrayTable([]value.Value{value.Str(k), t.Get(k)})
		return pair, nil
	})

	r.Register(NSGlobal, "select", func(_ Context, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, argErr("select", 1, 0)
		}
		if s, ok := args[0].(value.Str); ok && string(s) == "#" {
			return value.Num(len(args) - 1), nil
		}
		n, err := value.ToNumber(args[0])
		if err != nil {
			return nil, err
		}
		idx := int(n)
		if idx < 1 || idx >= len(args) {
			return value.Nil, nil
		}
		return args[idx], nil
	})

	r.Register(NSGlobal, "rawget", func(_ Context, args []value.Value) (value.Value, error) {
		t, ok := argN(args, 0).(*value.Table)
		if !ok {
			return nil, wrongType("rawget", "table", argN(args, 0))
		}
		return t.Get(value.ToString(argN(args, 1))), nil
	})

	r.Register(NSGlobal, "rawset", func(_ Context, args []value.Value) (value.Value, error) {
		t, ok := argN(args, 0).(*value.Table)
		if !ok {
			return nil, wrongType("rawset", "table", argN(args, 0))
		}
		t.Set(value.ToString(argN(args, 1)), argN(args, 2))
		return t, nil
	})

	r.Register(NSGlobal, "rawequal", func(_ Context, args []value.Value) (value.Value, error) {
		return value.Bool(value.Equals(argN(args, 0), argN(args, 1))), nil
	})

	r.Register(NSGlobal, "setmetatable", func(_ Context, args []value.Value) (value.Value, error) {
		t, ok := argN(args, 0).(*value.Table)
		if !ok {
			return nil, wrongType("setmetatable", "table", argN(args, 0))
		}
		t.SetMetatable(argN(args, 1))
		return t, nil
	})

	r.Register(NSGlobal, "getmetatable", func(_ Context, args []value.Value) (value.Value, error) {
		t, ok := argN(args, 0).(*value.Table)
		if !ok {
			return value.Nil, nil
		}
		return t.Metatable(), nil
	})
}
