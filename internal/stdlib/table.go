package stdlib

import (
	"sort"
	"strconv"
	"strings"

	"github.com/writewhisker/whisker-script/internal/value"
)

// registerTableFns wires table.* per §4.6, grounded on the teacher's
// internal/interp/builtins/array.go (Insert/Remove/Concat/Sort), adapted
// from DWScript's statically-typed dynamic arrays to Lua tables used
// array-style.
func registerTableFns(r *Registry) {
	tableArg := func(name string, args []value.Value, i int) (*value.Table, error) {
		v := argN(args, i)
		t, ok := v.(*value.Table)
		if !ok {
			return nil, wrongType(name, "table", v)
		}
		return t, nil
	}

	r.Register(NSTable, "insert", func(_ Context, args []value.Value) (value.Value, error) {
		t, err := tableArg("insert", args, 0)
		if err != nil {
			return nil, err
		}
		n := t.Len()
		if len(args) == 2 {
			t.Set(strconv.Itoa(n+1), args[1])
			return value.Nil, nil
		}
		pos, err := numArg("insert", args, 1)
		if err != nil {
			return nil, err
		}
		v := argN(args, 2)
		p := int(pos)
		for i := n + 1; i > p; i-- {
			t.Set(strconv.Itoa(i), t.Get(strconv.Itoa(i-1)))
		}
		t.Set(strconv.Itoa(p), v)
		return value.Nil, nil
	})

	r.Register(NSTable, "remove", func(_ Context, args []value.Value) (value.Value, error) {
		t, err := tableArg("remove", args, 0)
		if err != nil {
			return nil, err
		}
		n := t.Len()
		if n == 0 {
			return value.Nil, nil
		}
		pos := n
		if len(args) > 1 {
			p, err := numArg("remove", args, 1)
			if err != nil {
				return nil, err
			}
			pos = int(p)
		}
		removed := t.Get(strconv.Itoa(pos))
		for i := pos; i < n; i++ {
			t.Set(strconv.Itoa(i), t.Get(strconv.Itoa(i+1)))
		}
		t.Set(strconv.Itoa(n), value.Nil)
		return removed, nil
	})

	r.Register(NSTable, "concat", func(_ Context, args []value.Value) (value.Value, error) {
		t, err := tableArg("concat", args, 0)
		if err != nil {
			return nil, err
		}
		sep := ""
		if len(args) > 1 {
			sep = value.ToString(args[1])
		}
		lo := 1
		if len(args) > 2 {
			n, err := numArg("concat", args, 2)
			if err != nil {
				return nil, err
			}
			lo = int(n)
		}
		hi := t.Len()
		if len(args) > 3 {
			n, err := numArg("concat", args, 3)
			if err != nil {
				return nil, err
			}
			hi = int(n)
		}
		var parts []string
		for i := lo; i <= hi; i++ {
			parts = append(parts, value.ToString(t.Get(strconv.Itoa(i))))
		}
		return value.Str(strings.Join(parts, sep)), nil
	})

	r.Register(NSTable, "sort", func(ctx Context, args []value.Value) (value.Value, error) {
		t, err := tableArg("sort", args, 0)
		if err != nil {
			return nil, err
		}
		n := t.Len()
		elems := make([]value.Value, n)
		for i := range elems {
			elems[i] = t.Get(strconv.Itoa(i + 1))
		}
		var sortErr error
		if len(args) > 1 {
			cmp, ok := args[1].(*value.Func)
			if !ok {
				return nil, wrongType("sort", "function", args[1])
			}
			sort.SliceStable(elems, func(i, j int) bool {
				if sortErr != nil {
					return false
				}
				v, err := ctx.Call(cmp, []value.Value{elems[i], elems[j]})
				if err != nil {
					sortErr = err
					return false
				}
				return value.IsTruthy(v)
			})
		} else {
			sort.SliceStable(elems, func(i, j int) bool {
				c, err := value.Compare(elems[i], elems[j])
				if err != nil {
					sortErr = err
					return false
				}
				return c < 0
			})
		}
		if sortErr != nil {
			return nil, sortErr
		}
		for i, v := range elems {
			t.Set(strconv.Itoa(i+1), v)
		}
		return value.Nil, nil
	})

	r.Register(NSTable, "maxn", func(_ Context, args []value.Value) (value.Value, error) {
		t, err := tableArg("maxn", args, 0)
		if err != nil {
			return nil, err
		}
		max := 0
		for _, k := range t.Keys() {
			if n, ok := value.ParseNumber(k); ok && float64(n) == float64(int64(n)) {
				if int(n) > max {
					max = int(n)
				}
			}
		}
		return value.Num(max), nil
	})
}
