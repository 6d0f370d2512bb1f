package whisker

import (
	"strconv"

	"github.com/writewhisker/whisker-script/internal/list"
	"github.com/writewhisker/whisker-script/internal/value"
)

// registerState wires whisker.state.* (§4.8): plain variable access plus
// the list/array/map collection extensions layered over the same keyed
// variable namespace.
//
// Grounded on the teacher's builtins.Context accessor style (get/set
// pairs dispatched through a Context capability), adapted to operate
// over the host's RuntimeContext instead of an interpreter-internal
// symbol table.
func registerState(r *Registry) {
	r.Register(NSState, "get", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		key, err := argStr("state.get", args, 0)
		if err != nil {
			return nil, err
		}
		if v, ok := rc.GetVar(key); ok {
			return v, nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return value.Nil, nil
	})

	r.Register(NSState, "set", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		key, err := argStr("state.set", args, 0)
		if err != nil {
			return nil, err
		}
		rc.SetVar(key, argN(args, 1))
		return value.Nil, nil
	})

	r.Register(NSState, "has", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		key, err := argStr("state.has", args, 0)
		if err != nil {
			return nil, err
		}
		return value.Bool(rc.HasVar(key)), nil
	})

	r.Register(NSState, "delete", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		key, err := argStr("state.delete", args, 0)
		if err != nil {
			return nil, err
		}
		rc.DeleteVar(key)
		return value.Nil, nil
	})

	r.Register(NSState, "all", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		vars := rc.AllVars()
		t := value.NewTable()
		for k, v := range vars {
			t.Set(k, v)
		}
		return t, nil
	})

	r.Register(NSState, "reset", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		rc.ResetVars()
		return value.Nil, nil
	})

	registerStateLists(r)
	registerStateArrays(r)
	registerStateMaps(r)
}

func lookupList(name string, rc RuntimeContext, args []value.Value) (*list.List, string, error) {
	key, err := argStr(name, args, 0)
	if err != nil {
		return nil, "", err
	}
	l, ok := rc.GetList(key)
	if !ok {
		return nil, key, wrongType(name, "list", value.Str(key))
	}
	return l, key, nil
}

func registerStateLists(r *Registry) {
	r.Register(NSState, "getList", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		_, _, err := lookupList("state.getList", rc, args)
		if err != nil {
			return value.Nil, nil
		}
		return value.Str(mustStr(args, 0)), nil
	})

	r.Register(NSState, "hasList", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		key, err := argStr("state.hasList", args, 0)
		if err != nil {
			return nil, err
		}
		_, ok := rc.GetList(key)
		return value.Bool(ok), nil
	})

	r.Register(NSState, "listValues", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		l, _, err := lookupList("state.listValues", rc, args)
		if err != nil {
			return nil, err
		}
		return stringsToArray(l.GetPossibleValues()), nil
	})

	r.Register(NSState, "listActive", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		l, _, err := lookupList("state.listActive", rc, args)
		if err != nil {
			return nil, err
		}
		return stringsToArray(l.GetActiveValues()), nil
	})

	r.Register(NSState, "listContains", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		l, _, err := lookupList("state.listContains", rc, args)
		if err != nil {
			return nil, err
		}
		s, err := argStr("state.listContains", args, 1)
		if err != nil {
			return nil, err
		}
		return value.Bool(l.Contains(s)), nil
	})

	r.Register(NSState, "listAdd", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		l, _, err := lookupList("state.listAdd", rc, args)
		if err != nil {
			return nil, err
		}
		s, err := argStr("state.listAdd", args, 1)
		if err != nil {
			return nil, err
		}
		return value.Nil, l.Add(s)
	})

	r.Register(NSState, "listRemove", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		l, _, err := lookupList("state.listRemove", rc, args)
		if err != nil {
			return nil, err
		}
		s, err := argStr("state.listRemove", args, 1)
		if err != nil {
			return nil, err
		}
		return value.Nil, l.Remove(s)
	})

	r.Register(NSState, "listToggle", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		l, _, err := lookupList("state.listToggle", rc, args)
		if err != nil {
			return nil, err
		}
		s, err := argStr("state.listToggle", args, 1)
		if err != nil {
			return nil, err
		}
		return value.Nil, l.Toggle(s)
	})

	r.Register(NSState, "listCount", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		l, _, err := lookupList("state.listCount", rc, args)
		if err != nil {
			return nil, err
		}
		return value.Num(l.Count()), nil
	})
}

func mustStr(args []value.Value, i int) string {
	s, _ := argN(args, i).(value.Str)
	return string(s)
}

func stringsToArray(ss []string) *value.Table {
	elems := make([]value.Value, len(ss))
	for i, s := range ss {
		elems[i] = value.Str(s)
	}
	return value.NewArrayTable(elems)
}

func lookupArray(name string, rc RuntimeContext, args []value.Value) (*value.Table, error) {
	key, err := argStr(name, args, 0)
	if err != nil {
		return nil, err
	}
	t, ok := rc.GetArray(key)
	if !ok {
		return nil, wrongType(name, "array", value.Str(key))
	}
	return t, nil
}

func registerStateArrays(r *Registry) {
	r.Register(NSState, "getArray", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.getArray", rc, args)
		if err != nil {
			return nil, err
		}
		return t, nil
	})

	r.Register(NSState, "hasArray", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		key, err := argStr("state.hasArray", args, 0)
		if err != nil {
			return nil, err
		}
		_, ok := rc.GetArray(key)
		return value.Bool(ok), nil
	})

	r.Register(NSState, "arrayGet", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.arrayGet", rc, args)
		if err != nil {
			return nil, err
		}
		idx, err := argNum("state.arrayGet", args, 1)
		if err != nil {
			return nil, err
		}
		return t.Get(strconv.Itoa(int(idx))), nil
	})

	r.Register(NSState, "arraySet", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.arraySet", rc, args)
		if err != nil {
			return nil, err
		}
		idx, err := argNum("state.arraySet", args, 1)
		if err != nil {
			return nil, err
		}
		t.Set(strconv.Itoa(int(idx)), argN(args, 2))
		return value.Nil, nil
	})

	r.Register(NSState, "arrayLength", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.arrayLength", rc, args)
		if err != nil {
			return nil, err
		}
		return value.Num(t.Len()), nil
	})

	r.Register(NSState, "arrayPush", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.arrayPush", rc, args)
		if err != nil {
			return nil, err
		}
		t.Set(strconv.Itoa(t.Len()+1), argN(args, 1))
		return value.Nil, nil
	})

	r.Register(NSState, "arrayPop", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.arrayPop", rc, args)
		if err != nil {
			return nil, err
		}
		n := t.Len()
		if n == 0 {
			return value.Nil, nil
		}
		v := t.Get(strconv.Itoa(n))
		t.Set(strconv.Itoa(n), value.Nil)
		return v, nil
	})

	r.Register(NSState, "arrayInsert", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.arrayInsert", rc, args)
		if err != nil {
			return nil, err
		}
		idx, err := argNum("state.arrayInsert", args, 1)
		if err != nil {
			return nil, err
		}
		n := t.Len()
		p := int(idx)
		for i := n + 1; i > p; i-- {
			t.Set(strconv.Itoa(i), t.Get(strconv.Itoa(i-1)))
		}
		t.Set(strconv.Itoa(p), argN(args, 2))
		return value.Nil, nil
	})

	r.Register(NSState, "arrayRemove", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.arrayRemove", rc, args)
		if err != nil {
			return nil, err
		}
		n := t.Len()
		pos := n
		if len(args) > 1 {
			idx, err := argNum("state.arrayRemove", args, 1)
			if err != nil {
				return nil, err
			}
			pos = int(idx)
		}
		if pos < 1 || pos > n {
			return value.Nil, nil
		}
		removed := t.Get(strconv.Itoa(pos))
		for i := pos; i < n; i++ {
			t.Set(strconv.Itoa(i), t.Get(strconv.Itoa(i+1)))
		}
		t.Set(strconv.Itoa(n), value.Nil)
		return removed, nil
	})

	r.Register(NSState, "arrayContains", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.arrayContains", rc, args)
		if err != nil {
			return nil, err
		}
		target := argN(args, 1)
		for i := 1; i <= t.Len(); i++ {
			if value.Equals(t.Get(strconv.Itoa(i)), target) {
				return value.True, nil
			}
		}
		return value.False, nil
	})

	r.Register(NSState, "arrayIndexOf", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupArray("state.arrayIndexOf", rc, args)
		if err != nil {
			return nil, err
		}
		target := argN(args, 1)
		for i := 1; i <= t.Len(); i++ {
			if value.Equals(t.Get(strconv.Itoa(i)), target) {
				return value.Num(i), nil
			}
		}
		return value.Num(-1), nil
	})
}

func lookupMap(name string, rc RuntimeContext, args []value.Value) (*value.Table, error) {
	key, err := argStr(name, args, 0)
	if err != nil {
		return nil, err
	}
	t, ok := rc.GetMap(key)
	if !ok {
		return nil, wrongType(name, "map", value.Str(key))
	}
	return t, nil
}

func registerStateMaps(r *Registry) {
	r.Register(NSState, "getMap", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupMap("state.getMap", rc, args)
		if err != nil {
			return nil, err
		}
		return t, nil
	})

	r.Register(NSState, "hasMap", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		key, err := argStr("state.hasMap", args, 0)
		if err != nil {
			return nil, err
		}
		_, ok := rc.GetMap(key)
		return value.Bool(ok), nil
	})

	r.Register(NSState, "mapGet", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupMap("state.mapGet", rc, args)
		if err != nil {
			return nil, err
		}
		k, err := argStr("state.mapGet", args, 1)
		if err != nil {
			return nil, err
		}
		return t.Get(k), nil
	})

	r.Register(NSState, "mapSet", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupMap("state.mapSet", rc, args)
		if err != nil {
			return nil, err
		}
		k, err := argStr("state.mapSet", args, 1)
		if err != nil {
			return nil, err
		}
		t.Set(k, argN(args, 2))
		return value.Nil, nil
	})

	r.Register(NSState, "mapHas", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupMap("state.mapHas", rc, args)
		if err != nil {
			return nil, err
		}
		k, err := argStr("state.mapHas", args, 1)
		if err != nil {
			return nil, err
		}
		return value.Bool(t.Get(k).Type() != "nil"), nil
	})

	r.Register(NSState, "mapDelete", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupMap("state.mapDelete", rc, args)
		if err != nil {
			return nil, err
		}
		k, err := argStr("state.mapDelete", args, 1)
		if err != nil {
			return nil, err
		}
		t.Set(k, value.Nil)
		return value.Nil, nil
	})

	r.Register(NSState, "mapKeys", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupMap("state.mapKeys", rc, args)
		if err != nil {
			return nil, err
		}
		return stringsToArray(t.Keys()), nil
	})

	r.Register(NSState, "mapValues", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupMap("state.mapValues", rc, args)
		if err != nil {
			return nil, err
		}
		keys := t.Keys()
		elems := make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i] = t.Get(k)
		}
		return value.NewArrayTable(elems), nil
	})

	r.Register(NSState, "mapSize", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		t, err := lookupMap("state.mapSize", rc, args)
		if err != nil {
			return nil, err
		}
		return value.Num(len(t.Keys())), nil
	})
}
