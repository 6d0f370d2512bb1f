// Package value implements the tagged value universe of the Whisker
// scripting runtime: nil, bool, number, string, table and function, plus
// the conversion, truthiness, equality and ordering rules that operate
// over them.
//
// The shape follows the teacher's runtime value model (a Value interface
// implemented by small, focused *XxxValue structs), adapted from a
// statically-typed Pascal value set to Lua's dynamically-typed one.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the universal runtime value type. Every Lua-visible value in
// the interpreter, the AST evaluator and the host API implements it.
type Value interface {
	// Type returns the Lua type name: "nil", "boolean", "number", "string",
	// "table" or "function".
	Type() string
	// String returns the value's canonical textual representation.
	String() string
}

// Nil is the singleton nil value.
var Nil Value = nilValue{}

type nilValue struct{}

func (nilValue) Type() string   { return "nil" }
func (nilValue) String() string { return "nil" }

// Bool wraps a boolean.
type Bool bool

func (Bool) Type() string        { return "boolean" }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// True and False are the canonical boolean values.
var (
	True  Value = Bool(true)
	False Value = Bool(false)
)

// Num wraps an IEEE-754 double. All Whisker/Lua numbers are float64 (§3).
type Num float64

func (Num) Type() string { return "number" }

func (n Num) String() string {
	f := float64(n)
	if f == float64(int64(f)) && f < 1e15 && f > -1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Str wraps a Lua string.
type Str string

func (Str) Type() string     { return "string" }
func (s Str) String() string { return string(s) }

// Func is a callable value: either a user-defined function (captured
// parameter names and source body, per §4.5) or a built-in backed by the
// Go function in Builtin.
type Func struct {
	Name    string
	Params  []string
	Body    string // raw source body, re-parsed per call (§9 design note)
	Builtin BuiltinFn
}

// BuiltinFn is the Go-side implementation of a built-in function or
// standard-library entry. It receives already-evaluated arguments and
// returns a single primary result, matching the reduced multiple-return
// semantics of §1's Non-goals.
type BuiltinFn func(args []Value) (Value, error)

func (f *Func) Type() string { return "function" }
func (f *Func) String() string {
	if f.Name != "" {
		return fmt.Sprintf("function: %s", f.Name)
	}
	return "function"
}

// NewUserFunction builds a Func from parsed parameter names and body text.
func NewUserFunction(name string, params []string, body string) *Func {
	return &Func{Name: name, Params: params, Body: body}
}

// NewBuiltin wraps a Go function as a callable Value.
func NewBuiltin(name string, fn BuiltinFn) *Func {
	return &Func{Name: name, Builtin: fn}
}

// Table is an insertion-ordered mapping from stringified key to Value
// (§3). A Table additionally holds an optional metatable reference (slot
// reserved per §9 — metatables are out of scope for behavior, but the
// association is tracked so setmetatable/getmetatable round-trip).
type Table struct {
	keys []string
	data map[string]Value
	meta Value
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{data: make(map[string]Value)}
}

func (*Table) Type() string { return "table" }

func (t *Table) String() string { return "table" }

// Get returns the value bound to key, or Nil if unset.
func (t *Table) Get(key string) Value {
	if v, ok := t.data[key]; ok {
		return v
	}
	return Nil
}

// Set binds key to v. Setting a key to Nil removes it (Lua semantics:
// assigning nil to a table field deletes the field), preserving
// insertion order for all remaining keys.
func (t *Table) Set(key string, v Value) {
	if _, exists := t.data[key]; !exists {
		if _, isNil := v.(nilValue); isNil {
			return
		}
		t.keys = append(t.keys, key)
	}
	if _, isNil := v.(nilValue); isNil {
		delete(t.data, key)
		t.removeKey(key)
		return
	}
	t.data[key] = v
}

func (t *Table) removeKey(key string) {
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			return
		}
	}
}

// Keys returns the table's keys in insertion order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len implements the `#t` length operator: the largest n for which keys
// "1".."n" are all present (§3).
func (t *Table) Len() int {
	n := 0
	for {
		if _, ok := t.data[strconv.Itoa(n+1)]; !ok {
			break
		}
		n++
	}
	return n
}

// SetMetatable and Metatable manage the reserved metatable association.
func (t *Table) SetMetatable(m Value) { t.meta = m }
func (t *Table) Metatable() Value {
	if t.meta == nil {
		return Nil
	}
	return t.meta
}

// NewArrayTable builds a table from positional constructor elements
// {a, b, c}, assigning stringified integer keys starting at "1" (§3).
func NewArrayTable(elems []Value) *Table {
	t := NewTable()
	for i, v := range elems {
		t.Set(strconv.Itoa(i+1), v)
	}
	return t
}

// SortKeysNatural sorts arbitrary string keys into byte-wise lexicographic
// order, independent of insertion order (pairs() iteration stays in
// insertion order per §4.5). No built-in calls it: table.sort orders
// array elements, not keys.
func SortKeysNatural(keys []string) {
	sort.Strings(keys)
}

// IsTruthy implements Lua truthiness: nil and false are the only falsy
// values (§3).
func IsTruthy(v Value) bool {
	switch vv := v.(type) {
	case nilValue:
		return false
	case Bool:
		return bool(vv)
	default:
		return true
	}
}

// Equals implements value equality per §3/§4.1/§4.7: numeric equality is
// bit-identical float64 equality; strings compare by content; tables and
// functions compare by identity; nil equals only nil; different kinds are
// never equal.
func Equals(a, b Value) bool {
	if a == nil {
		a = Nil
	}
	if b == nil {
		b = Nil
	}
	switch av := a.(type) {
	case nilValue:
		_, ok := b.(nilValue)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Num:
		bv, ok := b.(Num)
		return ok && av == bv
	case Str:
		bv, ok := b.(Str)
		return ok && av == bv
	case *Table:
		bv, ok := b.(*Table)
		return ok && av == bv
	case *Func:
		bv, ok := b.(*Func)
		return ok && av == bv
	default:
		return false
	}
}

// TypeName formats a value's Lua type name for diagnostics, handling a
// raw nil interface defensively since host-API boundaries sometimes pass
// one.
func TypeName(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Type()
}

// Stringify renders a human-readable form of v, used by print/tostring
// and host-API diagnostics. Equivalent to v.String() but tolerant of a
// raw nil interface.
func Stringify(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}

// JoinTabbed joins the string form of each value with a TAB, the format
// print() and the Whisker top-level print() both use (§4.6, §4.8).
func JoinTabbed(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Stringify(a)
	}
	return strings.Join(parts, "\t")
}
