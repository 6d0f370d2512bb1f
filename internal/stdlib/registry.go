// Package stdlib implements the Whisker string interpreter's standard
// library: math.*, string.*, table.*, the free functions (print, type,
// tostring, tonumber, assert, error, pairs, ipairs, next, select, rawget,
// rawset, rawequal, setmetatable, getmetatable) (§4.6).
//
// Grounded on the teacher's internal/interp/builtins Registry+Context
// pattern (category-keyed registration, a Context interface passed to
// every built-in so it can report errors without importing the caller),
// adapted from a statically-checked argument registry to Lua's dynamic
// argument lists.
package stdlib

import (
	"fmt"

	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
)

// Fn is a built-in implementation. It receives a Context (for RNG, error
// construction) and the already-evaluated argument list.
type Fn func(ctx Context, args []value.Value) (value.Value, error)

// Context is the capability surface a built-in needs from the calling
// execution context, mirroring the teacher's builtins.Context interface.
type Context interface {
	RandFloat64() float64
	RandIntRange(lo, hi int64) int64
	RandSeed(seed int64)
	Print(args []value.Value)
	// Call invokes a Whisker function value (user-defined or built-in)
	// with already-evaluated arguments, used by higher-order built-ins
	// like table.sort's optional comparator.
	Call(fn *value.Func, args []value.Value) (value.Value, error)
}

// Namespace groups built-ins under a dotted prefix: "math", "string",
// "table", or "" for the free (global) functions.
type Namespace string

const (
	NSGlobal Namespace = ""
	NSMath   Namespace = "math"
	NSString Namespace = "string"
	NSTable  Namespace = "table"
)

// Registry is a namespace-qualified lookup table of built-in functions,
// mirroring the teacher's builtins.Registry (category + name -> Fn).
type Registry struct {
	fns map[string]Fn
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]Fn)}
}

func key(ns Namespace, name string) string {
	if ns == NSGlobal {
		return name
	}
	return string(ns) + "." + name
}

// Register adds fn under ns.name (or bare name for NSGlobal).
func (r *Registry) Register(ns Namespace, name string, fn Fn) {
	r.fns[key(ns, name)] = fn
}

// Lookup finds a built-in by namespace and name.
func (r *Registry) Lookup(ns Namespace, name string) (Fn, bool) {
	fn, ok := r.fns[key(ns, name)]
	return fn, ok
}

// HasNamespace reports whether ns is a known namespace prefix at all (used by the
// expression evaluator to decide whether "math.floor" should be treated
// as a stdlib call or a user table index).
func (r *Registry) HasNamespace(ns Namespace) bool {
	prefix := string(ns) + "."
	for k := range r.fns {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// Call invokes a registered built-in, wrapping "not found" as a
// NameError per §7.
func (r *Registry) Call(ctx Context, ns Namespace, name string, args []value.Value) (value.Value, error) {
	fn, ok := r.Lookup(ns, name)
	if !ok {
		full := name
		if ns != NSGlobal {
			full = string(ns) + "." + name
		}
		return nil, interperr.New(interperr.NameError, "attempt to call unknown function '%s'", full)
	}
	return fn(ctx, args)
}

// Default is the global registry populated by this package's init,
// mirroring the teacher's builtins.DefaultRegistry.
var Default *Registry

func init() {
	Default = NewRegistry()
	RegisterAll(Default)
}

// RegisterAll wires every built-in category into r, so callers can build
// a custom registry with a different function set (e.g. a sandboxed
// subset) exactly like the teacher's RegisterAll.
func RegisterAll(r *Registry) {
	registerBase(r)
	registerMath(r)
	registerStringFns(r)
	registerTableFns(r)
}

func argErr(name string, want, got int) error {
	return interperr.New(interperr.ArgumentType, "%s() expects %d argument(s), got %d", name, want, got)
}

func wrongType(name, wantType string, got value.Value) error {
	return interperr.New(interperr.TypeMismatch, "%s() expects %s, got %s", name, wantType, value.TypeName(got))
}

func argN(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Nil
}

func fmtArgs(args []value.Value) string {
	return fmt.Sprint(args)
}
