package whisker

import (
	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
)

// Fn is a host-API implementation, mirroring internal/stdlib.Fn but
// operating over a RuntimeContext instead of an internal execution
// context, since §4.8's whisker.* namespace is host-state-facing rather
// than language-runtime-facing.
type Fn func(rc RuntimeContext, args []value.Value) (value.Value, error)

// Namespace groups host-API functions under a dotted prefix (§4.8).
type Namespace string

const (
	NSGlobal  Namespace = ""
	NSState   Namespace = "state"
	NSPassage Namespace = "passage"
	NSHistory Namespace = "history"
	NSChoice  Namespace = "choice"
	NSHook    Namespace = "hook"
)

// Registry is a namespace-qualified lookup table of host-API functions,
// the same Registry+Context shape as internal/stdlib.
type Registry struct {
	fns map[string]Fn
}

func NewRegistry() *Registry { return &Registry{fns: make(map[string]Fn)} }

func key(ns Namespace, name string) string {
	if ns == NSGlobal {
		return name
	}
	return string(ns) + "." + name
}

func (r *Registry) Register(ns Namespace, name string, fn Fn) {
	r.fns[key(ns, name)] = fn
}

func (r *Registry) Lookup(ns Namespace, name string) (Fn, bool) {
	fn, ok := r.fns[key(ns, name)]
	return fn, ok
}

// HasNamespace reports whether ns has at least one registered function,
// used by the evaluator to tell "whisker.state" (a namespace) apart from
// an unresolved story variable of the same name.
func (r *Registry) HasNamespace(ns Namespace) bool {
	prefix := string(ns) + "."
	for k := range r.fns {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// Call invokes a registered host-API function, wrapping "not found" as a
// NameError per §7.
func (r *Registry) Call(rc RuntimeContext, ns Namespace, name string, args []value.Value) (value.Value, error) {
	fn, ok := r.Lookup(ns, name)
	if !ok {
		full := name
		if ns != NSGlobal {
			full = string(ns) + "." + name
		}
		return nil, interperr.New(interperr.NameError, "attempt to call unknown function 'whisker.%s'", full)
	}
	return fn(rc, args)
}

// Default is the global registry populated by this package's init.
var Default *Registry

func init() {
	Default = NewRegistry()
	RegisterAll(Default)
}

// RegisterAll wires every whisker.* namespace into r.
func RegisterAll(r *Registry) {
	registerState(r)
	registerPassage(r)
	registerHistory(r)
	registerChoice(r)
	registerHook(r)
	registerTopLevel(r)
}

func argErr(name string, want, got int) error {
	return interperr.New(interperr.ArgumentType, "whisker.%s() expects %d argument(s), got %d", name, want, got)
}

func wrongType(name, wantType string, got value.Value) error {
	return interperr.New(interperr.TypeMismatch, "whisker.%s() expects %s, got %s", name, wantType, value.TypeName(got))
}

func argN(args []value.Value, i int) value.Value {
	if i < len(args) {
		return args[i]
	}
	return value.Nil
}

func argStr(name string, args []value.Value, i int) (string, error) {
	v := argN(args, i)
	s, ok := v.(value.Str)
	if !ok {
		return "", wrongType(name, "string", v)
	}
	return string(s), nil
}

func argNum(name string, args []value.Value, i int) (value.Num, error) {
	v := argN(args, i)
	n, ok := v.(value.Num)
	if !ok {
		return 0, wrongType(name, "number", v)
	}
	return n, nil
}
