package evaluator

import (
	"math"
	"strings"

	"github.com/writewhisker/whisker-script/internal/ast"
	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
	"github.com/writewhisker/whisker-script/internal/whisker"
)

var globalBuiltins = map[string]bool{
	"print": true, "type": true, "tostring": true, "tonumber": true,
}

// flattenPath collapses a chain of Identifier/Member nodes into its dotted
// name segments (e.g. `whisker.state.get` -> ["whisker","state","get"]). It
// reports false if n is not a pure dotted-identifier chain (§4.7's "Call
// resolution walks the dotted callee path into segments").
func flattenPath(n ast.Node) ([]string, bool) {
	switch node := n.(type) {
	case *ast.Identifier:
		return []string{node.Name}, true
	case *ast.Member:
		base, ok := flattenPath(node.Object)
		if !ok {
			return nil, false
		}
		return append(base, node.Property), true
	default:
		return nil, false
	}
}

func (e *Evaluator) evalCall(n *ast.Call) (value.Value, error) {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > MaxCallDepth {
		return nil, interperr.New(interperr.CallDepthExceeded, "call depth exceeded %d", MaxCallDepth)
	}

	path, ok := flattenPath(n.Callee)
	if !ok {
		return nil, interperr.New(interperr.Syntax, "call target must be a dotted name")
	}

	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := e.Eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch {
	case len(path) == 1 && globalBuiltins[path[0]]:
		return e.callGlobal(path[0], args)
	case len(path) == 2 && path[0] == "math":
		return e.callMath(path[1], args)
	case len(path) == 2 && path[0] == "string":
		return callString(path[1], args)
	case len(path) >= 2 && path[0] == "whisker":
		return e.callWhisker(path[1:], args)
	default:
		return nil, interperr.New(interperr.NameError, "unknown call target '%s'", strings.Join(path, "."))
	}
}

// evalMemberOrNamespace special-cases bare namespace constant access (math.pi,
// math.huge) in addition to ordinary table-field access, since a Member
// node whose base resolves to a namespace root has no backing *value.Table.
func (e *Evaluator) evalMemberOrNamespace(n *ast.Member) (value.Value, error) {
	if path, ok := flattenPath(n); ok && len(path) == 2 && path[0] == "math" {
		switch path[1] {
		case "pi":
			return value.Num(math.Pi), nil
		case "huge":
			return value.Num(math.Inf(1)), nil
		}
	}
	return e.evalMember(n)
}

func (e *Evaluator) callGlobal(name string, args []value.Value) (value.Value, error) {
	switch name {
	case "print":
		return whisker.Default.Call(e.RC, whisker.NSGlobal, "print", args)
	case "type":
		if len(args) == 0 {
			return nil, interperr.New(interperr.ArgumentType, "type requires 1 argument")
		}
		return value.Str(value.TypeName(args[0])), nil
	case "tostring":
		if len(args) == 0 {
			return value.Str("nil"), nil
		}
		return value.Str(value.ToString(args[0])), nil
	case "tonumber":
		if len(args) == 0 {
			return value.Nil, nil
		}
		n, err := value.ToNumber(args[0])
		if err != nil {
			return value.Nil, nil
		}
		return n, nil
	default:
		return nil, interperr.New(interperr.NameError, "unknown built-in '%s'", name)
	}
}

func numArg(args []value.Value, i int) (value.Num, error) {
	if i >= len(args) {
		return 0, interperr.New(interperr.ArgumentType, "missing argument %d", i+1)
	}
	return value.ToNumber(args[i])
}

func strArg(args []value.Value, i int) (string, error) {
	if i >= len(args) {
		return "", interperr.New(interperr.ArgumentType, "missing argument %d", i+1)
	}
	s, ok := args[i].(value.Str)
	if !ok {
		return "", interperr.New(interperr.ArgumentType, "argument %d must be a string, got %s", i+1, value.TypeName(args[i]))
	}
	return string(s), nil
}

// callMath implements math.random (with §4.7's stricter argument
// contract), math.floor, math.ceil, math.abs and math.sqrt. No other
// math.* function is available on the AST path; any other name fails
// with NameError.
func (e *Evaluator) callMath(name string, args []value.Value) (value.Value, error) {
	switch name {
	case "random":
		switch len(args) {
		case 0:
			return value.Num(e.rng.Float64()), nil
		case 1:
			m, err := numArg(args, 0)
			if err != nil {
				return nil, err
			}
			return value.Num(1 + e.rng.Int63n(int64(m))), nil
		default:
			lo, err := numArg(args, 0)
			if err != nil {
				return nil, err
			}
			hi, err := numArg(args, 1)
			if err != nil {
				return nil, err
			}
			span := int64(hi) - int64(lo) + 1
			return value.Num(int64(lo) + e.rng.Int63n(span)), nil
		}
	case "floor":
		n, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Num(math.Floor(float64(n))), nil
	case "ceil":
		n, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Num(math.Ceil(float64(n))), nil
	case "abs":
		n, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Num(math.Abs(float64(n))), nil
	case "sqrt":
		n, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Num(math.Sqrt(float64(n))), nil
	default:
		return nil, interperr.New(interperr.NameError, "unknown math function 'math.%s'", name)
	}
}

// callString implements §4.7's reduced string.* subset.
func callString(name string, args []value.Value) (value.Value, error) {
	switch name {
	case "len":
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Num(len(s)), nil
	case "upper":
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Str(strings.ToUpper(s)), nil
	case "lower":
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		return value.Str(strings.ToLower(s)), nil
	case "reverse":
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return value.Str(string(runes)), nil
	case "sub":
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		i, err := numArg(args, 1)
		if err != nil {
			return nil, err
		}
		j := value.Num(len(s))
		if len(args) > 2 {
			j, err = numArg(args, 2)
			if err != nil {
				return nil, err
			}
		}
		return value.Str(subString(s, int(i), int(j))), nil
	case "find":
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		pat, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		idx := strings.Index(s, pat)
		if idx < 0 {
			return value.Nil, nil
		}
		return value.Num(idx + 1), nil
	case "rep":
		s, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		n, err := numArg(args, 1)
		if err != nil {
			return nil, err
		}
		return value.Str(strings.Repeat(s, int(n))), nil
	case "format":
		return formatString(args)
	default:
		return nil, interperr.New(interperr.NameError, "unknown string function 'string.%s'", name)
	}
}

func subString(s string, i, j int) string {
	n := len(s)
	if i < 0 {
		i = n + i + 1
	}
	if j < 0 {
		j = n + j + 1
	}
	if i < 1 {
		i = 1
	}
	if j > n {
		j = n
	}
	if i > j {
		return ""
	}
	return s[i-1 : j]
}

// formatString implements §4.7's reduced string.format: only %s and %d,
// with %d producing tostring(arg) rather than a true integer conversion
// (documented reduced fidelity).
func formatString(args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, interperr.New(interperr.ArgumentType, "format requires a format string")
	}
	fmtStr, ok := args[0].(value.Str)
	if !ok {
		return nil, interperr.New(interperr.ArgumentType, "format's first argument must be a string")
	}
	rest := args[1:]
	var sb strings.Builder
	argi := 0
	s := string(fmtStr)
	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 's':
			if argi < len(rest) {
				sb.WriteString(value.ToString(rest[argi]))
				argi++
			}
			i++
		case 'd':
			if argi < len(rest) {
				sb.WriteString(value.ToString(rest[argi]))
				argi++
			}
			i++
		case '%':
			sb.WriteByte('%')
			i++
		default:
			sb.WriteByte(s[i])
		}
	}
	return value.Str(sb.String()), nil
}

// callWhisker dispatches every whisker.* call through the shared
// internal/whisker registry (§4.8) instead of re-implementing the host API,
// so the AST evaluator and the string interpreter (internal/interp's
// evalWhiskerChain) observe identical semantics for state/passage/history/
// choice/hook and the bare visited/random/pick/print functions.
func (e *Evaluator) callWhisker(path []string, args []value.Value) (value.Value, error) {
	ns := whisker.NSGlobal
	name := path[0]
	if len(path) >= 2 {
		switch whisker.Namespace(path[0]) {
		case whisker.NSState, whisker.NSPassage, whisker.NSHistory, whisker.NSChoice, whisker.NSHook:
			ns = whisker.Namespace(path[0])
			name = path[1]
		}
	}
	return whisker.Default.Call(e.RC, ns, name, args)
}
