// Package evaluator implements the AST expression evaluator (§4.7): a
// typed-node walker that operates over externally-produced ast.Node trees
// rather than re-scanning source text. It targets structured story scripts
// (the WLS parser's output) and, accordingly, enforces a call-depth cap
// instead of the string interpreter's iteration cap. It shares value
// equality, ordering and coercion rules with internal/interp via the
// internal/value package rather than duplicating them.
package evaluator

import (
	"math"
	"math/rand"

	"github.com/writewhisker/whisker-script/internal/ast"
	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
	"github.com/writewhisker/whisker-script/internal/whisker"
)

// MaxCallDepth bounds recursive Call evaluation (§4.7, §5).
const MaxCallDepth = 100

// Evaluator walks ast.Node trees against a borrowed RuntimeContext. It owns
// no story state itself — only the call-depth counter — matching §3's
// "the evaluator holds only a borrowed reference and a call-depth counter".
type Evaluator struct {
	RC    whisker.RuntimeContext
	depth int
	rng   *rand.Rand
}

// New returns an Evaluator bound to rc.
func New(rc whisker.RuntimeContext) *Evaluator {
	return &Evaluator{RC: rc, rng: rand.New(rand.NewSource(1))}
}

// Eval evaluates n and returns its value, or the first error encountered.
// Errors are never swallowed — the caller sees every TypeMismatch,
// DivisionByZero, NameError, etc. (§7's "AST evaluator surfaces all errors
// to its caller").
func (e *Evaluator) Eval(n ast.Node) (value.Value, error) {
	switch node := n.(type) {
	case *ast.Literal:
		return e.evalLiteral(node)
	case *ast.Variable:
		return e.evalVariable(node)
	case *ast.Identifier:
		return e.evalIdentifier(node)
	case *ast.Binary:
		return e.evalBinary(node)
	case *ast.Unary:
		return e.evalUnary(node)
	case *ast.Call:
		return e.evalCall(node)
	case *ast.Member:
		return e.evalMemberOrNamespace(node)
	case *ast.Assignment:
		return e.evalAssignment(node)
	default:
		return nil, interperr.New(interperr.Internal, "unknown AST node type %T", n)
	}
}

func (e *Evaluator) evalLiteral(n *ast.Literal) (value.Value, error) {
	switch n.ValueType {
	case ast.ValueNil:
		return value.Nil, nil
	case ast.ValueBoolean:
		b, _ := n.Value.(bool)
		return value.Bool(b), nil
	case ast.ValueNumber:
		switch v := n.Value.(type) {
		case float64:
			return value.Num(v), nil
		case int:
			return value.Num(float64(v)), nil
		default:
			return nil, interperr.New(interperr.Internal, "literal number has non-numeric payload %T", n.Value)
		}
	case ast.ValueString:
		s, _ := n.Value.(string)
		return value.Str(s), nil
	default:
		return nil, interperr.New(interperr.Internal, "unknown literal value type %q", n.ValueType)
	}
}

func (e *Evaluator) evalVariable(n *ast.Variable) (value.Value, error) {
	v, ok := e.RC.GetVar(n.Name)
	if !ok {
		return value.Nil, nil
	}
	return v, nil
}

// evalIdentifier handles a bare name referenced outside of a Call. No bare
// identifier has a standalone value on this path: the reserved namespace
// roots and every other name fail with NameError.
func (e *Evaluator) evalIdentifier(n *ast.Identifier) (value.Value, error) {
	switch n.Name {
	case "whisker", "math", "string":
		return nil, interperr.New(interperr.NameError, "'%s' is a namespace, not a value", n.Name)
	}
	return nil, interperr.New(interperr.NameError, "unknown identifier '%s'", n.Name)
}

func (e *Evaluator) evalBinary(n *ast.Binary) (value.Value, error) {
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		lv, err := e.Eval(n.Left)
		if err != nil {
			return nil, err
		}
		truthy := value.IsTruthy(lv)
		if n.Op == ast.OpAnd && !truthy {
			return lv, nil
		}
		if n.Op == ast.OpOr && truthy {
			return lv, nil
		}
		return e.Eval(n.Right)
	}

	lv, err := e.Eval(n.Left)
	if err != nil {
		return nil, err
	}
	rv, err := e.Eval(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ast.OpEq:
		return value.Bool(value.Equals(lv, rv)), nil
	case ast.OpNeq:
		return value.Bool(!value.Equals(lv, rv)), nil
	case ast.OpLt, ast.OpGt, ast.OpLte, ast.OpGte:
		c, err := value.Compare(lv, rv)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case ast.OpLt:
			return value.Bool(c < 0), nil
		case ast.OpGt:
			return value.Bool(c > 0), nil
		case ast.OpLte:
			return value.Bool(c <= 0), nil
		default:
			return value.Bool(c >= 0), nil
		}
	case ast.OpConc:
		return value.Str(value.ToString(lv) + value.ToString(rv)), nil
	}

	ln, err := value.ToNumber(lv)
	if err != nil {
		return nil, err
	}
	rn, err := value.ToNumber(rv)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpAdd:
		return ln + rn, nil
	case ast.OpSub:
		return ln - rn, nil
	case ast.OpMul:
		return ln * rn, nil
	case ast.OpDiv:
		if rn == 0 {
			return nil, interperr.New(interperr.DivisionByZero, "attempt to divide by zero")
		}
		return ln / rn, nil
	case ast.OpMod:
		if rn == 0 {
			return nil, interperr.New(interperr.DivisionByZero, "attempt to perform 'n%%0'")
		}
		return modFloat(ln, rn), nil
	case ast.OpPow:
		return powFloat(ln, rn), nil
	default:
		return nil, interperr.New(interperr.Internal, "unknown binary operator %q", n.Op)
	}
}

func (e *Evaluator) evalUnary(n *ast.Unary) (value.Value, error) {
	v, err := e.Eval(n.Arg)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpNot:
		return value.Bool(!value.IsTruthy(v)), nil
	case ast.OpNeg:
		num, err := value.ToNumber(v)
		if err != nil {
			return nil, err
		}
		return -num, nil
	case ast.OpLen:
		return lengthOf(v)
	default:
		return nil, interperr.New(interperr.Internal, "unknown unary operator %q", n.Op)
	}
}

func lengthOf(v value.Value) (value.Value, error) {
	switch vv := v.(type) {
	case value.Str:
		return value.Num(len(string(vv))), nil
	case *value.Table:
		return value.Num(vv.Len()), nil
	default:
		return nil, interperr.New(interperr.TypeMismatch, "attempt to get length of a %s value", value.TypeName(v))
	}
}

func (e *Evaluator) evalMember(n *ast.Member) (value.Value, error) {
	base, err := e.Eval(n.Object)
	if err != nil {
		return nil, err
	}
	t, ok := base.(*value.Table)
	if !ok {
		return nil, interperr.New(interperr.TypeMismatch, "attempt to index a %s value (field '%s')", value.TypeName(base), n.Property)
	}
	return t.Get(n.Property), nil
}

func (e *Evaluator) evalAssignment(n *ast.Assignment) (value.Value, error) {
	rv, err := e.Eval(n.Value)
	if err != nil {
		return nil, err
	}

	if n.Op != ast.AssignSet {
		cur, err := e.Eval(n.Target)
		if err != nil {
			return nil, err
		}
		cn, err := value.ToNumber(cur)
		if err != nil {
			return nil, err
		}
		rn, err := value.ToNumber(rv)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case ast.AssignAdd:
			rv = cn + rn
		case ast.AssignSub:
			rv = cn - rn
		case ast.AssignMul:
			rv = cn * rn
		case ast.AssignDiv:
			if rn == 0 {
				return nil, interperr.New(interperr.DivisionByZero, "attempt to divide by zero")
			}
			rv = cn / rn
		}
	}

	switch target := n.Target.(type) {
	case *ast.Variable:
		e.RC.SetVar(target.Name, rv)
		return rv, nil
	case *ast.Member:
		base, err := e.Eval(target.Object)
		if err != nil {
			return nil, err
		}
		t, ok := base.(*value.Table)
		if !ok {
			return nil, interperr.New(interperr.TypeMismatch, "attempt to index a %s value (field '%s')", value.TypeName(base), target.Property)
		}
		t.Set(target.Property, rv)
		return rv, nil
	default:
		return nil, interperr.New(interperr.Syntax, "invalid assignment target node %T", n.Target)
	}
}

func modFloat(a, b value.Num) value.Num {
	return value.Num(math.Mod(float64(a), float64(b)))
}

func powFloat(a, b value.Num) value.Num {
	return value.Num(math.Pow(float64(a), float64(b)))
}
