package evaluator

import (
	"testing"

	"github.com/writewhisker/whisker-script/internal/ast"
	"github.com/writewhisker/whisker-script/internal/memory"
	"github.com/writewhisker/whisker-script/internal/value"
)

func lit(v any, vt ast.ValueType) *ast.Literal {
	return &ast.Literal{ValueType: vt, Value: v}
}

func num(n float64) *ast.Literal { return lit(n, ast.ValueNumber) }
func str(s string) *ast.Literal  { return lit(s, ast.ValueString) }

func TestEvalArithmetic(t *testing.T) {
	e := New(memory.New())
	n := &ast.Binary{Op: ast.OpAdd, Left: num(2), Right: &ast.Binary{Op: ast.OpMul, Left: num(3), Right: num(4)}}
	got, err := e.Eval(n)
	if err != nil {
		t.Fatalf("Eval(2 + 3*4) error = %v", err)
	}
	if got != value.Num(14) {
		t.Errorf("Eval(2 + 3*4) = %v, want 14", got)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	e := New(memory.New())
	n := &ast.Binary{Op: ast.OpDiv, Left: num(1), Right: num(0)}
	if _, err := e.Eval(n); err == nil {
		t.Error("Eval(1/0) error = nil, want DivisionByZero")
	}
}

func TestEvalConcatenation(t *testing.T) {
	e := New(memory.New())
	n := &ast.Binary{Op: ast.OpConc, Left: str("a"), Right: str("b")}
	got, err := e.Eval(n)
	if err != nil || got != value.Str("ab") {
		t.Errorf("Eval(\"a\"..\"b\") = %v, %v, want \"ab\", nil", got, err)
	}
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	e := New(memory.New())

	n := &ast.Binary{Op: ast.OpAnd, Left: lit(false, ast.ValueBoolean), Right: str("unreachable")}
	got, err := e.Eval(n)
	if err != nil || got != value.Bool(false) {
		t.Errorf("Eval(false and ...) = %v, %v, want false, nil", got, err)
	}

	n = &ast.Binary{Op: ast.OpOr, Left: num(1), Right: str("unreachable")}
	got, err = e.Eval(n)
	if err != nil || got != value.Num(1) {
		t.Errorf("Eval(1 or ...) = %v, %v, want 1, nil", got, err)
	}
}

func TestEvalVariableAssignmentRoundTrip(t *testing.T) {
	rc := memory.New()
	e := New(rc)

	assign := &ast.Assignment{Op: ast.AssignSet, Target: &ast.Variable{Name: "score"}, Value: num(10)}
	if _, err := e.Eval(assign); err != nil {
		t.Fatalf("Eval(score = 10) error = %v", err)
	}

	addAssign := &ast.Assignment{Op: ast.AssignAdd, Target: &ast.Variable{Name: "score"}, Value: num(5)}
	got, err := e.Eval(addAssign)
	if err != nil || got != value.Num(15) {
		t.Errorf("Eval(score += 5) = %v, %v, want 15, nil", got, err)
	}

	v, ok := rc.GetVar("score")
	if !ok || v != value.Num(15) {
		t.Errorf("GetVar(\"score\") = %v, %v, want 15, true", v, ok)
	}
}

func TestEvalUnreferencedVariableIsNil(t *testing.T) {
	e := New(memory.New())
	got, err := e.Eval(&ast.Variable{Name: "missing"})
	if err != nil || got != value.Nil {
		t.Errorf("Eval(missing) = %v, %v, want Nil, nil", got, err)
	}
}

func TestEvalMemberAccess(t *testing.T) {
	rc := memory.New()
	e := New(rc)
	tbl := value.NewTable()
	tbl.Set("name", value.Str("Vex"))
	rc.SetVar("player", tbl)

	n := &ast.Member{Object: &ast.Variable{Name: "player"}, Property: "name"}
	got, err := e.Eval(n)
	if err != nil || got != value.Str("Vex") {
		t.Errorf("Eval(player.name) = %v, %v, want Vex, nil", got, err)
	}
}

func TestEvalMemberOnNonTableIsTypeMismatch(t *testing.T) {
	rc := memory.New()
	e := New(rc)
	rc.SetVar("n", value.Num(1))
	n := &ast.Member{Object: &ast.Variable{Name: "n"}, Property: "x"}
	if _, err := e.Eval(n); err == nil {
		t.Error("Eval(n.x) where n is a number: error = nil, want TypeMismatch")
	}
}

func TestEvalMathNamespaceConstants(t *testing.T) {
	e := New(memory.New())
	got, err := e.Eval(&ast.Member{Object: &ast.Identifier{Name: "math"}, Property: "huge"})
	if err != nil {
		t.Fatalf("Eval(math.huge) error = %v", err)
	}
	n, ok := got.(value.Num)
	if !ok || float64(n) < 1e300 {
		t.Errorf("Eval(math.huge) = %v, want a very large number", got)
	}
}

func TestEvalCallMathFloor(t *testing.T) {
	e := New(memory.New())
	call := &ast.Call{
		Callee: &ast.Member{Object: &ast.Identifier{Name: "math"}, Property: "floor"},
		Args:   []ast.Node{num(3.7)},
	}
	got, err := e.Eval(call)
	if err != nil || got != value.Num(3) {
		t.Errorf("Eval(math.floor(3.7)) = %v, %v, want 3, nil", got, err)
	}
}

func TestEvalCallGlobalType(t *testing.T) {
	e := New(memory.New())
	call := &ast.Call{Callee: &ast.Identifier{Name: "type"}, Args: []ast.Node{num(1)}}
	got, err := e.Eval(call)
	if err != nil || got != value.Str("number") {
		t.Errorf("Eval(type(1)) = %v, %v, want \"number\", nil", got, err)
	}
}

func TestEvalCallDepthExceeded(t *testing.T) {
	e := New(memory.New())
	e.depth = MaxCallDepth + 1
	call := &ast.Call{Callee: &ast.Identifier{Name: "type"}, Args: []ast.Node{num(1)}}
	if _, err := e.Eval(call); err == nil {
		t.Error("Eval at depth beyond MaxCallDepth: error = nil, want CallDepthExceeded")
	}
}

func TestEvalUnknownNodeType(t *testing.T) {
	e := New(memory.New())
	if _, err := e.Eval(nil); err == nil {
		t.Error("Eval(nil node): error = nil, want Internal error")
	}
}

func TestEvalLengthOperator(t *testing.T) {
	e := New(memory.New())
	n := &ast.Unary{Op: ast.OpLen, Arg: str("hello")}
	got, err := e.Eval(n)
	if err != nil || got != value.Num(5) {
		t.Errorf("Eval(#\"hello\") = %v, %v, want 5, nil", got, err)
	}
}
