// Package interp implements the direct string interpreter (§4.2-§4.5): a
// tree-walker that re-splits and re-scans raw source text per statement
// rather than building a persistent AST, mirroring the teacher's original
// line-oriented script evaluation style adapted to Lua-subset statement
// forms.
package interp

import (
	"strings"

	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
)

// signal reports a non-local exit from execBlock/execStatement: a loop
// break or a function return (§4.3).
type signal int

const (
	sigNone signal = iota
	sigBreak
	sigReturn
)

// Run executes src as a top-level chunk against ctx. Recoverable
// per-statement errors are recorded into ctx.Errors and execution
// continues with the next statement; a fatal error (per Kind.IsFatal)
// aborts the whole run and is also returned directly (§5, §7).
func Run(ctx *ExecutionContext, src string) error {
	_, _, err := execBlock(ctx, Split(src))
	return err
}

// execBlock runs stmts in order, stopping early on break/return or a
// fatal error.
func execBlock(ctx *ExecutionContext, stmts []Statement) (value.Value, signal, error) {
	for _, stmt := range stmts {
		if ctx.Trace != nil {
			ctx.Trace(stmt)
		}
		v, sig, err := execStatement(ctx, stmt)
		if err != nil {
			ierr, ok := err.(*interperr.Error)
			if !ok {
				ierr = interperr.New(interperr.Internal, "%s", err.Error())
			}
			ctx.RecordError(ierr, stmt.Text, stmt.Line)
			if ierr.Kind.IsFatal() {
				return nil, sigNone, ierr
			}
			continue
		}
		if sig != sigNone {
			return v, sig, nil
		}
	}
	return value.Nil, sigNone, nil
}

// execStatement dispatches a single statement by its leading keyword, in
// the fixed order break; function defs; return; if; while; repeat; for;
// local; assignment; call-expression; bare expression (§4.3).
func execStatement(ctx *ExecutionContext, stmt Statement) (value.Value, signal, error) {
	text := strings.TrimSpace(stmt.Text)
	if text == "" {
		return value.Nil, sigNone, nil
	}
	word := firstWord(text)

	switch {
	case text == "break":
		return value.Nil, sigBreak, nil

	case word == "function":
		return value.Nil, sigNone, defineFunction(ctx, text, false)

	case word == "local" && firstWord(strings.TrimSpace(strings.TrimPrefix(text, "local"))) == "function":
		rest := strings.TrimSpace(strings.TrimPrefix(text, "local"))
		return value.Nil, sigNone, defineFunction(ctx, rest, true)

	case word == "return":
		rest := strings.TrimSpace(strings.TrimPrefix(text, "return"))
		if rest == "" {
			return value.Nil, sigReturn, nil
		}
		v, err := evalExpr(ctx, rest)
		if err != nil {
			return nil, sigNone, err
		}
		return v, sigReturn, nil

	case word == "if":
		return execIf(ctx, text)

	case word == "while":
		return execWhile(ctx, text)

	case word == "repeat":
		return execRepeat(ctx, text)

	case word == "for":
		return execFor(ctx, text)

	case word == "local":
		return value.Nil, sigNone, execLocal(ctx, text)

	default:
		return execExprStatement(ctx, text)
	}
}

func execExprStatement(ctx *ExecutionContext, text string) (value.Value, signal, error) {
	if target, op, rhs, ok := scanAssignOp(text); ok {
		return value.Nil, sigNone, execAssignment(ctx, target, op, rhs)
	}
	_, err := evalExpr(ctx, text)
	return value.Nil, sigNone, err
}

func execLocal(ctx *ExecutionContext, text string) error {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "local"))
	namesText := rest
	var valuesText string
	if target, op, rhs, ok := scanAssignOp(rest); ok && op == "=" {
		namesText = target
		valuesText = rhs
	}
	names := splitTopLevelCommas(namesText)
	var values []string
	if valuesText != "" {
		values = splitTopLevelCommas(valuesText)
	}
	for i, n := range names {
		name := strings.TrimSpace(n)
		if name == "" {
			continue
		}
		v := value.Value(value.Nil)
		if i < len(values) {
			vv, err := evalExpr(ctx, strings.TrimSpace(values[i]))
			if err != nil {
				return err
			}
			v = vv
		}
		ctx.DeclareLocal(name, v)
	}
	return nil
}

func execAssignment(ctx *ExecutionContext, target, op, rhsText string) error {
	rv, err := evalExpr(ctx, rhsText)
	if err != nil {
		return err
	}
	if op != "=" {
		cur, err := evalExpr(ctx, target)
		if err != nil {
			return err
		}
		cn, err := value.ToNumber(cur)
		if err != nil {
			return err
		}
		rn, err := value.ToNumber(rv)
		if err != nil {
			return err
		}
		switch op {
		case "+=":
			rv = cn + rn
		case "-=":
			rv = cn - rn
		case "*=":
			rv = cn * rn
		case "/=":
			// §4.4: the string path returns 0 on division by zero rather
			// than raising, unlike the AST evaluator (§7).
			if rn == 0 {
				rv = value.Num(0)
			} else {
				rv = cn / rn
			}
		}
	}
	return assignTo(ctx, target, rv)
}

func assignTo(ctx *ExecutionContext, target string, v value.Value) error {
	target = strings.TrimSpace(target)
	name, rest := scanIdentifier(target)
	if name == "" {
		return interperr.New(interperr.Syntax, "invalid assignment target: %s", target)
	}
	if strings.TrimSpace(rest) == "" {
		ctx.Assign(name, v)
		return nil
	}

	base, ok := ctx.Lookup(name)
	if !ok {
		if fn, ok2 := ctx.Functions[name]; ok2 {
			base = fn
		} else {
			return interperr.New(interperr.NameError, "attempt to index a nil value '%s'", name)
		}
	}
	return assignChain(ctx, base, rest, v)
}

func assignChain(ctx *ExecutionContext, base value.Value, rest string, v value.Value) error {
	rest = strings.TrimSpace(rest)
	for {
		if rest == "" {
			return interperr.New(interperr.Syntax, "invalid assignment target")
		}
		switch rest[0] {
		case '.':
			prop, rem := scanIdentifier(rest[1:])
			if prop == "" {
				return interperr.New(interperr.Syntax, "expected identifier after '.' in assignment target")
			}
			if strings.TrimSpace(rem) == "" {
				t, ok := base.(*value.Table)
				if !ok {
					return interperr.New(interperr.TypeMismatch, "attempt to index a %s value (field '%s')", value.TypeName(base), prop)
				}
				t.Set(prop, v)
				return nil
			}
			next, err := memberGet(base, prop)
			if err != nil {
				return err
			}
			base, rest = next, rem
		case '[':
			inner, rem, err := scanGroup(rest, '[', ']')
			if err != nil {
				return err
			}
			idx, err := evalExpr(ctx, inner)
			if err != nil {
				return err
			}
			if strings.TrimSpace(rem) == "" {
				t, ok := base.(*value.Table)
				if !ok {
					return interperr.New(interperr.TypeMismatch, "attempt to index a %s value", value.TypeName(base))
				}
				t.Set(value.Stringify(idx), v)
				return nil
			}
			next, err := indexGet(base, idx)
			if err != nil {
				return err
			}
			base, rest = next, rem
		default:
			return interperr.New(interperr.Syntax, "invalid assignment target near: %s", rest)
		}
	}
}

// scanAssignOp finds the first top-level assignment operator (=, +=, -=,
// *=, /=) in s, carefully distinguishing it from the comparison operators
// ==, ~=, <=, >= that also contain '='.
func scanAssignOp(s string) (string, string, string, bool) {
	depth := 0
	var quote byte
	n := len(s)
	for i := 0; i < n; i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' && i+1 < n {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			continue
		case '(', '[', '{':
			depth++
			continue
		case ')', ']', '}':
			depth--
			continue
		}
		if depth != 0 || c != '=' {
			continue
		}
		if i+1 < n && s[i+1] == '=' {
			continue // '==' comparison
		}
		if i > 0 {
			prev := s[i-1]
			switch prev {
			case '+', '-', '*', '/':
				if i >= 2 && s[i-2] == '=' {
					continue
				}
				return strings.TrimSpace(s[:i-1]), string(prev) + "=", strings.TrimSpace(s[i+1:]), true
			case '=', '<', '>', '~':
				continue // part of ==, <=, >=, ~=
			}
		}
		return strings.TrimSpace(s[:i]), "=", strings.TrimSpace(s[i+1:]), true
	}
	return "", "", "", false
}

func defineFunction(ctx *ExecutionContext, text string, isLocal bool) error {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "function"))
	name, rem := scanIdentifier(rest)
	if name == "" {
		return interperr.New(interperr.Syntax, "expected function name")
	}
	rem = strings.TrimSpace(rem)
	if !strings.HasPrefix(rem, "(") {
		return interperr.New(interperr.Syntax, "expected '(' after function name '%s'", name)
	}
	paramsText, afterParams, err := scanGroup(rem, '(', ')')
	if err != nil {
		return err
	}
	var params []string
	for _, p := range splitTopLevelCommas(paramsText) {
		p = strings.TrimSpace(p)
		if p != "" {
			params = append(params, p)
		}
	}
	body := stripTrailingEnd(afterParams)
	fn := value.NewUserFunction(name, params, body)
	if isLocal {
		ctx.DeclareLocal(name, fn)
	} else {
		ctx.Functions[name] = fn
	}
	return nil
}

// stripTrailingEnd removes the block's final "end" marker. Any "end" that
// belongs to a nested block necessarily appears earlier in the text, so
// trimming only the trailing occurrence is safe.
func stripTrailingEnd(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "end")
	return strings.TrimSpace(s)
}
