package interp

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/stdlib"
	"github.com/writewhisker/whisker-script/internal/value"
	"github.com/writewhisker/whisker-script/internal/whisker"
)

// evalExpr evaluates a single expression in s against ctx (§4.4). It
// implements operator-precedence scanning directly over the source text —
// each precedence level finds its operator's top-level occurrence (last
// one for left-associative levels, first for right-associative ones) and
// recurses, rather than building a separate token stream.
func evalExpr(ctx *ExecutionContext, s string) (value.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return value.Nil, interperr.New(interperr.Syntax, "empty expression")
	}
	return evalOr(ctx, s)
}

func evalOr(ctx *ExecutionContext, s string) (value.Value, error) {
	left, _, right, found := splitTopLevel(s, []string{"or"}, true, true)
	if !found {
		return evalAnd(ctx, s)
	}
	lv, err := evalOr(ctx, left)
	if err != nil {
		return nil, err
	}
	if value.IsTruthy(lv) {
		return lv, nil
	}
	return evalAnd(ctx, right)
}

func evalAnd(ctx *ExecutionContext, s string) (value.Value, error) {
	left, _, right, found := splitTopLevel(s, []string{"and"}, true, true)
	if !found {
		return evalCompare(ctx, s)
	}
	lv, err := evalAnd(ctx, left)
	if err != nil {
		return nil, err
	}
	if !value.IsTruthy(lv) {
		return lv, nil
	}
	return evalCompare(ctx, right)
}

func evalCompare(ctx *ExecutionContext, s string) (value.Value, error) {
	left, op, right, found := splitTopLevel(s, []string{"==", "~=", "<=", ">=", "<", ">"}, true, false)
	if !found {
		return evalConcat(ctx, s)
	}
	lv, err := evalCompare(ctx, left)
	if err != nil {
		return nil, err
	}
	rv, err := evalConcat(ctx, right)
	if err != nil {
		return nil, err
	}
	switch op {
	case "==":
		return value.Bool(value.Equals(lv, rv)), nil
	case "~=":
		return value.Bool(!value.Equals(lv, rv)), nil
	default:
		c, err := value.Compare(lv, rv)
		if err != nil {
			return nil, err
		}
		switch op {
		case "<":
			return value.Bool(c < 0), nil
		case ">":
			return value.Bool(c > 0), nil
		case "<=":
			return value.Bool(c <= 0), nil
		default:
			return value.Bool(c >= 0), nil
		}
	}
}

func evalConcat(ctx *ExecutionContext, s string) (value.Value, error) {
	left, _, right, found := splitTopLevel(s, []string{".."}, false, false)
	if !found {
		return evalAdditive(ctx, s)
	}
	lv, err := evalAdditive(ctx, left)
	if err != nil {
		return nil, err
	}
	rv, err := evalConcat(ctx, right)
	if err != nil {
		return nil, err
	}
	return value.Str(value.ToString(lv) + value.ToString(rv)), nil
}

func evalAdditive(ctx *ExecutionContext, s string) (value.Value, error) {
	left, op, right, found := splitTopLevel(s, []string{"+", "-"}, true, false)
	if !found {
		return evalMultiplicative(ctx, s)
	}
	lv, err := evalAdditive(ctx, left)
	if err != nil {
		return nil, err
	}
	rv, err := evalMultiplicative(ctx, right)
	if err != nil {
		return nil, err
	}
	ln, err := value.ToNumber(lv)
	if err != nil {
		return nil, err
	}
	rn, err := value.ToNumber(rv)
	if err != nil {
		return nil, err
	}
	if op == "+" {
		return ln + rn, nil
	}
	return ln - rn, nil
}

func evalMultiplicative(ctx *ExecutionContext, s string) (value.Value, error) {
	left, op, right, found := splitTopLevel(s, []string{"*", "/", "%"}, true, false)
	if !found {
		return evalUnary(ctx, s)
	}
	lv, err := evalMultiplicative(ctx, left)
	if err != nil {
		return nil, err
	}
	rv, err := evalUnary(ctx, right)
	if err != nil {
		return nil, err
	}
	ln, err := value.ToNumber(lv)
	if err != nil {
		return nil, err
	}
	rn, err := value.ToNumber(rv)
	if err != nil {
		return nil, err
	}
	switch op {
	case "*":
		return ln * rn, nil
	case "/":
		// §4.4: the string path returns 0 on division by zero rather than
		// raising, unlike the AST evaluator (§7).
		if rn == 0 {
			return value.Num(0), nil
		}
		return ln / rn, nil
	default:
		if rn == 0 {
			return value.Num(0), nil
		}
		return value.Num(math.Mod(float64(ln), float64(rn))), nil
	}
}

func evalUnary(ctx *ExecutionContext, s string) (value.Value, error) {
	s = strings.TrimSpace(s)
	if rest, ok := hasWordPrefix(s, "not"); ok {
		v, err := evalUnary(ctx, rest)
		if err != nil {
			return nil, err
		}
		return value.Bool(!value.IsTruthy(v)), nil
	}
	if strings.HasPrefix(s, "#") {
		v, err := evalUnary(ctx, s[1:])
		if err != nil {
			return nil, err
		}
		return lenOf(v)
	}
	if strings.HasPrefix(s, "-") {
		v, err := evalUnary(ctx, s[1:])
		if err != nil {
			return nil, err
		}
		n, err := value.ToNumber(v)
		if err != nil {
			return nil, err
		}
		return -n, nil
	}
	return evalPow(ctx, s)
}

func evalPow(ctx *ExecutionContext, s string) (value.Value, error) {
	left, _, right, found := splitTopLevel(s, []string{"^"}, false, false)
	if !found {
		return evalPrimary(ctx, s)
	}
	lv, err := evalPrimary(ctx, left)
	if err != nil {
		return nil, err
	}
	rv, err := evalPow(ctx, right)
	if err != nil {
		return nil, err
	}
	ln, err := value.ToNumber(lv)
	if err != nil {
		return nil, err
	}
	rn, err := value.ToNumber(rv)
	if err != nil {
		return nil, err
	}
	return value.Num(math.Pow(float64(ln), float64(rn))), nil
}

func evalPrimary(ctx *ExecutionContext, s string) (value.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, interperr.New(interperr.Syntax, "empty expression")
	}

	switch s {
	case "true":
		return value.True, nil
	case "false":
		return value.False, nil
	case "nil":
		return value.Nil, nil
	}

	switch s[0] {
	case '\'', '"':
		lit, rest, err := scanStringLiteral(s)
		if err != nil {
			return nil, err
		}
		return applyPostfix(ctx, value.Str(lit), "", rest)
	case '{':
		return evalTableConstructor(ctx, s)
	case '(':
		inner, rest, err := scanGroup(s, '(', ')')
		if err != nil {
			return nil, err
		}
		v, err := evalExpr(ctx, inner)
		if err != nil {
			return nil, err
		}
		return applyPostfix(ctx, v, "", rest)
	}

	if isDigit(rune(s[0])) {
		return evalNumberAndPostfix(ctx, s)
	}

	return evalIdentChain(ctx, s)
}

func evalNumberAndPostfix(ctx *ExecutionContext, s string) (value.Value, error) {
	n := len(s)
	i := 0
	if i+1 < n && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		i += 2
		for i < n && isHexDigit(s[i]) {
			i++
		}
	} else {
		for i < n && (isDigit(rune(s[i])) || s[i] == '.') {
			i++
		}
		if i < n && (s[i] == 'e' || s[i] == 'E') {
			j := i + 1
			if j < n && (s[j] == '+' || s[j] == '-') {
				j++
			}
			if j < n && isDigit(rune(s[j])) {
				i = j
				for i < n && isDigit(rune(s[i])) {
					i++
				}
			}
		}
	}
	numStr := s[:i]
	num, ok := value.ParseNumber(numStr)
	if !ok {
		return nil, interperr.New(interperr.Syntax, "invalid number literal: %s", numStr)
	}
	return applyPostfix(ctx, num, "", s[i:])
}

func evalTableConstructor(ctx *ExecutionContext, s string) (value.Value, error) {
	inner, rest, err := scanGroup(s, '{', '}')
	if err != nil {
		return nil, err
	}
	parts := splitTopLevelCommas(inner)
	t := value.NewTable()
	arrIdx := 1
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "[") {
			keyExpr, remAfterKey, err := scanGroup(p, '[', ']')
			if err != nil {
				return nil, err
			}
			remAfterKey = strings.TrimSpace(remAfterKey)
			if !strings.HasPrefix(remAfterKey, "=") {
				return nil, interperr.New(interperr.Syntax, "expected '=' in table constructor entry: %s", p)
			}
			kv, err := evalExpr(ctx, keyExpr)
			if err != nil {
				return nil, err
			}
			vv, err := evalExpr(ctx, remAfterKey[1:])
			if err != nil {
				return nil, err
			}
			t.Set(value.Stringify(kv), vv)
			continue
		}
		if name, rem := scanIdentifier(p); name != "" {
			trimmedRem := strings.TrimSpace(rem)
			if strings.HasPrefix(trimmedRem, "=") && !strings.HasPrefix(trimmedRem, "==") {
				vv, err := evalExpr(ctx, trimmedRem[1:])
				if err != nil {
					return nil, err
				}
				t.Set(name, vv)
				continue
			}
		}
		vv, err := evalExpr(ctx, p)
		if err != nil {
			return nil, err
		}
		t.Set(strconv.Itoa(arrIdx), vv)
		arrIdx++
	}
	return applyPostfix(ctx, t, "", rest)
}

var globalBuiltins = map[string]bool{
	"print": true, "type": true, "tostring": true, "tonumber": true,
	"assert": true, "error": true, "pairs": true, "ipairs": true,
	"next": true, "select": true, "rawget": true, "rawset": true,
	"rawequal": true, "setmetatable": true, "getmetatable": true,
}

func evalIdentChain(ctx *ExecutionContext, s string) (value.Value, error) {
	name, rest := scanIdentifier(s)
	if name == "" {
		return nil, interperr.New(interperr.Syntax, "invalid expression: %s", s)
	}

	switch name {
	case "math", "string", "table":
		return evalNamespaceChain(ctx, stdlib.Namespace(name), rest)
	case "whisker":
		return evalWhiskerChain(ctx, rest)
	}

	if globalBuiltins[name] {
		args, rem, err := scanCallArgs(ctx, rest)
		if err != nil {
			return nil, err
		}
		v, err := stdlib.Default.Call(ctx, stdlib.NSGlobal, name, args)
		if err != nil {
			return nil, err
		}
		return applyPostfix(ctx, v, "", rem)
	}

	v, ok := ctx.Lookup(name)
	if !ok {
		if fn, ok2 := ctx.Functions[name]; ok2 {
			v = fn
		} else if strings.HasPrefix(strings.TrimSpace(rest), "(") {
			return nil, interperr.New(interperr.NameError, "attempt to call a nil value '%s'", name)
		} else {
			v = value.Nil
		}
	}
	return applyPostfix(ctx, v, name, rest)
}

// evalNamespaceChain dispatches math.*/string.*/table.* references. A
// reference with no call parens (e.g. bare `math.pi`) is treated as an
// implicit zero-argument call, which is how constant-like entries such as
// math.pi/math.huge are exposed alongside ordinary functions (§4.6).
func evalNamespaceChain(ctx *ExecutionContext, ns stdlib.Namespace, rest string) (value.Value, error) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ".") {
		return nil, interperr.New(interperr.Syntax, "expected '.' after namespace '%s'", ns)
	}
	name, rem := scanIdentifier(rest[1:])
	if name == "" {
		return nil, interperr.New(interperr.Syntax, "expected function name after '%s.'", ns)
	}

	var args []value.Value
	restAfter := rem
	if strings.HasPrefix(strings.TrimSpace(rem), "(") {
		var err error
		args, restAfter, err = scanCallArgs(ctx, rem)
		if err != nil {
			return nil, err
		}
	}
	v, err := stdlib.Default.Call(ctx, ns, name, args)
	if err != nil {
		return nil, err
	}
	return applyPostfix(ctx, v, "", restAfter)
}

func evalWhiskerChain(ctx *ExecutionContext, rest string) (value.Value, error) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ".") {
		return nil, interperr.New(interperr.Syntax, "expected '.' after 'whisker'")
	}
	first, rem := scanIdentifier(rest[1:])
	if first == "" {
		return nil, interperr.New(interperr.Syntax, "expected name after 'whisker.'")
	}

	ns := whisker.Namespace(first)
	name := first
	argsSrc := rem
	switch ns {
	case whisker.NSState, whisker.NSPassage, whisker.NSHistory, whisker.NSChoice, whisker.NSHook:
		trimmedRem := strings.TrimSpace(rem)
		if !strings.HasPrefix(trimmedRem, ".") {
			return nil, interperr.New(interperr.Syntax, "expected '.' after 'whisker.%s'", first)
		}
		var n2 string
		n2, argsSrc = scanIdentifier(trimmedRem[1:])
		if n2 == "" {
			return nil, interperr.New(interperr.Syntax, "expected function name after 'whisker.%s.'", first)
		}
		name = n2
	default:
		ns = whisker.NSGlobal
	}

	if ctx.RC == nil {
		return nil, interperr.New(interperr.NameError, "whisker.* call with no runtime context attached")
	}
	args, restAfter, err := scanCallArgs(ctx, argsSrc)
	if err != nil {
		return nil, err
	}
	v, err := whisker.Default.Call(ctx.RC, ns, name, args)
	if err != nil {
		return nil, err
	}
	return applyPostfix(ctx, v, "", restAfter)
}

func applyPostfix(ctx *ExecutionContext, base value.Value, baseName string, rest string) (value.Value, error) {
	_ = baseName
	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return base, nil
		}
		switch rest[0] {
		case '.':
			prop, rem := scanIdentifier(rest[1:])
			if prop == "" {
				return nil, interperr.New(interperr.Syntax, "expected identifier after '.' in: %s", rest)
			}
			trimmedRem := strings.TrimSpace(rem)
			if strings.HasPrefix(trimmedRem, "(") {
				fnv, err := memberGet(base, prop)
				if err != nil {
					return nil, err
				}
				fn, ok := fnv.(*value.Func)
				if !ok {
					return nil, interperr.New(interperr.TypeMismatch, "attempt to call a %s value '%s'", value.TypeName(fnv), prop)
				}
				args, rem2, err := scanCallArgs(ctx, rem)
				if err != nil {
					return nil, err
				}
				v, err := ctx.Call(fn, args)
				if err != nil {
					return nil, err
				}
				base, rest = v, rem2
				continue
			}
			v, err := memberGet(base, prop)
			if err != nil {
				return nil, err
			}
			base, rest = v, rem
		case '[':
			inner, rem, err := scanGroup(rest, '[', ']')
			if err != nil {
				return nil, err
			}
			idx, err := evalExpr(ctx, inner)
			if err != nil {
				return nil, err
			}
			v, err := indexGet(base, idx)
			if err != nil {
				return nil, err
			}
			base, rest = v, rem
		case '(':
			fn, ok := base.(*value.Func)
			if !ok {
				return nil, interperr.New(interperr.TypeMismatch, "attempt to call a %s value", value.TypeName(base))
			}
			args, rem, err := scanCallArgs(ctx, rest)
			if err != nil {
				return nil, err
			}
			v, err := ctx.Call(fn, args)
			if err != nil {
				return nil, err
			}
			base, rest = v, rem
		default:
			return nil, interperr.New(interperr.Syntax, "unexpected trailing input: %s", rest)
		}
	}
}

func memberGet(base value.Value, prop string) (value.Value, error) {
	t, ok := base.(*value.Table)
	if !ok {
		return nil, interperr.New(interperr.TypeMismatch, "attempt to index a %s value (field '%s')", value.TypeName(base), prop)
	}
	return t.Get(prop), nil
}

func indexGet(base, idx value.Value) (value.Value, error) {
	t, ok := base.(*value.Table)
	if !ok {
		return nil, interperr.New(interperr.TypeMismatch, "attempt to index a %s value", value.TypeName(base))
	}
	return t.Get(value.Stringify(idx)), nil
}

func lenOf(v value.Value) (value.Value, error) {
	switch vv := v.(type) {
	case value.Str:
		return value.Num(len(string(vv))), nil
	case *value.Table:
		return value.Num(vv.Len()), nil
	default:
		return nil, interperr.New(interperr.TypeMismatch, "attempt to get length of a %s value", value.TypeName(v))
	}
}

// --- scanning helpers -------------------------------------------------

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentCont(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }
func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isHexDigit(c byte) bool {
	return isDigit(rune(c)) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func scanIdentifier(s string) (string, string) {
	if len(s) == 0 || !isIdentStart(rune(s[0])) {
		return "", s
	}
	i := 1
	for i < len(s) && isIdentCont(rune(s[i])) {
		i++
	}
	return s[:i], s[i:]
}

// hasWordPrefix reports whether s begins with word as a whole token
// (followed by whitespace, '(', or end of string), returning the
// remainder trimmed of the word and any immediately following space.
func hasWordPrefix(s, word string) (string, bool) {
	if !strings.HasPrefix(s, word) {
		return "", false
	}
	rem := s[len(word):]
	if rem == "" {
		return "", true
	}
	c := rem[0]
	if c == ' ' || c == '\t' {
		return strings.TrimSpace(rem), true
	}
	if c == '(' {
		return rem, true
	}
	return "", false
}

func scanStringLiteral(s string) (string, string, error) {
	quote := s[0]
	var sb strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(s[i+1])
			}
			i += 2
			continue
		}
		if c == quote {
			return sb.String(), s[i+1:], nil
		}
		sb.WriteByte(c)
		i++
	}
	return "", "", interperr.New(interperr.Syntax, "unterminated string literal")
}

// scanGroup consumes a balanced open/close bracket group starting at
// s[0] == open, returning the interior text and everything after the
// matching close.
func scanGroup(s string, open, close byte) (string, string, error) {
	if len(s) == 0 || s[0] != open {
		return "", s, interperr.New(interperr.Syntax, "expected '%c'", open)
	}
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], nil
			}
		}
	}
	return "", "", interperr.New(interperr.Syntax, "unbalanced '%c%c'", open, close)
}

func splitTopLevelCommas(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var parts []string
	depth := 0
	var quote byte
	start := 0
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
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func scanCallArgs(ctx *ExecutionContext, s string) ([]value.Value, string, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "(") {
		return nil, s, interperr.New(interperr.Syntax, "expected '(' in: %s", s)
	}
	inner, rest, err := scanGroup(trimmed, '(', ')')
	if err != nil {
		return nil, s, err
	}
	parts := splitTopLevelCommas(inner)
	args := make([]value.Value, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := evalExpr(ctx, p)
		if err != nil {
			return nil, s, err
		}
		args = append(args, v)
	}
	return args, rest, nil
}

// splitTopLevel scans s left to right, tracking quote/bracket depth, for
// the first or last (depending on rightmost) occurrence of any op in ops.
// wordOps requires a word boundary on both sides (for "and"/"or"/"not").
// Non-word "-"/"+" occurrences that are actually a unary sign (not
// preceded by an operand) are skipped so that e.g. "-3" inside "a + -3"
// isn't mistaken for a second additive operator.
func splitTopLevel(s string, ops []string, rightmost, wordOps bool) (string, string, string, bool) {
	depth := 0
	var quote byte
	bestPos := -1
	bestOp := ""
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
		if depth != 0 {
			continue
		}

		for _, op := range ops {
			if i+len(op) > n || s[i:i+len(op)] != op {
				continue
			}
			if wordOps {
				if i > 0 && isIdentCont(rune(s[i-1])) {
					continue
				}
				end := i + len(op)
				if end < n && isIdentCont(rune(s[end])) {
					continue
				}
			} else if (op == "-" || op == "+") && isUnaryPosition(s, i) {
				continue
			}
			bestPos = i
			bestOp = op
			if !rightmost {
				return s[:i], op, s[i+len(op):], true
			}
			break
		}
	}

	if bestPos < 0 {
		return "", "", "", false
	}
	return s[:bestPos], bestOp, s[bestPos+len(bestOp):], true
}

func isUnaryPosition(s string, i int) bool {
	j := i - 1
	for j >= 0 && (s[j] == ' ' || s[j] == '\t') {
		j--
	}
	if j < 0 {
		return true
	}
	c := s[j]
	if isIdentCont(rune(c)) || c == ')' || c == ']' || c == '}' || c == '\'' || c == '"' {
		return false
	}
	return true
}
