package interp

import (
	"strings"

	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/stdlib"
	"github.com/writewhisker/whisker-script/internal/value"
)

// ifClause is one `if`/`elseif` condition and its body.
type ifClause struct {
	Cond string
	Body []Statement
}

func execIf(ctx *ExecutionContext, text string) (value.Value, signal, error) {
	if !strings.Contains(text, "\n") {
		return execIfOneLiner(ctx, text)
	}
	clauses, elseBody, err := parseIfBlock(text)
	if err != nil {
		return nil, sigNone, err
	}
	for _, cl := range clauses {
		cv, err := evalExpr(ctx, cl.Cond)
		if err != nil {
			return nil, sigNone, err
		}
		if value.IsTruthy(cv) {
			return execBlock(ctx, cl.Body)
		}
	}
	if elseBody != nil {
		return execBlock(ctx, elseBody)
	}
	return value.Nil, sigNone, nil
}

func execIfOneLiner(ctx *ExecutionContext, text string) (value.Value, signal, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "if"))
	idx := findTopLevelWord(rest, "then")
	if idx < 0 {
		return nil, sigNone, interperr.New(interperr.Syntax, "expected 'then' in if statement")
	}
	cond := strings.TrimSpace(rest[:idx])
	body := stripTrailingEnd(rest[idx+4:])
	cv, err := evalExpr(ctx, cond)
	if err != nil {
		return nil, sigNone, err
	}
	if !value.IsTruthy(cv) {
		return value.Nil, sigNone, nil
	}
	return execBlock(ctx, Split(body))
}

// parseIfBlock splits a multi-line if/elseif/else/end block into clauses,
// tracking nested-block depth the same way Split's blockDelta does so
// that elseif/else/end belonging to a nested if/while/for aren't mistaken
// for this block's own.
func parseIfBlock(text string) ([]ifClause, []Statement, error) {
	lines := strings.Split(text, "\n")
	var clauses []ifClause
	var elseBody []Statement

	var curCond string
	var curBuf []string
	var elseBuf []string
	inElse := false
	started := false
	depth := 0

	flushClause := func() {
		clauses = append(clauses, ifClause{Cond: curCond, Body: Split(strings.Join(curBuf, "\n"))})
		curBuf = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		word := firstWord(trimmed)

		if !started {
			if word != "if" {
				return nil, nil, interperr.New(interperr.Syntax, "expected 'if' at start of if-block")
			}
			idx := findTopLevelWord(strings.TrimPrefix(trimmed, "if"), "then")
			if idx < 0 {
				return nil, nil, interperr.New(interperr.Syntax, "expected 'then' in if statement")
			}
			curCond = strings.TrimSpace(strings.TrimPrefix(trimmed, "if")[:idx])
			depth = 1
			started = true
			continue
		}

		if depth == 1 && !inElse && word == "elseif" {
			flushClause()
			idx := findTopLevelWord(strings.TrimPrefix(trimmed, "elseif"), "then")
			if idx < 0 {
				return nil, nil, interperr.New(interperr.Syntax, "expected 'then' in elseif clause")
			}
			curCond = strings.TrimSpace(strings.TrimPrefix(trimmed, "elseif")[:idx])
			continue
		}
		if depth == 1 && !inElse && trimmed == "else" {
			flushClause()
			inElse = true
			continue
		}
		if depth == 1 && word == "end" {
			if inElse {
				elseBody = Split(strings.Join(elseBuf, "\n"))
			} else {
				flushClause()
			}
			depth = 0
			continue
		}

		depth += blockDelta(trimmed)
		if inElse {
			elseBuf = append(elseBuf, line)
		} else {
			curBuf = append(curBuf, line)
		}
	}

	return clauses, elseBody, nil
}

func execWhile(ctx *ExecutionContext, text string) (value.Value, signal, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "while"))
	idx := findTopLevelWord(rest, "do")
	if idx < 0 {
		return nil, sigNone, interperr.New(interperr.Syntax, "expected 'do' in while statement")
	}
	cond := strings.TrimSpace(rest[:idx])
	body := Split(stripTrailingEnd(rest[idx+2:]))

	for iter := 0; ; iter++ {
		if iter >= ctx.MaxLoopIterations {
			return nil, sigNone, interperr.New(interperr.IterationCapExceeded, "while loop exceeded %d iterations", ctx.MaxLoopIterations)
		}
		cv, err := evalExpr(ctx, cond)
		if err != nil {
			return nil, sigNone, err
		}
		if !value.IsTruthy(cv) {
			return value.Nil, sigNone, nil
		}
		v, sig, err := execBlock(ctx, body)
		if err != nil {
			return nil, sigNone, err
		}
		if sig == sigReturn {
			return v, sigReturn, nil
		}
		if sig == sigBreak {
			return value.Nil, sigNone, nil
		}
	}
}

func execRepeat(ctx *ExecutionContext, text string) (value.Value, signal, error) {
	lines := strings.Split(text, "\n")
	firstLine := strings.TrimSpace(lines[0])
	afterRepeat := strings.TrimSpace(strings.TrimPrefix(firstLine, "repeat"))

	untilIdx := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if firstWord(strings.TrimSpace(lines[i])) == "until" {
			untilIdx = i
			break
		}
	}
	if untilIdx < 0 {
		return nil, sigNone, interperr.New(interperr.Syntax, "expected 'until' in repeat statement")
	}
	cond := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[untilIdx]), "until"))

	var bodyLines []string
	if afterRepeat != "" {
		bodyLines = append(bodyLines, afterRepeat)
	}
	bodyLines = append(bodyLines, lines[1:untilIdx]...)
	body := Split(strings.Join(bodyLines, "\n"))

	for iter := 0; ; iter++ {
		if iter >= ctx.MaxLoopIterations {
			return nil, sigNone, interperr.New(interperr.IterationCapExceeded, "repeat loop exceeded %d iterations", ctx.MaxLoopIterations)
		}
		v, sig, err := execBlock(ctx, body)
		if err != nil {
			return nil, sigNone, err
		}
		if sig == sigReturn {
			return v, sigReturn, nil
		}
		if sig == sigBreak {
			return value.Nil, sigNone, nil
		}
		cv, err := evalExpr(ctx, cond)
		if err != nil {
			return nil, sigNone, err
		}
		if value.IsTruthy(cv) {
			return value.Nil, sigNone, nil
		}
	}
}

func execFor(ctx *ExecutionContext, text string) (value.Value, signal, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "for"))
	idx := findTopLevelWord(rest, "do")
	if idx < 0 {
		return nil, sigNone, interperr.New(interperr.Syntax, "expected 'do' in for statement")
	}
	header := strings.TrimSpace(rest[:idx])
	body := Split(stripTrailingEnd(rest[idx+2:]))

	if strings.Contains(header, " in ") {
		return execGenericFor(ctx, header, body)
	}
	return execNumericFor(ctx, header, body)
}

func execNumericFor(ctx *ExecutionContext, header string, body []Statement) (value.Value, signal, error) {
	name, op, rangeText, ok := scanAssignOp(header)
	if !ok || op != "=" {
		return nil, sigNone, interperr.New(interperr.Syntax, "invalid numeric for header: %s", header)
	}
	parts := splitTopLevelCommas(rangeText)
	if len(parts) < 2 || len(parts) > 3 {
		return nil, sigNone, interperr.New(interperr.Syntax, "numeric for requires start, stop[, step]: %s", header)
	}

	startV, err := evalExpr(ctx, strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, sigNone, err
	}
	stopV, err := evalExpr(ctx, strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, sigNone, err
	}
	start, err := value.ToNumber(startV)
	if err != nil {
		return nil, sigNone, err
	}
	stop, err := value.ToNumber(stopV)
	if err != nil {
		return nil, sigNone, err
	}
	step := value.Num(1)
	if len(parts) == 3 {
		stepV, err := evalExpr(ctx, strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, sigNone, err
		}
		step, err = value.ToNumber(stepV)
		if err != nil {
			return nil, sigNone, err
		}
	}
	if step == 0 {
		return nil, sigNone, interperr.New(interperr.Syntax, "numeric for step cannot be zero")
	}

	ctx.PushLocalScope()
	defer ctx.PopLocalScope()

	iter := 0
	for i := start; (step > 0 && i <= stop) || (step < 0 && i >= stop); i += step {
		iter++
		if iter > ctx.MaxLoopIterations {
			return nil, sigNone, interperr.New(interperr.IterationCapExceeded, "for loop exceeded %d iterations", ctx.MaxLoopIterations)
		}
		ctx.DeclareLocal(strings.TrimSpace(name), i)
		v, sig, err := execBlock(ctx, body)
		if err != nil {
			return nil, sigNone, err
		}
		if sig == sigReturn {
			return v, sigReturn, nil
		}
		if sig == sigBreak {
			return value.Nil, sigNone, nil
		}
	}
	return value.Nil, sigNone, nil
}

func execGenericFor(ctx *ExecutionContext, header string, body []Statement) (value.Value, signal, error) {
	idx := strings.Index(header, " in ")
	if idx < 0 {
		return nil, sigNone, interperr.New(interperr.Syntax, "expected 'in' in generic for: %s", header)
	}
	namesText := strings.TrimSpace(header[:idx])
	iterText := strings.TrimSpace(header[idx+4:])

	var names []string
	for _, n := range splitTopLevelCommas(namesText) {
		names = append(names, strings.TrimSpace(n))
	}

	iterV, err := evalExpr(ctx, iterText)
	if err != nil {
		return nil, sigNone, err
	}
	it, ok := iterV.(*stdlib.Iterator)
	if !ok {
		return nil, sigNone, interperr.New(interperr.TypeMismatch, "generic for requires an iterator from pairs/ipairs, got %s", value.TypeName(iterV))
	}

	ctx.PushLocalScope()
	defer ctx.PopLocalScope()

	iter := 0
	for {
		iter++
		if iter > ctx.MaxLoopIterations {
			return nil, sigNone, interperr.New(interperr.IterationCapExceeded, "for loop exceeded %d iterations", ctx.MaxLoopIterations)
		}
		k, v, ok := it.Next()
		if !ok {
			return value.Nil, sigNone, nil
		}
		if len(names) > 0 {
			ctx.DeclareLocal(names[0], k)
		}
		if len(names) > 1 {
			ctx.DeclareLocal(names[1], v)
		}
		rv, sig, err := execBlock(ctx, body)
		if err != nil {
			return nil, sigNone, err
		}
		if sig == sigReturn {
			return rv, sigReturn, nil
		}
		if sig == sigBreak {
			return value.Nil, sigNone, nil
		}
	}
}

// findTopLevelWord returns the index of word in s at bracket/quote depth
// zero and on a word boundary, or -1 if not found.
func findTopLevelWord(s, word string) int {
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
		if depth != 0 {
			continue
		}
		if i+len(word) <= n && s[i:i+len(word)] == word {
			if (i == 0 || !isIdentCont(rune(s[i-1]))) && (i+len(word) == n || !isIdentCont(rune(s[i+len(word)]))) {
				return i
			}
		}
	}
	return -1
}
