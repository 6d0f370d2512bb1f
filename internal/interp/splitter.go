package interp

import (
	"strings"
)

// Statement is one top-level, newline-delimited unit of source as
// produced by Split: a single simple statement, or an entire block
// (`if ... end`, `while ... end`, `function ... end`, `repeat ... until
// <expr>`) captured as one chunk of raw text for the dispatcher and the
// control-flow executors to re-split internally.
type Statement struct {
	Text string
	Line int // 1-based line of the statement's first line in the stripped source
}

var openers = []string{"if", "while", "for", "function", "repeat"}

// StripComments removes `--` line comments and `--[[ ... ]]` block
// comments from src, leaving line structure intact (comments are blanked,
// not deleted, so line numbers used in Statement.Line stay accurate).
// Quote state is tracked with a small state machine so that `--` inside a
// string literal is never mistaken for a comment, mirroring the teacher's
// lexer quote/escape scanning (internal/lexer's string-literal handling)
// adapted to operate over whole source text instead of a token stream.
func StripComments(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	runes := []rune(src)
	n := len(runes)
	i := 0
	var quote rune // 0, '\'' or '"'

	for i < n {
		c := runes[i]

		if quote != 0 {
			out.WriteRune(c)
			if c == '\\' && i+1 < n {
				out.WriteRune(runes[i+1])
				i += 2
				continue
			}
			if c == quote {
				quote = 0
			}
			i++
			continue
		}

		if c == '\'' || c == '"' {
			quote = c
			out.WriteRune(c)
			i++
			continue
		}

		if c == '-' && i+1 < n && runes[i+1] == '-' {
			if i+3 < n && runes[i+2] == '[' && runes[i+3] == '[' {
				// Block comment: blank everything up to the closing ]],
				// preserving newlines so line numbers remain correct.
				i += 4
				for i < n {
					if runes[i] == ']' && i+1 < n && runes[i+1] == ']' {
						i += 2
						break
					}
					if runes[i] == '\n' {
						out.WriteRune('\n')
					}
					i++
				}
				continue
			}
			// Line comment: skip to end of line.
			for i < n && runes[i] != '\n' {
				i++
			}
			continue
		}

		out.WriteRune(c)
		i++
	}

	return out.String()
}

// Split strips comments from src and emits an ordered sequence of
// top-level statements (§4.3). Statements are newline-separated except
// that block openers (if/while/for/function/repeat) suppress termination
// until the matching block closer (end, or `until <expr>` for repeat).
func Split(src string) []Statement {
	stripped := StripComments(src)
	lines := strings.Split(stripped, "\n")

	var stmts []Statement
	var buf []string
	depth := 0
	startLine := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		if text != "" {
			stmts = append(stmts, Statement{Text: text, Line: startLine})
		}
		buf = nil
	}

	for idx, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" && depth == 0 {
			continue
		}
		if len(buf) == 0 {
			startLine = idx + 1
		}
		buf = append(buf, line)

		delta := blockDelta(trimmed)
		depth += delta
		if depth < 0 {
			depth = 0
		}

		// A repeat-block only closes on an `until` that brings depth back
		// to (or below) the repeat's own opening depth; blockDelta already
		// accounts for that by treating `until` as a closer.
		if depth == 0 {
			flush()
		}
	}
	flush()

	return stmts
}

// blockDelta returns the net block-depth change a trimmed line
// contributes, counting only keywords that appear at the start of the
// line (§4.3). `elseif`/`else` do not change depth — they are interior
// clauses of an already-open `if`.
func blockDelta(trimmed string) int {
	word := firstWord(trimmed)

	switch word {
	case "local":
		// `local function name(...)` opens a block like `function` does.
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "local"))
		if firstWord(rest) == "function" {
			return blockKeywordDelta(rest, "function", 1)
		}
		return 0
	case "if", "while", "for", "function", "repeat":
		return blockKeywordDelta(trimmed, word, 1)
	case "end":
		return -1
	case "until":
		return -1
	default:
		return 0
	}
}

// blockKeywordDelta handles the case where an opener and its closer
// appear on the same trimmed line (e.g. a one-line `if x then y end`),
// in which case the net delta is zero rather than +1.
func blockKeywordDelta(trimmed, keyword string, openDelta int) int {
	delta := openDelta
	rest := trimmed
	closers := map[string]int{"end": -1}
	if keyword == "repeat" {
		closers = map[string]int{"until": -1}
	}
	// Count same-line closers that appear as standalone words after the
	// opener, to support single-line block forms.
	words := strings.Fields(rest)
	for i, w := range words {
		if i == 0 {
			continue
		}
		w = strings.TrimRight(w, ";")
		if d, ok := closers[w]; ok {
			delta += d
		}
	}
	return delta
}

func firstWord(s string) string {
	i := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '(' || r == '='
	})
	if i < 0 {
		return s
	}
	return s[:i]
}
