package interperr

import (
	"fmt"
	"strings"
)

// Position is a 1-based line/column location within a source string.
// Grounded on the teacher's lexer.Position / errors.CompilerError pairing,
// adapted here to the line-oriented statement splitter instead of a token
// stream.
type Position struct {
	Line   int
	Column int
}

// Located pairs an Error with the source position and statement text it
// was raised from, for pretty CLI reporting.
type Located struct {
	Err  *Error
	Pos  Position
	Line string
}

// Format renders a Located error with a source line and a caret pointing
// at the start of the offending statement, mirroring the teacher's
// CompilerError.Format (internal/errors/errors.go).
func (l Located) Format(file string) string {
	var sb strings.Builder

	if file != "" {
		fmt.Fprintf(&sb, "Error in %s:%d\n", file, l.Pos.Line)
	} else {
		fmt.Fprintf(&sb, "Error at line %d\n", l.Pos.Line)
	}

	if l.Line != "" {
		prefix := fmt.Sprintf("%4d | ", l.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(l.Line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max0(l.Pos.Column-1)))
		sb.WriteString("^\n")
	}

	sb.WriteString(l.Err.Error())
	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// FormatAll renders every Located error in order, separated by blank
// lines, mirroring the teacher's errors.FormatErrors multi-error report.
func FormatAll(errs []Located, file string) string {
	var sb strings.Builder
	for i, e := range errs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(e.Format(file))
	}
	return sb.String()
}
