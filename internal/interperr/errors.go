// Package interperr defines the error taxonomy shared by the string
// interpreter, the AST evaluator, the host API and the module resolver.
package interperr

import "fmt"

// Kind identifies which category of failure an Error represents. Kinds are
// not Go error types themselves so that callers can switch on a stable,
// serializable value rather than type-asserting across packages.
type Kind string

const (
	Syntax               Kind = "Syntax"
	NameError            Kind = "NameError"
	TypeMismatch         Kind = "TypeMismatch"
	ArgumentType         Kind = "ArgumentType"
	DivisionByZero       Kind = "DivisionByZero"
	CallDepthExceeded    Kind = "CallDepthExceeded"
	IterationCapExceeded Kind = "IterationCapExceeded"
	CircularInclude      Kind = "CircularInclude"
	IncludeDepthExceeded Kind = "IncludeDepthExceeded"
	LockedMutation       Kind = "LockedMutation"
	ChoiceIndex          Kind = "ChoiceIndex"
	PassageNotFound      Kind = "PassageNotFound"
	StateNameMismatch    Kind = "StateNameMismatch"
	Internal             Kind = "Internal"
)

// Error is a runtime error produced anywhere in the Whisker scripting
// runtime. It carries a Kind so callers can distinguish recoverable
// per-statement failures from errors that must propagate out of the whole
// call (per spec §7's propagation policy).
type Error struct {
	Kind    Kind
	Message string
	// Statement is the source text of the statement or expression that
	// raised the error, when known. Used for per-statement error capture.
	Statement string
}

func (e *Error) Error() string {
	if e.Statement != "" {
		return fmt.Sprintf("%s: %s (in: %s)", e.Kind, e.Message, e.Statement)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithStatement returns a copy of e annotated with the offending statement
// text, used when the string interpreter captures a per-statement error.
func (e *Error) WithStatement(stmt string) *Error {
	cp := *e
	cp.Statement = stmt
	return &cp
}

// IsFatal reports whether an error of this kind must abort the whole call
// rather than being recorded and continuing to the next statement (§5, §7).
func (k Kind) IsFatal() bool {
	switch k {
	case IterationCapExceeded, CircularInclude, IncludeDepthExceeded, CallDepthExceeded:
		return true
	default:
		return false
	}
}
