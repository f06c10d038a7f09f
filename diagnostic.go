package cdecl

import "fmt"

// Severity classifies a Diagnostic. Errors abort the current command;
// warnings and hints are collected and never short-circuit (§4.7,
// §7).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is the structured value every failure in the core is
// represented as (§7). Code is a short machine-stable slug ("conflicting-type",
// "scope-nesting", "unknown-identifier", ...) that lets a caller filter
// by kind without parsing Message.
type Diagnostic struct {
	Severity   Severity
	Span       Span
	Message    string
	Hint       string
	DidYouMean []string
	Code       string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s @ %s", d.Severity, d.Message, d.Span)
	if d.Hint != "" {
		s += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	if len(d.DidYouMean) > 0 {
		s += fmt.Sprintf("\n  did you mean: %v?", d.DidYouMean)
	}
	return s
}

func errDiag(span Span, code, message string) Diagnostic {
	return Diagnostic{Severity: SeverityError, Span: span, Message: message, Code: code}
}

func errDiagHint(span Span, code, message, hint string) Diagnostic {
	return Diagnostic{Severity: SeverityError, Span: span, Message: message, Code: code, Hint: hint}
}

func warnDiag(span Span, code, message string) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Span: span, Message: message, Code: code}
}

// ParsingError is the error a Lexer/Parser production throws when it
// hits a hard (non-backtrackable) failure: it already committed past
// the point where another alternative in the grammar could plausibly
// match. It carries enough to become a Diagnostic.
type ParsingError struct {
	Message  string
	Expected string
	Span     Span
}

func (e ParsingError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s @ %s", e.Message, e.Span)
	}
	return fmt.Sprintf("expected %s @ %s", e.Expected, e.Span)
}

// Diagnostic renders a ParsingError as a Diagnostic.
func (e ParsingError) Diagnostic() Diagnostic {
	d := errDiag(e.Span, "grammar-error", e.Message)
	if e.Expected != "" {
		d.Hint = "expected " + e.Expected
	}
	return d
}

// backtrackingError is the internal error type produced by the token-
// stream combinators (Choice, ZeroOrMore, ...) while probing
// alternatives. It is a soft failure: the combinators rewind and try
// the next alternative, and only when nothing matches do Choice and
// OneOrMore return it to their caller. A ParsingError ends a command
// outright.
type backtrackingError struct {
	Expected string
	Message  string
	Span     Span
}

func (e *backtrackingError) Error() string {
	return fmt.Sprintf("%s @ %s", e.Message, e.Span)
}

func isHardError(err error) bool {
	_, ok := err.(ParsingError)
	return ok
}
