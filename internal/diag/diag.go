// Package diag implements the diagnostics adapter that every pipeline stage
// — lexer, parser, validator, and (per spec §7) the semantic analyzer —
// pushes messages into. It carries no dependency on any other internal
// package so it can sit underneath all of them.
package diag

import "fmt"

// Severity indicates how serious a Diagnostic is.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Span is the source range a Diagnostic points at: a row/column start plus
// a length derived from the offending token's text.
type Span struct {
	Line   int
	Column int
	Length int
}

// Diagnostic is a single message produced by a pipeline stage.
type Diagnostic struct {
	Severity Severity
	Producer string // e.g. "Analyzer", "Parser"
	Message  string
	Span     Span
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s: %s", d.Span.Line, d.Span.Column, d.Severity, d.Producer, d.Message)
}

// Logger accumulates diagnostics in emission order. It is intentionally
// small enough that the analyzer, parser, and driver can each hold their
// own instance or share one — the sink is a plain slice, not a global.
type Logger struct {
	entries []Diagnostic
}

// NewLogger returns an empty Logger.
func NewLogger() *Logger { return &Logger{} }

// Push appends a Diagnostic, preserving call order (spec §5: diagnostics
// are appended in source-order ties broken by rule registration order —
// the caller is responsible for calling Push in that order).
func (l *Logger) Push(d Diagnostic) { l.entries = append(l.entries, d) }

// Errorf appends an error-severity diagnostic from the given producer.
func (l *Logger) Errorf(producer string, span Span, format string, args ...any) {
	l.Push(Diagnostic{Severity: Error, Producer: producer, Message: fmt.Sprintf(format, args...), Span: span})
}

// Warnf appends a warning-severity diagnostic from the given producer.
func (l *Logger) Warnf(producer string, span Span, format string, args ...any) {
	l.Push(Diagnostic{Severity: Warning, Producer: producer, Message: fmt.Sprintf(format, args...), Span: span})
}

// Entries returns all accumulated diagnostics in emission order.
func (l *Logger) Entries() []Diagnostic { return l.entries }

// HasErrors reports whether any accumulated diagnostic has Error severity.
// The compiler driver uses this to decide whether to refuse Wasm emission
// (spec §7, "User-visible behavior").
func (l *Logger) HasErrors() bool {
	for _, d := range l.entries {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
