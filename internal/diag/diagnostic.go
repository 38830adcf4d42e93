package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer     Stage = "lexer"
	StageParser    Stage = "parser"
	StageResolve   Stage = "resolve"
	StageOwnership Stage = "ownership"
	StageCodegen   Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexUnterminatedString Code = "LEX_UNTERMINATED_STRING"
	CodeLexInvalidCharacter   Code = "LEX_INVALID_CHARACTER"
	CodeLexMalformedNumber    Code = "LEX_MALFORMED_NUMBER"
	CodeLexInvalidEscape      Code = "LEX_INVALID_ESCAPE"

	// Parser errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"

	// Resolver errors
	CodeDuplicateDeclaration Code = "RESOLVE_DUPLICATE_DECLARATION"
	CodeUnresolvedName       Code = "RESOLVE_UNRESOLVED_NAME"
	CodeTypeMismatch         Code = "RESOLVE_TYPE_MISMATCH"
	CodeArityMismatch        Code = "RESOLVE_ARITY_MISMATCH"
	CodeUnknownField         Code = "RESOLVE_UNKNOWN_FIELD"

	// Ownership errors
	CodeUseAfterMove       Code = "OWNERSHIP_USE_AFTER_MOVE"
	CodeAmbiguousOwnership Code = "OWNERSHIP_AMBIGUOUS"

	// Codegen errors
	CodeUnknownBuiltin Code = "CODEGEN_UNKNOWN_BUILTIN"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based
	Start    int // rune offset, inclusive
	End      int // rune offset, exclusive
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	if !other.IsValid() {
		return s
	}
	if !s.IsValid() {
		return other
	}
	merged := s
	if other.Start < merged.Start {
		merged.Start = other.Start
		merged.Line = other.Line
		merged.Column = other.Column
	}
	if other.End > merged.End {
		merged.End = other.End
	}
	return merged
}

// LabeledSpan is a span with an optional label attached for rendering.
type LabeledSpan struct {
	Span  Span
	Label string
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
//
// The core pipeline is fail-fast: a pass returns the first diagnostic it
// produces and stops. Accumulation, warning policy, and rendering belong to
// the driver.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	// Related holds secondary spans, e.g. the earlier conflicting use for a
	// use-after-move report.
	Related []LabeledSpan
	Help    string
}

// WithRelated returns a copy of the diagnostic with a secondary span added.
func (d Diagnostic) WithRelated(span Span, label string) Diagnostic {
	d.Related = append(d.Related, LabeledSpan{Span: span, Label: label})
	return d
}

// WithHelp returns a copy of the diagnostic with help text attached.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// Error wraps a Diagnostic so it can cross package boundaries as a Go error.
type Error struct {
	Diagnostic Diagnostic
}

// Error implements the error interface.
func (e *Error) Error() string {
	d := e.Diagnostic
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Span, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Errorf builds a diagnostic error in one call.
func Errorf(stage Stage, code Code, span Span, format string, args ...any) *Error {
	return &Error{Diagnostic: Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}}
}

// AsError extracts the diagnostic from err if it carries one.
func AsError(err error) (*Error, bool) {
	de, ok := err.(*Error)
	return de, ok
}
