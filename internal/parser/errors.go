package parser

import (
	"fmt"

	"github.com/rustic-lang/rustic/internal/diag"
	"github.com/rustic-lang/rustic/internal/lexer"
)

// Error captures the first parse failure: what the parser expected and what
// it found. A lexical error encountered mid-parse is carried through
// unchanged.
type Error struct {
	Expected string
	Found    lexer.Token
	Span     lexer.Span

	lexical *lexer.Error
}

func (e *Error) Error() string {
	if e.lexical != nil {
		return e.lexical.Error()
	}
	return fmt.Sprintf("%d:%d: expected %s, found %s", e.Span.Line, e.Span.Column, e.Expected, describeToken(e.Found))
}

// ToDiagnostic converts the parse error into a shared diagnostic.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	if e.lexical != nil {
		return e.lexical.ToDiagnostic()
	}
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     diag.CodeParseUnexpectedToken,
		Message:  fmt.Sprintf("expected %s, found %s", e.Expected, describeToken(e.Found)),
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// AsDiagError wraps the parse error as a diagnostic-carrying Go error.
func (e *Error) AsDiagError() error {
	return &diag.Error{Diagnostic: e.ToDiagnostic()}
}

func describeToken(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.NEWLINE:
		return "end of line"
	case lexer.IDENT, lexer.INT, lexer.FLOAT:
		return fmt.Sprintf("%q", tok.Raw)
	case lexer.STRING:
		return "string literal"
	default:
		return fmt.Sprintf("%q", string(tok.Type))
	}
}

// failExpected records a parse failure unless one is already pending.
func (p *Parser) failExpected(expected string, found lexer.Token) {
	if p.err != nil {
		return
	}
	p.err = &Error{
		Expected: expected,
		Found:    found,
		Span:     found.Span,
	}
}
