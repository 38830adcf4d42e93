package lexer

import (
	"fmt"
	"unicode"

	"github.com/rustic-lang/rustic/internal/diag"
)

// ErrorKind classifies lexer failures.
type ErrorKind int

const (
	ErrUnterminatedString ErrorKind = iota
	ErrInvalidCharacter
	ErrMalformedNumber
	ErrInvalidEscape
)

// Error is a lexical error with location context.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Column, e.Message)
}

func (k ErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexUnterminatedString
	case ErrMalformedNumber:
		return diag.CodeLexMalformedNumber
	case ErrInvalidEscape:
		return diag.CodeLexInvalidEscape
	default:
		return diag.CodeLexInvalidCharacter
	}
}

// ToDiagnostic converts the lexer error into a shared diagnostic.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Lexer scans Rustic source text into tokens. It is a pure function of the
// input: re-invoking New on the same text restarts the sequence.
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	err *Error // first error encountered, terminal for this run
}

// New creates a lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // becomes 1 after the first read
	}
	l.read()
	return l
}

// SetFilename attributes all emitted spans to the provided filename.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Err returns the first lexical error, if any. Once set, the lexer only
// produces ILLEGAL and EOF tokens.
func (l *Lexer) Err() *Error {
	return l.err
}

func (l *Lexer) fail(kind ErrorKind, span Span, format string, args ...any) {
	if l.err != nil {
		return
	}
	l.err = &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// read advances the lexer to the next rune, maintaining line/column so they
// always describe the rune at pos.
func (l *Lexer) read() {
	l.pos++
	prev := l.pos - 1

	if prev >= 0 && prev < len(l.input) && l.input[prev] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
}

func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) spanFrom(line, column, start int) Span {
	return Span{
		Filename: l.filename,
		Line:     line,
		Column:   column,
		Start:    start,
		End:      l.pos,
	}
}

func (l *Lexer) makeToken(typ TokenType, line, column, start int, raw string) Token {
	return Token{
		Type: typ,
		Raw:  raw,
		Span: l.spanFrom(line, column, start),
	}
}

// skipBlanks consumes spaces, tabs, carriage returns, and // comments, but
// stops at newlines: they are significant statement terminators.
func (l *Lexer) skipBlanks() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.read()
		case l.ch == '/' && l.peek() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.read()
			}
		default:
			return
		}
	}
}

// Tokenize scans the whole input, returning the tokens up to and including
// EOF, or the first lexical error.
func Tokenize(input, filename string) ([]Token, *Error) {
	l := New(input)
	if filename != "" {
		l.SetFilename(filename)
	}
	var tokens []Token
	for {
		tok := l.NextToken()
		if l.err != nil {
			return nil, l.err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// NextToken returns the next token from the input. Consecutive newlines
// collapse into a single NEWLINE token.
func (l *Lexer) NextToken() Token {
	l.skipBlanks()

	line, column, start := l.line, l.column, l.pos

	if l.err != nil {
		if l.ch == 0 {
			return l.makeToken(EOF, line, column, start, "")
		}
		return l.makeToken(ILLEGAL, line, column, start, string(l.ch))
	}

	switch l.ch {
	case 0:
		if column == 0 {
			column = 1
		}
		return l.makeToken(EOF, line, column, start, "")

	case '\n':
		for {
			l.read()
			l.skipBlanks()
			if l.ch != '\n' {
				break
			}
		}
		return l.makeToken(NEWLINE, line, column, start, "\n")

	case '+':
		return l.single(PLUS)
	case '*':
		return l.single(ASTERISK)
	case '/':
		return l.single(SLASH)
	case '%':
		return l.single(PERCENT)
	case ',':
		return l.single(COMMA)
	case '.':
		return l.single(DOT)
	case ':':
		return l.single(COLON)
	case ';':
		return l.single(SEMICOLON)
	case '(':
		return l.single(LPAREN)
	case ')':
		return l.single(RPAREN)
	case '{':
		return l.single(LBRACE)
	case '}':
		return l.single(RBRACE)
	case '[':
		return l.single(LBRACKET)
	case ']':
		return l.single(RBRACKET)

	case '-':
		if l.peek() == '>' {
			return l.double(ARROW)
		}
		return l.single(MINUS)
	case '=':
		if l.peek() == '=' {
			return l.double(EQ)
		}
		return l.single(ASSIGN)
	case '!':
		if l.peek() == '=' {
			return l.double(NOT_EQ)
		}
		return l.single(BANG)
	case '<':
		if l.peek() == '=' {
			return l.double(LE)
		}
		return l.single(LT)
	case '>':
		if l.peek() == '=' {
			return l.double(GE)
		}
		return l.single(GT)

	case '&':
		if l.peek() == '&' {
			return l.double(AND)
		}
		l.fail(ErrInvalidCharacter, l.singleSpan(line, column, start), "unexpected character %q, did you mean %q?", "&", "&&")
		return l.illegal(line, column, start)
	case '|':
		if l.peek() == '|' {
			return l.double(OR)
		}
		l.fail(ErrInvalidCharacter, l.singleSpan(line, column, start), "unexpected character %q, did you mean %q?", "|", "||")
		return l.illegal(line, column, start)

	case '"':
		return l.scanString(line, column, start)
	}

	if isDigit(l.ch) {
		return l.scanNumber(line, column, start)
	}
	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return l.makeToken(LookupIdent(ident), line, column, start, ident)
	}

	l.fail(ErrInvalidCharacter, l.singleSpan(line, column, start), "unexpected character %q", string(l.ch))
	return l.illegal(line, column, start)
}

func (l *Lexer) single(typ TokenType) Token {
	line, column, start := l.line, l.column, l.pos
	raw := string(l.ch)
	l.read()
	return l.makeToken(typ, line, column, start, raw)
}

func (l *Lexer) double(typ TokenType) Token {
	line, column, start := l.line, l.column, l.pos
	raw := string(l.ch)
	l.read()
	raw += string(l.ch)
	l.read()
	return l.makeToken(typ, line, column, start, raw)
}

func (l *Lexer) singleSpan(line, column, start int) Span {
	return Span{Filename: l.filename, Line: line, Column: column, Start: start, End: start + 1}
}

func (l *Lexer) illegal(line, column, start int) Token {
	raw := ""
	if l.ch != 0 {
		raw = string(l.ch)
		l.read()
	}
	return l.makeToken(ILLEGAL, line, column, start, raw)
}

// scanString scans a double-quoted string literal, decoding escapes. The
// returned token's Raw holds the decoded value.
func (l *Lexer) scanString(line, column, start int) Token {
	l.read() // opening quote
	var value []rune

	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			l.fail(ErrUnterminatedString,
				Span{Filename: l.filename, Line: line, Column: column, Start: start, End: l.pos},
				"unterminated string literal")
			return l.makeToken(ILLEGAL, line, column, start, string(value))
		}
		if l.ch == '\\' {
			escLine, escColumn, escStart := l.line, l.column, l.pos
			l.read()
			switch l.ch {
			case 'n':
				value = append(value, '\n')
			case 't':
				value = append(value, '\t')
			case 'r':
				value = append(value, '\r')
			case '\\':
				value = append(value, '\\')
			case '"':
				value = append(value, '"')
			default:
				l.fail(ErrInvalidEscape,
					Span{Filename: l.filename, Line: escLine, Column: escColumn, Start: escStart, End: l.pos + 1},
					"invalid escape sequence \\%s", string(l.ch))
				return l.makeToken(ILLEGAL, line, column, start, string(value))
			}
			l.read()
			continue
		}
		value = append(value, l.ch)
		l.read()
	}

	l.read() // closing quote
	return l.makeToken(STRING, line, column, start, string(value))
}

// scanNumber scans an integer or float literal. A second fractional part
// (1.2.3) or a trailing identifier character (12ab) is malformed.
func (l *Lexer) scanNumber(line, column, start int) Token {
	typ := INT
	for isDigit(l.ch) {
		l.read()
	}
	if l.ch == '.' && isDigit(l.peek()) {
		typ = FLOAT
		l.read()
		for isDigit(l.ch) {
			l.read()
		}
	}

	malformed := false
	if l.ch == '.' && isDigit(l.peek()) {
		// 1.2.3
		malformed = true
		l.read()
		for isDigit(l.ch) || l.ch == '.' {
			l.read()
		}
	} else if isLetter(l.ch) {
		// 12ab
		malformed = true
		for isLetter(l.ch) || isDigit(l.ch) {
			l.read()
		}
	}

	raw := string(l.input[start:l.pos])
	if malformed {
		l.fail(ErrMalformedNumber,
			Span{Filename: l.filename, Line: line, Column: column, Start: start, End: l.pos},
			"malformed number literal %q", raw)
		return l.makeToken(ILLEGAL, line, column, start, raw)
	}
	return l.makeToken(typ, line, column, start, raw)
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
