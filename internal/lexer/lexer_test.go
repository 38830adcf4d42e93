package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeDeclaration(t *testing.T) {
	tokens, err := Tokenize("let x: int = 5", "")
	require.Nil(t, err)

	want := []struct {
		typ TokenType
		raw string
	}{
		{LET, "let"},
		{IDENT, "x"},
		{COLON, ":"},
		{INT_TYPE, "int"},
		{ASSIGN, "="},
		{INT, "5"},
		{EOF, ""},
	}
	require.Len(t, tokens, len(want))
	for i, w := range want {
		assert.Equal(t, w.typ, tokens[i].Type, "token %d", i)
		assert.Equal(t, w.raw, tokens[i].Raw, "token %d", i)
	}
}

func TestTokenizeOperators(t *testing.T) {
	tokens, err := Tokenize("== != <= >= && || -> + - * / % ! < >", "")
	require.Nil(t, err)

	want := []TokenType{
		EQ, NOT_EQ, LE, GE, AND, OR, ARROW,
		PLUS, MINUS, ASTERISK, SLASH, PERCENT, BANG, LT, GT, EOF,
	}
	require.Len(t, tokens, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, tokens[i].Type, "token %d", i)
	}
}

func TestTokenizeKeywordsAndIdents(t *testing.T) {
	tokens, err := Tokenize("fn struct import if else while for in return true false foo", "")
	require.Nil(t, err)

	want := []TokenType{
		FN, STRUCT, IMPORT, IF, ELSE, WHILE, FOR, IN, RETURN, TRUE, FALSE, IDENT, EOF,
	}
	require.Len(t, tokens, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, tokens[i].Type, "token %d", i)
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("let x\nlet y", "main.rsc")
	require.Nil(t, err)

	require.Len(t, tokens, 6) // let x NEWLINE let y EOF
	assert.Equal(t, 1, tokens[0].Span.Line)
	assert.Equal(t, 1, tokens[0].Span.Column)
	assert.Equal(t, 1, tokens[1].Span.Line)
	assert.Equal(t, 5, tokens[1].Span.Column)
	assert.Equal(t, 2, tokens[3].Span.Line)
	assert.Equal(t, 1, tokens[3].Span.Column)
	assert.Equal(t, "main.rsc", tokens[3].Span.Filename)
}

func TestNewlinesCollapse(t *testing.T) {
	tokens, err := Tokenize("a\n\n\nb", "")
	require.Nil(t, err)

	want := []TokenType{IDENT, NEWLINE, IDENT, EOF}
	require.Len(t, tokens, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, tokens[i].Type, "token %d", i)
	}
}

func TestCommentsSkipped(t *testing.T) {
	tokens, err := Tokenize("a // trailing comment\nb", "")
	require.Nil(t, err)

	want := []TokenType{IDENT, NEWLINE, IDENT, EOF}
	require.Len(t, tokens, len(want))
	for i, typ := range want {
		assert.Equal(t, typ, tokens[i].Type, "token %d", i)
	}
}

func TestStringLiteral(t *testing.T) {
	tokens, err := Tokenize(`"hello\nworld"`, "")
	require.Nil(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, STRING, tokens[0].Type)
	assert.Equal(t, "hello\nworld", tokens[0].Raw)
}

func TestNumberLiterals(t *testing.T) {
	tokens, err := Tokenize("42 3.14 0.5", "")
	require.Nil(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, INT, tokens[0].Type)
	assert.Equal(t, "42", tokens[0].Raw)
	assert.Equal(t, FLOAT, tokens[1].Type)
	assert.Equal(t, "3.14", tokens[1].Raw)
	assert.Equal(t, FLOAT, tokens[2].Type)
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"never closed`, "")
	require.NotNil(t, err)
	assert.Equal(t, ErrUnterminatedString, err.Kind)
	assert.Equal(t, 1, err.Span.Line)
	assert.Equal(t, 1, err.Span.Column)
}

func TestInvalidEscape(t *testing.T) {
	_, err := Tokenize(`"bad \q escape"`, "")
	require.NotNil(t, err)
	assert.Equal(t, ErrInvalidEscape, err.Kind)
}

func TestMalformedNumber(t *testing.T) {
	for _, input := range []string{"1.2.3", "12ab"} {
		_, err := Tokenize(input, "")
		require.NotNil(t, err, "input %q", input)
		assert.Equal(t, ErrMalformedNumber, err.Kind, "input %q", input)
	}
}

func TestInvalidCharacter(t *testing.T) {
	_, err := Tokenize("let x @ 5", "")
	require.NotNil(t, err)
	assert.Equal(t, ErrInvalidCharacter, err.Kind)
	assert.Equal(t, 7, err.Span.Column)
}

func TestSingleAmpersandSuggestsDouble(t *testing.T) {
	_, err := Tokenize("a & b", "")
	require.NotNil(t, err)
	assert.Equal(t, ErrInvalidCharacter, err.Kind)
	assert.Contains(t, err.Message, "&&")
}

func TestRestartable(t *testing.T) {
	const input = "fn main() { return }"
	first, err := Tokenize(input, "")
	require.Nil(t, err)
	second, err := Tokenize(input, "")
	require.Nil(t, err)
	assert.Equal(t, first, second)
}
