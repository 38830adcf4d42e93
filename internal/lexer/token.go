package lexer

// TokenType represents the type of a token.
type TokenType string

// Span represents the source location of a token.
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // rune offset of the first rune
	End      int    // exclusive end rune offset
}

// Token represents a lexical token.
type Token struct {
	Type TokenType
	Raw  string // exact runes from source
	Span Span
}

// Token type constants.
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE" // statement terminator

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // point, dist, x
	INT    TokenType = "INT"    // 42
	FLOAT  TokenType = "FLOAT"  // 3.14
	STRING TokenType = "STRING" // "hello"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	BANG     TokenType = "!"
	AND      TokenType = "&&"
	OR       TokenType = "||"

	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LT     TokenType = "<"
	LE     TokenType = "<="
	GT     TokenType = ">"
	GE     TokenType = ">="

	// Delimiters
	COMMA     TokenType = ","
	DOT       TokenType = "."
	COLON     TokenType = ":"
	SEMICOLON TokenType = ";"
	ARROW     TokenType = "->"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	LET    TokenType = "LET"
	VAR    TokenType = "VAR"
	FN     TokenType = "FN"
	STRUCT TokenType = "STRUCT"
	IMPORT TokenType = "IMPORT"
	IF     TokenType = "IF"
	ELSE   TokenType = "ELSE"
	WHILE  TokenType = "WHILE"
	FOR    TokenType = "FOR"
	IN     TokenType = "IN"
	RETURN TokenType = "RETURN"
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"

	// Type keywords
	INT_TYPE   TokenType = "INT_TYPE"   // int
	FLOAT_TYPE TokenType = "FLOAT_TYPE" // float
	STR_TYPE   TokenType = "STR_TYPE"   // str
	BOOL_TYPE  TokenType = "BOOL_TYPE"  // bool
	VOID_TYPE  TokenType = "VOID_TYPE"  // void
	LIST_TYPE  TokenType = "LIST_TYPE"  // list
)

var keywords = map[string]TokenType{
	"let":    LET,
	"var":    VAR,
	"fn":     FN,
	"struct": STRUCT,
	"import": IMPORT,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"in":     IN,
	"return": RETURN,
	"true":   TRUE,
	"false":  FALSE,
	"int":    INT_TYPE,
	"float":  FLOAT_TYPE,
	"str":    STR_TYPE,
	"bool":   BOOL_TYPE,
	"void":   VOID_TYPE,
	"list":   LIST_TYPE,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
