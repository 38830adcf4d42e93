package parser

import (
	"fmt"

	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Option configures a Parser.
type Option func(*options)

type options struct {
	filename string
}

// WithFilename attributes all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

const (
	precedenceLowest = iota
	precedenceOr
	precedenceAnd
	precedenceEquality
	precedenceComparison
	precedenceSum
	precedenceProduct
	precedencePrefix
	precedencePostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:       precedenceOr,
	lexer.AND:      precedenceAnd,
	lexer.EQ:       precedenceEquality,
	lexer.NOT_EQ:   precedenceEquality,
	lexer.LT:       precedenceComparison,
	lexer.LE:       precedenceComparison,
	lexer.GT:       precedenceComparison,
	lexer.GE:       precedenceComparison,
	lexer.PLUS:     precedenceSum,
	lexer.MINUS:    precedenceSum,
	lexer.ASTERISK: precedenceProduct,
	lexer.SLASH:    precedenceProduct,
	lexer.PERCENT:  precedenceProduct,
	lexer.LPAREN:   precedencePostfix,
	lexer.LBRACKET: precedencePostfix,
	lexer.DOT:      precedencePostfix,
}

// Parser implements a Pratt-style recursive descent parser for Rustic.
//
// Invariants:
//   - Lookahead: curTok always reflects the token currently under
//     examination; peekTok mirrors the next token pulled from the lexer. The
//     pair forms the parser's sole lookahead window and is only mutated via
//     nextToken.
//   - Failure: the core pipeline is fail-fast, so the first error freezes the
//     parser; every parse method returns early once err is set.
//   - Spans: node spans are composed via span merging so that a parent span
//     always covers its children.
type Parser struct {
	lx      *lexer.Lexer
	curTok  lexer.Token
	peekTok lexer.Token

	err *Error

	filename string

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	// noStructLit suppresses `Name { ... }` literal parsing while an
	// if/while/for header is being parsed, so the brace opens the body.
	noStructLit bool
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Parser{
		lx:        lexer.New(input),
		prefixFns: make(map[lexer.TokenType]prefixParseFn),
		infixFns:  make(map[lexer.TokenType]infixParseFn),
		filename:  cfg.filename,
	}

	if cfg.filename != "" {
		p.lx.SetFilename(cfg.filename)
	}

	p.registerPrefix(lexer.IDENT, p.parseIdentExpr)
	p.registerPrefix(lexer.INT, p.parseIntLit)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLit)
	p.registerPrefix(lexer.STRING, p.parseStringLit)
	p.registerPrefix(lexer.TRUE, p.parseBoolLit)
	p.registerPrefix(lexer.FALSE, p.parseBoolLit)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpr)
	p.registerPrefix(lexer.BANG, p.parseUnaryExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)

	p.registerInfix(lexer.PLUS, p.parseBinaryExpr)
	p.registerInfix(lexer.MINUS, p.parseBinaryExpr)
	p.registerInfix(lexer.ASTERISK, p.parseBinaryExpr)
	p.registerInfix(lexer.SLASH, p.parseBinaryExpr)
	p.registerInfix(lexer.PERCENT, p.parseBinaryExpr)
	p.registerInfix(lexer.AND, p.parseBinaryExpr)
	p.registerInfix(lexer.OR, p.parseBinaryExpr)
	p.registerInfix(lexer.EQ, p.parseBinaryExpr)
	p.registerInfix(lexer.NOT_EQ, p.parseBinaryExpr)
	p.registerInfix(lexer.LT, p.parseBinaryExpr)
	p.registerInfix(lexer.LE, p.parseBinaryExpr)
	p.registerInfix(lexer.GT, p.parseBinaryExpr)
	p.registerInfix(lexer.GE, p.parseBinaryExpr)
	p.registerInfix(lexer.LPAREN, p.parseCallExpr)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpr)
	p.registerInfix(lexer.DOT, p.parseFieldAccessExpr)

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(t lexer.TokenType, fn prefixParseFn) {
	p.prefixFns[t] = fn
}

func (p *Parser) registerInfix(t lexer.TokenType, fn infixParseFn) {
	p.infixFns[t] = fn
}

// nextToken advances the parser's token window. After the call,
// curTok == old(peekTok); the lexer is only queried from this hop.
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lx.NextToken()
	if lexErr := p.lx.Err(); lexErr != nil && p.err == nil {
		p.err = &Error{lexical: lexErr}
	}
}

// Err returns the first parse (or lexical) error, if any.
func (p *Parser) Err() *Error {
	return p.err
}

// ParseModule parses a full compilation unit and returns its AST, or the
// first error encountered.
func (p *Parser) ParseModule(name string) (*ast.Module, error) {
	p.skipNewlines()

	mod := ast.NewModule(name, p.curTok.Span)

	for p.curTok.Type != lexer.EOF && p.err == nil {
		switch p.curTok.Type {
		case lexer.IMPORT:
			imp := p.parseImportDecl()
			if imp != nil {
				mod.Imports = append(mod.Imports, imp)
			}
		case lexer.STRUCT:
			decl := p.parseStructDecl()
			if decl != nil {
				mod.Decls = append(mod.Decls, decl)
				mod.SetSpan(mergeSpan(mod.Span(), decl.Span()))
			}
		case lexer.FN:
			decl := p.parseFnDecl()
			if decl != nil {
				mod.Decls = append(mod.Decls, decl)
				mod.SetSpan(mergeSpan(mod.Span(), decl.Span()))
			}
		default:
			p.failExpected("declaration (import, struct, or fn)", p.curTok)
		}
		p.skipNewlines()
	}

	if p.err != nil {
		return nil, p.err.AsDiagError()
	}
	return mod, nil
}

// Parse is a convenience wrapper that lexes and parses source in one call.
func Parse(input, moduleName string, opts ...Option) (*ast.Module, error) {
	return New(input, opts...).ParseModule(moduleName)
}

// skipNewlines consumes any run of NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.curTok.Type == lexer.NEWLINE {
		p.nextToken()
	}
}

// expect consumes the current token if it has the wanted type, failing the
// parse otherwise.
func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	tok := p.curTok
	if tok.Type != t {
		p.failExpected(fmt.Sprintf("%q", string(t)), tok)
		return tok
	}
	p.nextToken()
	return tok
}

// expectTerminator requires a statement terminator: newline, semicolon, or
// an implicit one before `}` / EOF.
func (p *Parser) expectTerminator() {
	switch p.curTok.Type {
	case lexer.NEWLINE, lexer.SEMICOLON:
		p.nextToken()
	case lexer.RBRACE, lexer.EOF:
		// implicit
	default:
		p.failExpected("end of statement", p.curTok)
	}
}

func curPrecedence(t lexer.TokenType) int {
	if prec, ok := precedences[t]; ok {
		return prec
	}
	return precedenceLowest
}

func mergeSpan(a, b lexer.Span) lexer.Span {
	merged := a
	if b.Start < merged.Start {
		merged.Start = b.Start
		merged.Line = b.Line
		merged.Column = b.Column
	}
	if b.End > merged.End {
		merged.End = b.End
	}
	return merged
}
