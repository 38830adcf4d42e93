package parser

import (
	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/lexer"
)

// parseImportDecl parses `import name`.
func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.curTok.Span
	p.expect(lexer.IMPORT)

	nameTok := p.expect(lexer.IDENT)
	if p.err != nil {
		return nil
	}
	name := ast.NewIdent(nameTok.Raw, nameTok.Span)

	p.expectTerminator()
	if p.err != nil {
		return nil
	}
	return ast.NewImportDecl(name, mergeSpan(start, nameTok.Span))
}

// parseStructDecl parses `struct Name { field: type, ... }`. Fields may be
// separated by commas, newlines, or both.
func (p *Parser) parseStructDecl() *ast.StructDecl {
	start := p.curTok.Span
	p.expect(lexer.STRUCT)

	nameTok := p.expect(lexer.IDENT)
	if p.err != nil {
		return nil
	}
	name := ast.NewIdent(nameTok.Raw, nameTok.Span)

	p.expect(lexer.LBRACE)
	p.skipNewlines()

	var fields []*ast.Field
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF && p.err == nil {
		field := p.parseField()
		if field == nil {
			return nil
		}
		fields = append(fields, field)

		if p.curTok.Type == lexer.COMMA {
			p.nextToken()
		}
		p.skipNewlines()
	}

	end := p.curTok.Span
	p.expect(lexer.RBRACE)
	if p.err != nil {
		return nil
	}
	return ast.NewStructDecl(name, fields, mergeSpan(start, end))
}

// parseField parses one `name: type` struct field.
func (p *Parser) parseField() *ast.Field {
	nameTok := p.expect(lexer.IDENT)
	if p.err != nil {
		return nil
	}
	name := ast.NewIdent(nameTok.Raw, nameTok.Span)

	p.expect(lexer.COLON)
	typ := p.parseTypeExpr()
	if p.err != nil {
		return nil
	}
	return ast.NewField(name, typ, mergeSpan(nameTok.Span, typ.Span()))
}

// parseFnDecl parses `fn name(params) -> type { body }`. The return type is
// optional and defaults to void.
func (p *Parser) parseFnDecl() *ast.FnDecl {
	start := p.curTok.Span
	p.expect(lexer.FN)

	nameTok := p.expect(lexer.IDENT)
	if p.err != nil {
		return nil
	}
	name := ast.NewIdent(nameTok.Raw, nameTok.Span)

	p.expect(lexer.LPAREN)
	params := p.parseParamList()
	if p.err != nil {
		return nil
	}

	var returnType ast.TypeExpr
	if p.curTok.Type == lexer.ARROW {
		p.nextToken()
		returnType = p.parseTypeExpr()
		if p.err != nil {
			return nil
		}
	}

	body := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewFnDecl(name, params, returnType, body, mergeSpan(start, body.Span()))
}

// parseParamList parses a parenthesised, comma-separated parameter list; the
// opening paren has already been consumed.
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param

	p.skipNewlines()
	for p.curTok.Type != lexer.RPAREN && p.curTok.Type != lexer.EOF && p.err == nil {
		nameTok := p.expect(lexer.IDENT)
		if p.err != nil {
			return nil
		}
		name := ast.NewIdent(nameTok.Raw, nameTok.Span)

		p.expect(lexer.COLON)
		typ := p.parseTypeExpr()
		if p.err != nil {
			return nil
		}
		params = append(params, ast.NewParam(name, typ, mergeSpan(nameTok.Span, typ.Span())))

		if p.curTok.Type == lexer.COMMA {
			p.nextToken()
			p.skipNewlines()
		} else {
			break
		}
	}

	p.expect(lexer.RPAREN)
	return params
}

// parseTypeExpr parses a type annotation: a primitive keyword, `list[T]`, or
// a struct name.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	tok := p.curTok
	switch tok.Type {
	case lexer.INT_TYPE, lexer.FLOAT_TYPE, lexer.STR_TYPE, lexer.BOOL_TYPE, lexer.VOID_TYPE:
		p.nextToken()
		return ast.NewNamedType(ast.NewIdent(tok.Raw, tok.Span), tok.Span)
	case lexer.IDENT:
		p.nextToken()
		return ast.NewNamedType(ast.NewIdent(tok.Raw, tok.Span), tok.Span)
	case lexer.LIST_TYPE:
		p.nextToken()
		p.expect(lexer.LBRACKET)
		elem := p.parseTypeExpr()
		if p.err != nil {
			return nil
		}
		end := p.curTok.Span
		p.expect(lexer.RBRACKET)
		if p.err != nil {
			return nil
		}
		return ast.NewListType(elem, mergeSpan(tok.Span, end))
	default:
		p.failExpected("type", tok)
		return nil
	}
}
