package parser

import (
	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/lexer"
)

// parseExpr is the Pratt core: parse a prefix expression, then fold infix
// operators while their precedence exceeds minPrecedence.
func (p *Parser) parseExpr(minPrecedence int) ast.Expr {
	if p.err != nil {
		return nil
	}

	prefix, ok := p.prefixFns[p.curTok.Type]
	if !ok {
		p.failExpected("expression", p.curTok)
		return nil
	}
	left := prefix()
	if p.err != nil {
		return nil
	}

	for p.err == nil && minPrecedence < curPrecedence(p.curTok.Type) {
		infix, ok := p.infixFns[p.curTok.Type]
		if !ok {
			return left
		}
		left = infix(left)
	}

	return left
}

// parseIdentExpr parses an identifier, or a struct literal when the
// identifier is immediately followed by `{` outside a control-flow header.
func (p *Parser) parseIdentExpr() ast.Expr {
	tok := p.curTok
	p.nextToken()
	ident := ast.NewIdent(tok.Raw, tok.Span)

	if p.curTok.Type == lexer.LBRACE && !p.noStructLit {
		return p.parseStructLiteral(ident)
	}
	return ident
}

// parseStructLiteral parses `Name { field: value, ... }`; the name has
// already been consumed and curTok is `{`.
func (p *Parser) parseStructLiteral(name *ast.Ident) ast.Expr {
	p.expect(lexer.LBRACE)
	p.skipNewlines()

	var fields []ast.StructLitField
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF && p.err == nil {
		fieldTok := p.expect(lexer.IDENT)
		if p.err != nil {
			return nil
		}
		fieldName := ast.NewIdent(fieldTok.Raw, fieldTok.Span)

		p.expect(lexer.COLON)
		value := p.parseExpr(precedenceLowest)
		if p.err != nil {
			return nil
		}
		fields = append(fields, ast.StructLitField{Name: fieldName, Value: value})

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
	return ast.NewStructLiteralExpr(name, fields, mergeSpan(name.Span(), end))
}

func (p *Parser) parseIntLit() ast.Expr {
	tok := p.curTok
	p.nextToken()
	return ast.NewIntLit(tok.Raw, tok.Span)
}

func (p *Parser) parseFloatLit() ast.Expr {
	tok := p.curTok
	p.nextToken()
	return ast.NewFloatLit(tok.Raw, tok.Span)
}

func (p *Parser) parseStringLit() ast.Expr {
	tok := p.curTok
	p.nextToken()
	return ast.NewStringLit(tok.Raw, tok.Span)
}

func (p *Parser) parseBoolLit() ast.Expr {
	tok := p.curTok
	p.nextToken()
	return ast.NewBoolLit(tok.Type == lexer.TRUE, tok.Span)
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	tok := p.curTok
	p.nextToken()
	operand := p.parseExpr(precedencePrefix)
	if p.err != nil {
		return nil
	}
	return ast.NewUnaryExpr(tok.Raw, operand, mergeSpan(tok.Span, operand.Span()))
}

// parseGroupedExpr parses `( expr )`. Newlines are insignificant inside the
// parentheses.
func (p *Parser) parseGroupedExpr() ast.Expr {
	p.expect(lexer.LPAREN)
	p.skipNewlines()
	expr := p.parseExpr(precedenceLowest)
	if p.err != nil {
		return nil
	}
	p.skipNewlines()
	p.expect(lexer.RPAREN)
	if p.err != nil {
		return nil
	}
	return expr
}

// parseListLiteral parses `[e1, e2, ...]`.
func (p *Parser) parseListLiteral() ast.Expr {
	start := p.curTok.Span
	p.expect(lexer.LBRACKET)
	p.skipNewlines()

	var elems []ast.Expr
	for p.curTok.Type != lexer.RBRACKET && p.curTok.Type != lexer.EOF && p.err == nil {
		elem := p.parseExpr(precedenceLowest)
		if p.err != nil {
			return nil
		}
		elems = append(elems, elem)

		if p.curTok.Type == lexer.COMMA {
			p.nextToken()
		}
		p.skipNewlines()
	}

	end := p.curTok.Span
	p.expect(lexer.RBRACKET)
	if p.err != nil {
		return nil
	}
	return ast.NewListLiteralExpr(elems, mergeSpan(start, end))
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	tok := p.curTok
	prec := curPrecedence(tok.Type)
	p.nextToken()
	// Binary operators are left-associative: pass prec as the floor so an
	// equal-precedence operator on the right does not bind tighter.
	right := p.parseExpr(prec)
	if p.err != nil {
		return nil
	}
	return ast.NewBinaryExpr(left, tok.Raw, right, mergeSpan(left.Span(), right.Span()))
}

// parseCallExpr parses `callee(args)`. Arguments may span newlines.
func (p *Parser) parseCallExpr(callee ast.Expr) ast.Expr {
	p.expect(lexer.LPAREN)
	p.skipNewlines()

	savedNoStructLit := p.noStructLit
	p.noStructLit = false

	var args []ast.Expr
	for p.curTok.Type != lexer.RPAREN && p.curTok.Type != lexer.EOF && p.err == nil {
		arg := p.parseExpr(precedenceLowest)
		if p.err != nil {
			p.noStructLit = savedNoStructLit
			return nil
		}
		args = append(args, arg)

		if p.curTok.Type == lexer.COMMA {
			p.nextToken()
		}
		p.skipNewlines()
	}
	p.noStructLit = savedNoStructLit

	end := p.curTok.Span
	p.expect(lexer.RPAREN)
	if p.err != nil {
		return nil
	}
	return ast.NewCallExpr(callee, args, mergeSpan(callee.Span(), end))
}

func (p *Parser) parseIndexExpr(recv ast.Expr) ast.Expr {
	p.expect(lexer.LBRACKET)
	p.skipNewlines()

	savedNoStructLit := p.noStructLit
	p.noStructLit = false
	index := p.parseExpr(precedenceLowest)
	p.noStructLit = savedNoStructLit
	if p.err != nil {
		return nil
	}

	p.skipNewlines()
	end := p.curTok.Span
	p.expect(lexer.RBRACKET)
	if p.err != nil {
		return nil
	}
	return ast.NewIndexExpr(recv, index, mergeSpan(recv.Span(), end))
}

func (p *Parser) parseFieldAccessExpr(recv ast.Expr) ast.Expr {
	p.expect(lexer.DOT)

	fieldTok := p.expect(lexer.IDENT)
	if p.err != nil {
		return nil
	}
	field := ast.NewIdent(fieldTok.Raw, fieldTok.Span)
	return ast.NewFieldAccessExpr(recv, field, mergeSpan(recv.Span(), fieldTok.Span))
}
