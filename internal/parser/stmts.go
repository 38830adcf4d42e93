package parser

import (
	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/lexer"
)

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() *ast.Block {
	start := p.curTok.Span
	p.expect(lexer.LBRACE)
	p.skipNewlines()

	var stmts []ast.Stmt
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF && p.err == nil {
		stmt := p.parseStmt()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}

	end := p.curTok.Span
	p.expect(lexer.RBRACE)
	if p.err != nil {
		return nil
	}
	return ast.NewBlock(stmts, mergeSpan(start, end))
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.curTok.Type {
	case lexer.LET:
		return p.parseLetStmt(false)
	case lexer.VAR:
		return p.parseLetStmt(true)
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	default:
		return p.parseSimpleStmt()
	}
}

// parseLetStmt parses `let name: type = expr` or the `var` form.
func (p *Parser) parseLetStmt(mutable bool) ast.Stmt {
	start := p.curTok.Span
	p.nextToken() // let / var

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

	p.expect(lexer.ASSIGN)
	value := p.parseExpr(precedenceLowest)
	if p.err != nil {
		return nil
	}

	p.expectTerminator()
	if p.err != nil {
		return nil
	}
	return ast.NewLetStmt(mutable, name, typ, value, mergeSpan(start, value.Span()))
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.curTok.Span
	p.nextToken() // return

	var value ast.Expr
	span := start
	switch p.curTok.Type {
	case lexer.NEWLINE, lexer.SEMICOLON, lexer.RBRACE, lexer.EOF:
		// bare return
	default:
		value = p.parseExpr(precedenceLowest)
		if p.err != nil {
			return nil
		}
		span = mergeSpan(start, value.Span())
	}

	p.expectTerminator()
	if p.err != nil {
		return nil
	}
	return ast.NewReturnStmt(value, span)
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.curTok.Span
	p.nextToken() // if

	cond := p.parseHeaderExpr()
	if p.err != nil {
		return nil
	}

	then := p.parseBlock()
	if p.err != nil {
		return nil
	}
	span := mergeSpan(start, then.Span())

	var els ast.Stmt
	if p.curTok.Type == lexer.ELSE {
		p.nextToken()
		if p.curTok.Type == lexer.IF {
			els = p.parseIfStmt()
		} else {
			block := p.parseBlock()
			if block != nil {
				els = block
			}
		}
		if p.err != nil {
			return nil
		}
		span = mergeSpan(span, els.Span())
	}

	return ast.NewIfStmt(cond, then, els, span)
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.curTok.Span
	p.nextToken() // while

	cond := p.parseHeaderExpr()
	if p.err != nil {
		return nil
	}

	body := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewWhileStmt(cond, body, mergeSpan(start, body.Span()))
}

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.curTok.Span
	p.nextToken() // for

	varTok := p.expect(lexer.IDENT)
	if p.err != nil {
		return nil
	}
	loopVar := ast.NewIdent(varTok.Raw, varTok.Span)

	p.expect(lexer.IN)
	iter := p.parseHeaderExpr()
	if p.err != nil {
		return nil
	}

	body := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewForStmt(loopVar, iter, body, mergeSpan(start, body.Span()))
}

// parseHeaderExpr parses the condition/iterable of a control-flow statement,
// suppressing struct literal parsing so the following `{` opens the body.
func (p *Parser) parseHeaderExpr() ast.Expr {
	saved := p.noStructLit
	p.noStructLit = true
	expr := p.parseExpr(precedenceLowest)
	p.noStructLit = saved
	return expr
}

// parseSimpleStmt parses an expression statement or an assignment.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	expr := p.parseExpr(precedenceLowest)
	if p.err != nil {
		return nil
	}

	if p.curTok.Type == lexer.ASSIGN {
		switch expr.(type) {
		case *ast.Ident, *ast.FieldAccessExpr, *ast.IndexExpr:
			// assignable
		default:
			p.failExpected("assignable target (name, field, or index)", p.curTok)
			return nil
		}
		p.nextToken() // =
		value := p.parseExpr(precedenceLowest)
		if p.err != nil {
			return nil
		}
		p.expectTerminator()
		if p.err != nil {
			return nil
		}
		return ast.NewAssignStmt(expr, value, mergeSpan(expr.Span(), value.Span()))
	}

	p.expectTerminator()
	if p.err != nil {
		return nil
	}
	return ast.NewExprStmt(expr, expr.Span())
}
