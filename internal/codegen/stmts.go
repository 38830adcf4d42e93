package codegen

import (
	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/ownership"
)

func (g *Generator) genStmt(stmt ast.Stmt) {
	if g.err != nil {
		return
	}
	switch s := stmt.(type) {
	case *ast.LetStmt:
		g.genLet(s)
	case *ast.AssignStmt:
		g.linef("%s = %s;", g.genAssignTarget(s.Target), g.genValue(s.Value))
	case *ast.ReturnStmt:
		if s.Value == nil {
			g.linef("return;")
		} else {
			g.linef("return %s;", g.genValue(s.Value))
		}
	case *ast.IfStmt:
		g.genIf(s)
	case *ast.WhileStmt:
		g.linef("while %s {", g.genExpr(s.Cond))
		g.genBody(s.Body)
		g.linef("}")
	case *ast.ForStmt:
		v := s.Var.Name
		if sym := g.info.Defs[s.Var]; sym != nil && g.owner.NeedsMut(sym) && !g.owner.IsRef(sym) {
			v = "mut " + v
		}
		g.linef("for %s in %s {", v, g.genIterable(s.Iter))
		g.genBody(s.Body)
		g.linef("}")
	case *ast.ExprStmt:
		g.linef("%s;", g.genExpr(s.Expr))
	}
}

func (g *Generator) genBody(b *ast.Block) {
	g.indent++
	for _, stmt := range b.Stmts {
		g.genStmt(stmt)
	}
	g.indent--
}

func (g *Generator) genLet(s *ast.LetStmt) {
	sym := g.info.Defs[s.Name]
	mut := ""
	// A binding lent to a mutating callee needs a mut slot even when the
	// source declared it immutable; direct reassignment still requires var.
	if s.Mutable || g.owner.NeedsMut(sym) {
		mut = "mut "
	}
	g.linef("let %s%s: %s = %s;", mut, s.Name.Name, rustType(sym.Type), g.genValue(s.Value))
}

func (g *Generator) genIf(s *ast.IfStmt) {
	g.linef("if %s {", g.genExpr(s.Cond))
	g.genBody(s.Then)
	els := s.Else
	for els != nil {
		switch e := els.(type) {
		case *ast.IfStmt:
			g.linef("} else if %s {", g.genExpr(e.Cond))
			g.genBody(e.Then)
			els = e.Else
		case *ast.Block:
			g.linef("} else {")
			g.genBody(e)
			els = nil
		default:
			els = nil
		}
	}
	g.linef("}")
}

// genAssignTarget spells the left-hand side of an assignment. A parameter
// received by mutable reference is written through a deref; fields and
// indexes auto-deref in Rust and need no marker.
func (g *Generator) genAssignTarget(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		if sym := g.info.Uses[t]; sym != nil && g.owner.IsRef(sym) {
			return "*" + t.Name
		}
		return t.Name
	case *ast.FieldAccessExpr:
		return g.genAssignTargetPath(t.Receiver) + "." + t.Field.Name
	case *ast.IndexExpr:
		return g.genAssignTargetPath(t.Receiver) + "[" + g.genIndex(t.Index) + "]"
	default:
		return g.genExpr(e)
	}
}

func (g *Generator) genAssignTargetPath(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.FieldAccessExpr:
		return g.genAssignTargetPath(t.Receiver) + "." + t.Field.Name
	case *ast.IndexExpr:
		return g.genAssignTargetPath(t.Receiver) + "[" + g.genIndex(t.Index) + "]"
	default:
		return g.genExpr(e)
	}
}

// genIterable spells the iterated expression of a for loop. A moved binding
// and owned temporaries iterate by value; everything else borrows.
func (g *Generator) genIterable(e ast.Expr) string {
	switch iter := e.(type) {
	case *ast.Ident:
		sym := g.info.Uses[iter]
		if d, ok := g.owner.DecisionFor(iter); ok && d == ownership.Move {
			return iter.Name
		}
		if sym != nil && g.owner.IsRef(sym) {
			return iter.Name
		}
		return "&" + iter.Name
	case *ast.CallExpr, *ast.ListLiteralExpr:
		return g.genExpr(e)
	default:
		return "&" + g.genExpr(e)
	}
}
