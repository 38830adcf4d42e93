package codegen

import (
	"strings"

	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/diag"
	"github.com/rustic-lang/rustic/internal/ownership"
	"github.com/rustic-lang/rustic/internal/runtime"
	"github.com/rustic-lang/rustic/internal/types"
)

// genExpr renders an expression. Ownership markers for identifiers come
// from the analyzer's decisions; borrow ampersands are added at the
// argument and iteration positions that need them.
func (g *Generator) genExpr(e ast.Expr) string {
	if g.err != nil {
		return ""
	}
	switch ex := e.(type) {
	case *ast.Ident:
		return g.genIdent(ex)
	case *ast.IntLit:
		return ex.Text
	case *ast.FloatLit:
		return ex.Text
	case *ast.BoolLit:
		if ex.Value {
			return "true"
		}
		return "false"
	case *ast.StringLit:
		return "String::from(\"" + escapeString(ex.Value) + "\")"
	case *ast.UnaryExpr:
		return ex.Op + g.genOperand(ex.Operand)
	case *ast.BinaryExpr:
		return g.genBinary(ex)
	case *ast.CallExpr:
		return g.genCall(ex)
	case *ast.FieldAccessExpr:
		s := g.genExpr(ex.Receiver) + "." + ex.Field.Name
		if g.owner.ExprClones[ex] {
			s += ".clone()"
		}
		return s
	case *ast.IndexExpr:
		s := g.genExpr(ex.Receiver) + "[" + g.genIndex(ex.Index) + "]"
		if g.owner.ExprClones[ex] {
			s += ".clone()"
		}
		return s
	case *ast.StructLiteralExpr:
		return g.genStructLiteral(ex)
	case *ast.ListLiteralExpr:
		parts := make([]string, len(ex.Elems))
		for i, elem := range ex.Elems {
			parts[i] = g.genValue(elem)
		}
		return "vec![" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// genValue renders an expression in a value position, applying the
// int-to-float widening the resolver recorded.
func (g *Generator) genValue(e ast.Expr) string {
	s := g.genExpr(e)
	if g.info.Widened[e] {
		if needsParen(e) {
			s = "(" + s + ")"
		}
		s += " as f64"
	}
	return s
}

func (g *Generator) genIdent(id *ast.Ident) string {
	if d, ok := g.owner.DecisionFor(id); ok && d == ownership.Clone {
		if !types.IsCopy(g.info.TypeOf(id)) {
			return id.Name + ".clone()"
		}
	}
	return id.Name
}

func (g *Generator) genBinary(e *ast.BinaryExpr) string {
	if e.Op == "+" && types.Equal(g.info.TypeOf(e), types.TypeStr) {
		return "format!(\"{}{}\", " + g.genExpr(e.Left) + ", " + g.genExpr(e.Right) + ")"
	}
	left := g.genOperand(e.Left)
	right := g.genOperand(e.Right)
	if e.Op == "==" || e.Op == "!=" {
		left = g.derefForCompare(e.Left, left)
		right = g.derefForCompare(e.Right, right)
	}
	return left + " " + e.Op + " " + right
}

// genOperand parenthesizes nested operator expressions so the output never
// depends on Rust's precedence matching the source's.
func (g *Generator) genOperand(e ast.Expr) string {
	s := g.genExpr(e)
	if needsParen(e) {
		return "(" + s + ")"
	}
	return s
}

// derefForCompare spells a reference binding as its pointee so both sides
// of an equality compare at the same level.
func (g *Generator) derefForCompare(e ast.Expr, rendered string) string {
	id, ok := e.(*ast.Ident)
	if !ok {
		return rendered
	}
	sym := g.info.Uses[id]
	if sym == nil || !g.owner.IsRef(sym) || types.IsCopy(sym.Type) {
		return rendered
	}
	return "*" + rendered
}

// genIndex renders a list index, converting the source's int to usize.
func (g *Generator) genIndex(e ast.Expr) string {
	if lit, ok := e.(*ast.IntLit); ok {
		return lit.Text
	}
	s := g.genExpr(e)
	if needsParen(e) {
		s = "(" + s + ")"
	}
	return s + " as usize"
}

func (g *Generator) genCall(e *ast.CallExpr) string {
	if _, isBuiltin := e.Callee.(*ast.FieldAccessExpr); isBuiltin {
		b := g.info.Builtins[e]
		if b == nil {
			span := toDiagSpan(e.Callee.Span())
			g.fail(diag.CodeUnknownBuiltin, span, "call has no mapping table entry")
			return ""
		}
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = g.genArg(arg, b.Args[i])
		}
		return b.Target + "(" + strings.Join(args, ", ") + ")"
	}

	callee, ok := e.Callee.(*ast.Ident)
	if !ok {
		return ""
	}
	contract := g.owner.Contracts[callee.Name]
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		mode := runtime.ArgByValue
		if contract != nil && i < len(contract.Params) {
			switch contract.Params[i] {
			case ownership.ByRef:
				mode = runtime.ArgByRef
			case ownership.ByRefMut:
				mode = runtime.ArgByMutRef
			}
		}
		args[i] = g.genArg(arg, mode)
	}
	return callee.Name + "(" + strings.Join(args, ", ") + ")"
}

// genArg renders one call argument with the borrow marker its mode needs.
// A binding that is already a reference is passed bare.
func (g *Generator) genArg(e ast.Expr, mode runtime.ArgMode) string {
	switch mode {
	case runtime.ArgByValue:
		return g.genValue(e)

	case runtime.ArgByMutRef:
		if id, ok := e.(*ast.Ident); ok {
			if sym := g.info.Uses[id]; sym != nil && g.owner.IsRef(sym) {
				return id.Name
			}
		}
		return "&mut " + g.genExpr(e)

	default: // ArgByRef
		if id, ok := e.(*ast.Ident); ok && !g.info.Widened[e] {
			if sym := g.info.Uses[id]; sym != nil && g.owner.IsRef(sym) {
				return id.Name
			}
			return "&" + id.Name
		}
		s := g.genValue(e)
		if g.info.Widened[e] || needsParen(e) {
			return "&(" + s + ")"
		}
		return "&" + s
	}
}

func (g *Generator) genStructLiteral(e *ast.StructLiteralExpr) string {
	var sb strings.Builder
	sb.WriteString(e.Name.Name)
	sb.WriteString(" { ")
	for i, field := range e.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(field.Name.Name)
		sb.WriteString(": ")
		sb.WriteString(g.genValue(field.Value))
	}
	sb.WriteString(" }")
	return sb.String()
}

func needsParen(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BinaryExpr, *ast.UnaryExpr:
		return true
	}
	return false
}

func escapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
