// Package codegen walks the resolved, ownership-annotated AST and emits
// Rust source text. Output is deterministic: the same annotated module
// always yields byte-identical text.
package codegen

import (
	"fmt"
	"strings"

	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/diag"
	"github.com/rustic-lang/rustic/internal/lexer"
	"github.com/rustic-lang/rustic/internal/ownership"
	"github.com/rustic-lang/rustic/internal/runtime"
	"github.com/rustic-lang/rustic/internal/types"
)

// Header is the first line of every generated file.
const Header = "// Code generated by rustic. DO NOT EDIT.\n"

// Generator emits Rust text for one module.
type Generator struct {
	info  *types.Info
	owner *ownership.Result
	table *runtime.Table

	buf    strings.Builder
	indent int
	err    *diag.Error
}

// New creates a generator over the annotations produced by the resolver and
// the ownership analyzer.
func New(info *types.Info, owner *ownership.Result, table *runtime.Table) *Generator {
	return &Generator{info: info, owner: owner, table: table}
}

// Generate is a convenience wrapper producing the full output text.
func Generate(mod *ast.Module, info *types.Info, owner *ownership.Result, table *runtime.Table) (string, error) {
	g := New(info, owner, table)
	return g.Module(mod)
}

// Module emits the whole compilation unit: the fixed header, then structs
// and functions in declaration order.
func (g *Generator) Module(mod *ast.Module) (string, error) {
	g.buf.Reset()
	g.buf.WriteString(Header)

	for _, decl := range mod.Decls {
		g.buf.WriteString("\n")
		switch d := decl.(type) {
		case *ast.StructDecl:
			g.genStruct(d)
		case *ast.FnDecl:
			g.genFn(d)
		}
		if g.err != nil {
			return "", g.err
		}
	}
	return g.buf.String(), nil
}

func (g *Generator) fail(code diag.Code, span diag.Span, format string, args ...any) {
	if g.err != nil {
		return
	}
	g.err = diag.Errorf(diag.StageCodegen, code, span, format, args...)
}

func (g *Generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *Generator) linef(format string, args ...any) {
	g.buf.WriteString(strings.Repeat("    ", g.indent))
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteString("\n")
}

// genStruct emits a derive-annotated Rust struct with the source field
// order preserved.
func (g *Generator) genStruct(d *ast.StructDecl) {
	st := g.info.Structs[d.Name.Name]
	g.linef("#[derive(Debug, Clone)]")
	g.linef("pub struct %s {", st.Name)
	g.indent++
	for _, field := range st.Fields {
		g.linef("pub %s: %s,", field.Name, rustType(field.Type))
	}
	g.indent--
	g.linef("}")
}

// genFn emits a function with the inferred parameter modes applied.
func (g *Generator) genFn(d *ast.FnDecl) {
	sig := g.info.Funcs[d.Name.Name]
	contract := g.owner.Contracts[d.Name.Name]

	g.printf("pub fn %s(", sig.Name)
	for i, param := range d.Params {
		if i > 0 {
			g.buf.WriteString(", ")
		}
		name := param.Name.Name
		typ := rustType(sig.Params[i])
		switch contract.Params[i] {
		case ownership.ByRef:
			typ = "&" + typ
		case ownership.ByRefMut:
			typ = "&mut " + typ
		case ownership.ByValue:
			// An owned parameter the body writes to needs a mut slot.
			if contract.Mutated[i] {
				name = "mut " + name
			}
		}
		g.printf("%s: %s", name, typ)
	}
	g.buf.WriteString(")")
	if !types.Equal(sig.Return, types.TypeVoid) {
		g.printf(" -> %s", rustType(sig.Return))
	}
	g.buf.WriteString(" {\n")
	g.indent++
	for _, stmt := range d.Body.Stmts {
		g.genStmt(stmt)
	}
	g.indent--
	g.linef("}")
}

func toDiagSpan(s lexer.Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}

// rustType maps a Rustic type to its Rust spelling.
func rustType(t types.Type) string {
	switch tt := t.(type) {
	case *types.Primitive:
		switch tt.Kind {
		case types.Int:
			return "i64"
		case types.Float:
			return "f64"
		case types.Bool:
			return "bool"
		case types.Str:
			return "String"
		default:
			return "()"
		}
	case *types.Struct:
		return tt.Name
	case *types.List:
		return "Vec<" + rustType(tt.Elem) + ">"
	default:
		return "()"
	}
}
