package types

import (
	"fmt"

	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/diag"
	"github.com/rustic-lang/rustic/internal/lexer"
	"github.com/rustic-lang/rustic/internal/runtime"
)

// FuncSig is the resolved signature of a declared function.
type FuncSig struct {
	Name   string
	Params []Type
	Return Type
	Decl   *ast.FnDecl
}

// Info holds the resolver's annotations, kept outside the AST so the tree
// stays a strict ownership hierarchy.
type Info struct {
	// Types maps every value-producing expression to its resolved type.
	Types map[ast.Expr]Type
	// Uses maps each identifier use site to the symbol it refers to.
	Uses map[*ast.Ident]*Symbol
	// Defs maps each declaring identifier to the symbol it introduces.
	Defs map[*ast.Ident]*Symbol
	// Structs holds declared struct types by name.
	Structs map[string]*Struct
	// Funcs holds declared function signatures by name.
	Funcs map[string]*FuncSig
	// Builtins maps resolved builtin call sites to their mapping entries.
	Builtins map[*ast.CallExpr]*runtime.Builtin
	// Widened marks int-typed expressions used where float is expected;
	// the generator inserts the corresponding cast.
	Widened map[ast.Expr]bool
}

// TypeOf returns the resolved type of expr, or Unresolved.
func (info *Info) TypeOf(expr ast.Expr) Type {
	if t, ok := info.Types[expr]; ok {
		return t
	}
	return TypeUnresolved
}

// Resolver builds scopes, resolves names, and assigns a type to every
// expression. It is fail-fast: the first error freezes the pass.
type Resolver struct {
	table  *runtime.Table
	info   *Info
	global *Scope

	currentFn *FuncSig
	err       *diag.Error

	structDecls map[string]*ast.StructDecl
	structOrder []string
}

// NewResolver creates a resolver backed by the given mapping table.
func NewResolver(table *runtime.Table) *Resolver {
	return &Resolver{
		table: table,
		info: &Info{
			Types:    make(map[ast.Expr]Type),
			Uses:     make(map[*ast.Ident]*Symbol),
			Defs:     make(map[*ast.Ident]*Symbol),
			Structs:  make(map[string]*Struct),
			Funcs:    make(map[string]*FuncSig),
			Builtins: make(map[*ast.CallExpr]*runtime.Builtin),
			Widened:  make(map[ast.Expr]bool),
		},
		global:      NewScope(nil),
		structDecls: make(map[string]*ast.StructDecl),
	}
}

// Resolve runs both passes over a module.
func Resolve(mod *ast.Module, table *runtime.Table) (*Info, error) {
	r := NewResolver(table)

	// Pass 1: module-level declarations, so functions and structs may refer
	// to each other regardless of order.
	r.collectImports(mod)
	r.collectStructs(mod)
	r.collectFuncs(mod)
	r.checkStructCycles()

	// Pass 2: function bodies.
	for _, decl := range mod.Decls {
		fn, ok := decl.(*ast.FnDecl)
		if !ok {
			continue
		}
		r.checkFnBody(fn)
		if r.err != nil {
			break
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	return r.info, nil
}

func (r *Resolver) fail(code diag.Code, span lexer.Span, format string, args ...any) {
	if r.err != nil {
		return
	}
	r.err = diag.Errorf(diag.StageResolve, code, diag.Span{
		Filename: span.Filename,
		Line:     span.Line,
		Column:   span.Column,
		Start:    span.Start,
		End:      span.End,
	}, format, args...)
}

func (r *Resolver) declare(scope *Scope, sym *Symbol, def *ast.Ident) {
	if r.err != nil {
		return
	}
	if prev, ok := scope.Insert(sym); !ok {
		r.fail(diag.CodeDuplicateDeclaration, sym.DefSpan,
			"%s %q is already declared in this scope", sym.Kind, sym.Name)
		if prev != nil {
			r.err.Diagnostic = r.err.Diagnostic.WithRelated(diag.Span{
				Filename: prev.DefSpan.Filename,
				Line:     prev.DefSpan.Line,
				Column:   prev.DefSpan.Column,
				Start:    prev.DefSpan.Start,
				End:      prev.DefSpan.End,
			}, "previous declaration here")
		}
		return
	}
	if def != nil {
		r.info.Defs[def] = sym
	}
}

func (r *Resolver) collectImports(mod *ast.Module) {
	for _, imp := range mod.Imports {
		if r.err != nil {
			return
		}
		name := imp.Name.Name
		if !r.table.HasModule(name) {
			r.fail(diag.CodeUnresolvedName, imp.Name.Span(),
				"unknown builtin module %q", name)
			return
		}
		r.declare(r.global, &Symbol{
			Name:    name,
			Kind:    SymImport,
			Type:    TypeVoid,
			DefSpan: imp.Name.Span(),
		}, imp.Name)
	}
}

func (r *Resolver) collectStructs(mod *ast.Module) {
	// Declare struct names first so fields may refer to any struct.
	for _, decl := range mod.Decls {
		sd, ok := decl.(*ast.StructDecl)
		if !ok {
			continue
		}
		if r.err != nil {
			return
		}
		st := &Struct{Name: sd.Name.Name}
		r.info.Structs[st.Name] = st
		r.structDecls[st.Name] = sd
		r.structOrder = append(r.structOrder, st.Name)
		r.declare(r.global, &Symbol{
			Name:    st.Name,
			Kind:    SymStruct,
			Type:    st,
			DefSpan: sd.Name.Span(),
		}, sd.Name)
	}

	// Now resolve field types.
	for _, decl := range mod.Decls {
		sd, ok := decl.(*ast.StructDecl)
		if !ok {
			continue
		}
		if r.err != nil {
			return
		}
		st := r.info.Structs[sd.Name.Name]
		seen := make(map[string]bool)
		for _, field := range sd.Fields {
			if seen[field.Name.Name] {
				r.fail(diag.CodeDuplicateDeclaration, field.Name.Span(),
					"field %q is already declared in struct %q", field.Name.Name, st.Name)
				return
			}
			seen[field.Name.Name] = true

			ft := r.resolveTypeExpr(field.Type)
			if r.err != nil {
				return
			}
			if Equal(ft, TypeVoid) {
				r.fail(diag.CodeTypeMismatch, field.Type.Span(),
					"struct field %q cannot have type void", field.Name.Name)
				return
			}
			st.Fields = append(st.Fields, Field{Name: field.Name.Name, Type: ft})
		}
	}
}

func (r *Resolver) collectFuncs(mod *ast.Module) {
	for _, decl := range mod.Decls {
		fd, ok := decl.(*ast.FnDecl)
		if !ok {
			continue
		}
		if r.err != nil {
			return
		}

		sig := &FuncSig{Name: fd.Name.Name, Return: TypeVoid, Decl: fd}
		for _, param := range fd.Params {
			pt := r.resolveTypeExpr(param.Type)
			if r.err != nil {
				return
			}
			if Equal(pt, TypeVoid) {
				r.fail(diag.CodeTypeMismatch, param.Type.Span(),
					"parameter %q cannot have type void", param.Name.Name)
				return
			}
			sig.Params = append(sig.Params, pt)
		}
		if fd.ReturnType != nil {
			sig.Return = r.resolveTypeExpr(fd.ReturnType)
			if r.err != nil {
				return
			}
		}

		r.info.Funcs[sig.Name] = sig
		r.declare(r.global, &Symbol{
			Name:    sig.Name,
			Kind:    SymFn,
			Type:    TypeVoid,
			DefSpan: fd.Name.Span(),
		}, fd.Name)
	}
}

// resolveTypeExpr maps a type annotation to a Type.
func (r *Resolver) resolveTypeExpr(typ ast.TypeExpr) Type {
	switch t := typ.(type) {
	case *ast.NamedType:
		switch t.Name.Name {
		case "int":
			return TypeInt
		case "float":
			return TypeFloat
		case "bool":
			return TypeBool
		case "str":
			return TypeStr
		case "void":
			return TypeVoid
		default:
			if st, ok := r.info.Structs[t.Name.Name]; ok {
				return st
			}
			r.fail(diag.CodeUnresolvedName, t.Name.Span(),
				"unknown type %q", t.Name.Name)
			return TypeUnresolved
		}
	case *ast.ListType:
		elem := r.resolveTypeExpr(t.Elem)
		if r.err != nil {
			return TypeUnresolved
		}
		if Equal(elem, TypeVoid) {
			r.fail(diag.CodeTypeMismatch, t.Elem.Span(), "list element type cannot be void")
			return TypeUnresolved
		}
		return &List{Elem: elem}
	default:
		r.fail(diag.CodeTypeMismatch, typ.Span(), "unsupported type annotation")
		return TypeUnresolved
	}
}

// checkStructCycles rejects struct types that contain themselves, directly
// or through other structs; such a type has no finite size in the output.
func (r *Resolver) checkStructCycles() {
	if r.err != nil {
		return
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)

	var visit func(name string) bool
	visit = func(name string) bool {
		switch state[name] {
		case visiting:
			return false
		case done:
			return true
		}
		state[name] = visiting
		st := r.info.Structs[name]
		for _, field := range st.Fields {
			if fs, ok := field.Type.(*Struct); ok {
				if !visit(fs.Name) {
					if r.err == nil {
						decl := r.structDecls[name]
						r.fail(diag.CodeTypeMismatch, decl.Name.Span(),
							"recursive struct type %q: field %q creates a cycle", name, field.Name)
					}
					return false
				}
			}
		}
		state[name] = done
		return true
	}

	// Declaration order keeps the reported struct stable when a module has
	// several cycles.
	for _, name := range r.structOrder {
		if !visit(name) {
			return
		}
	}
}

// checkFnBody type-checks one function body in a fresh scope.
func (r *Resolver) checkFnBody(fn *ast.FnDecl) {
	sig := r.info.Funcs[fn.Name.Name]
	r.currentFn = sig
	defer func() { r.currentFn = nil }()

	fnScope := NewScope(r.global)
	for i, param := range fn.Params {
		r.declare(fnScope, &Symbol{
			Name:    param.Name.Name,
			Kind:    SymParam,
			Type:    sig.Params[i],
			DefSpan: param.Name.Span(),
		}, param.Name)
		if r.err != nil {
			return
		}
	}

	r.checkBlock(fn.Body, fnScope)
	if r.err != nil {
		return
	}

	if !Equal(sig.Return, TypeVoid) && !blockTerminates(fn.Body) {
		r.fail(diag.CodeTypeMismatch, fn.Name.Span(),
			"function %q is declared to return %s but can reach the end of its body without returning",
			sig.Name, sig.Return)
	}
}

// blockTerminates reports whether every path through the block ends in a
// return statement.
func blockTerminates(block *ast.Block) bool {
	if block == nil || len(block.Stmts) == 0 {
		return false
	}
	return stmtTerminates(block.Stmts[len(block.Stmts)-1])
}

func stmtTerminates(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.IfStmt:
		if s.Else == nil {
			return false
		}
		if !blockTerminates(s.Then) {
			return false
		}
		switch els := s.Else.(type) {
		case *ast.Block:
			return blockTerminates(els)
		case *ast.IfStmt:
			return stmtTerminates(els)
		}
		return false
	default:
		return false
	}
}

// checkAssignable verifies that a value of type from may be used where to is
// expected, recording int→float widening for the generator.
func (r *Resolver) checkAssignable(value ast.Expr, from, to Type, span lexer.Span, what string) {
	if r.err != nil {
		return
	}
	if !AssignableTo(from, to) {
		r.fail(diag.CodeTypeMismatch, span,
			"%s: expected %s, found %s", what, to, from)
		return
	}
	if Equal(from, TypeInt) && Equal(to, TypeFloat) && value != nil {
		r.info.Widened[value] = true
	}
}

func describeSymbolUse(sym *Symbol) string {
	return fmt.Sprintf("%s %q", sym.Kind, sym.Name)
}
