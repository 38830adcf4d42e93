package types

import (
	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/diag"
)

// checkBlock checks the statements of a block in a fresh child scope.
func (r *Resolver) checkBlock(block *ast.Block, parent *Scope) {
	scope := NewScope(parent)
	for _, stmt := range block.Stmts {
		if r.err != nil {
			return
		}
		r.checkStmt(stmt, scope)
	}
}

func (r *Resolver) checkStmt(stmt ast.Stmt, scope *Scope) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		r.checkLetStmt(s, scope)
	case *ast.AssignStmt:
		r.checkAssignStmt(s, scope)
	case *ast.ReturnStmt:
		r.checkReturnStmt(s, scope)
	case *ast.IfStmt:
		r.checkIfStmt(s, scope)
	case *ast.WhileStmt:
		cond := r.typeOfExpr(s.Cond, scope)
		if r.err != nil {
			return
		}
		if !Equal(cond, TypeBool) {
			r.fail(diag.CodeTypeMismatch, s.Cond.Span(),
				"while condition must be bool, found %s", cond)
			return
		}
		r.checkBlock(s.Body, scope)
	case *ast.ForStmt:
		r.checkForStmt(s, scope)
	case *ast.ExprStmt:
		r.typeOfExpr(s.Expr, scope)
	default:
		r.fail(diag.CodeTypeMismatch, stmt.Span(), "unsupported statement")
	}
}

func (r *Resolver) checkLetStmt(s *ast.LetStmt, scope *Scope) {
	// The initializer is checked first, so `let x: int = x` resolves x in
	// the enclosing scope (and fails if absent there).
	valueType := r.typeOfExpr(s.Value, scope)
	if r.err != nil {
		return
	}

	declared := r.resolveTypeExpr(s.Type)
	if r.err != nil {
		return
	}
	if Equal(declared, TypeVoid) {
		r.fail(diag.CodeTypeMismatch, s.Type.Span(),
			"cannot declare binding %q with type void", s.Name.Name)
		return
	}

	r.checkAssignable(s.Value, valueType, declared, s.Value.Span(),
		"initializer for "+s.Name.Name)
	if r.err != nil {
		return
	}

	r.declare(scope, &Symbol{
		Name:    s.Name.Name,
		Kind:    SymBinding,
		Type:    declared,
		Mutable: s.Mutable,
		DefSpan: s.Name.Span(),
	}, s.Name)
}

func (r *Resolver) checkAssignStmt(s *ast.AssignStmt, scope *Scope) {
	targetType := r.typeOfExpr(s.Target, scope)
	if r.err != nil {
		return
	}

	// The root of the target chain must be a mutable binding or a
	// parameter; parameters become exclusive borrows in the output.
	root := rootIdent(s.Target)
	if root == nil {
		r.fail(diag.CodeTypeMismatch, s.Target.Span(), "expression is not assignable")
		return
	}
	sym := r.info.Uses[root]
	if sym == nil {
		return
	}
	switch sym.Kind {
	case SymBinding:
		if !sym.Mutable {
			r.fail(diag.CodeTypeMismatch, s.Target.Span(),
				"cannot assign to immutable binding %q (declare it with var)", sym.Name)
			return
		}
	case SymParam:
		// allowed, forces a by-mutable-reference contract
	case SymLoopVar:
		r.fail(diag.CodeTypeMismatch, s.Target.Span(),
			"cannot assign to loop variable %q", sym.Name)
		return
	default:
		r.fail(diag.CodeTypeMismatch, s.Target.Span(),
			"cannot assign to %s", describeSymbolUse(sym))
		return
	}

	valueType := r.typeOfExpr(s.Value, scope)
	if r.err != nil {
		return
	}
	r.checkAssignable(s.Value, valueType, targetType, s.Value.Span(), "assignment")
}

// rootIdent walks to the left of a field/index chain.
func rootIdent(expr ast.Expr) *ast.Ident {
	for {
		switch e := expr.(type) {
		case *ast.Ident:
			return e
		case *ast.FieldAccessExpr:
			expr = e.Receiver
		case *ast.IndexExpr:
			expr = e.Receiver
		default:
			return nil
		}
	}
}

func (r *Resolver) checkReturnStmt(s *ast.ReturnStmt, scope *Scope) {
	want := r.currentFn.Return

	if s.Value == nil {
		if !Equal(want, TypeVoid) {
			r.fail(diag.CodeTypeMismatch, s.Span(),
				"function %q must return %s", r.currentFn.Name, want)
		}
		return
	}

	got := r.typeOfExpr(s.Value, scope)
	if r.err != nil {
		return
	}
	if Equal(want, TypeVoid) {
		r.fail(diag.CodeTypeMismatch, s.Value.Span(),
			"function %q does not return a value", r.currentFn.Name)
		return
	}
	r.checkAssignable(s.Value, got, want, s.Value.Span(), "return value")
}

func (r *Resolver) checkIfStmt(s *ast.IfStmt, scope *Scope) {
	cond := r.typeOfExpr(s.Cond, scope)
	if r.err != nil {
		return
	}
	if !Equal(cond, TypeBool) {
		r.fail(diag.CodeTypeMismatch, s.Cond.Span(),
			"if condition must be bool, found %s", cond)
		return
	}

	r.checkBlock(s.Then, scope)
	if r.err != nil || s.Else == nil {
		return
	}

	switch els := s.Else.(type) {
	case *ast.Block:
		r.checkBlock(els, scope)
	case *ast.IfStmt:
		r.checkIfStmt(els, scope)
	}
}

func (r *Resolver) checkForStmt(s *ast.ForStmt, scope *Scope) {
	iterType := r.typeOfExpr(s.Iter, scope)
	if r.err != nil {
		return
	}
	list, ok := iterType.(*List)
	if !ok {
		r.fail(diag.CodeTypeMismatch, s.Iter.Span(),
			"for loop requires a list, found %s", iterType)
		return
	}

	bodyScope := NewScope(scope)
	r.declare(bodyScope, &Symbol{
		Name:    s.Var.Name,
		Kind:    SymLoopVar,
		Type:    list.Elem,
		DefSpan: s.Var.Span(),
	}, s.Var)
	if r.err != nil {
		return
	}

	for _, stmt := range s.Body.Stmts {
		if r.err != nil {
			return
		}
		r.checkStmt(stmt, bodyScope)
	}
}
