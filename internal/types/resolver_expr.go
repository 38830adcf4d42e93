package types

import (
	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/diag"
)

// typeOfExpr computes and records the type of an expression bottom-up.
func (r *Resolver) typeOfExpr(expr ast.Expr, scope *Scope) Type {
	if r.err != nil {
		return TypeUnresolved
	}

	var t Type
	switch e := expr.(type) {
	case *ast.IntLit:
		t = TypeInt
	case *ast.FloatLit:
		t = TypeFloat
	case *ast.StringLit:
		t = TypeStr
	case *ast.BoolLit:
		t = TypeBool
	case *ast.Ident:
		t = r.typeOfIdent(e, scope)
	case *ast.UnaryExpr:
		t = r.typeOfUnary(e, scope)
	case *ast.BinaryExpr:
		t = r.typeOfBinary(e, scope)
	case *ast.CallExpr:
		t = r.typeOfCall(e, scope)
	case *ast.FieldAccessExpr:
		t = r.typeOfFieldAccess(e, scope)
	case *ast.IndexExpr:
		t = r.typeOfIndex(e, scope)
	case *ast.StructLiteralExpr:
		t = r.typeOfStructLiteral(e, scope)
	case *ast.ListLiteralExpr:
		t = r.typeOfListLiteral(e, scope)
	default:
		r.fail(diag.CodeTypeMismatch, expr.Span(), "unsupported expression")
		t = TypeUnresolved
	}

	if r.err != nil {
		return TypeUnresolved
	}
	r.info.Types[expr] = t
	return t
}

func (r *Resolver) typeOfIdent(e *ast.Ident, scope *Scope) Type {
	sym := scope.Lookup(e.Name)
	if sym == nil {
		r.fail(diag.CodeUnresolvedName, e.Span(), "undefined name %q", e.Name)
		return TypeUnresolved
	}
	r.info.Uses[e] = sym

	switch sym.Kind {
	case SymBinding, SymParam, SymLoopVar:
		return sym.Type
	default:
		r.fail(diag.CodeTypeMismatch, e.Span(),
			"cannot use %s as a value", describeSymbolUse(sym))
		return TypeUnresolved
	}
}

func (r *Resolver) typeOfUnary(e *ast.UnaryExpr, scope *Scope) Type {
	operand := r.typeOfExpr(e.Operand, scope)
	if r.err != nil {
		return TypeUnresolved
	}
	switch e.Op {
	case "-":
		if !IsNumeric(operand) {
			r.fail(diag.CodeTypeMismatch, e.Operand.Span(),
				"operator - requires a numeric operand, found %s", operand)
			return TypeUnresolved
		}
		return operand
	case "!":
		if !Equal(operand, TypeBool) {
			r.fail(diag.CodeTypeMismatch, e.Operand.Span(),
				"operator ! requires a bool operand, found %s", operand)
			return TypeUnresolved
		}
		return TypeBool
	default:
		r.fail(diag.CodeTypeMismatch, e.Span(), "unknown unary operator %q", e.Op)
		return TypeUnresolved
	}
}

func (r *Resolver) typeOfBinary(e *ast.BinaryExpr, scope *Scope) Type {
	left := r.typeOfExpr(e.Left, scope)
	if r.err != nil {
		return TypeUnresolved
	}
	right := r.typeOfExpr(e.Right, scope)
	if r.err != nil {
		return TypeUnresolved
	}

	switch e.Op {
	case "+":
		// str + str concatenates; otherwise numeric, same type on both
		// sides (widening applies only at call/assignment boundaries).
		if Equal(left, TypeStr) && Equal(right, TypeStr) {
			return TypeStr
		}
		fallthrough
	case "-", "*", "/", "%":
		if !IsNumeric(left) || !Equal(left, right) {
			r.fail(diag.CodeTypeMismatch, e.Span(),
				"operator %s requires matching numeric operands, found %s and %s",
				e.Op, left, right)
			return TypeUnresolved
		}
		return left
	case "<", "<=", ">", ">=":
		if !IsNumeric(left) || !Equal(left, right) {
			r.fail(diag.CodeTypeMismatch, e.Span(),
				"operator %s requires matching numeric operands, found %s and %s",
				e.Op, left, right)
			return TypeUnresolved
		}
		return TypeBool
	case "==", "!=":
		_, leftPrim := left.(*Primitive)
		if !leftPrim || !Equal(left, right) {
			r.fail(diag.CodeTypeMismatch, e.Span(),
				"operator %s requires matching primitive operands, found %s and %s",
				e.Op, left, right)
			return TypeUnresolved
		}
		return TypeBool
	case "&&", "||":
		if !Equal(left, TypeBool) || !Equal(right, TypeBool) {
			r.fail(diag.CodeTypeMismatch, e.Span(),
				"operator %s requires bool operands, found %s and %s",
				e.Op, left, right)
			return TypeUnresolved
		}
		return TypeBool
	default:
		r.fail(diag.CodeTypeMismatch, e.Span(), "unknown operator %q", e.Op)
		return TypeUnresolved
	}
}

func (r *Resolver) typeOfCall(e *ast.CallExpr, scope *Scope) Type {
	switch callee := e.Callee.(type) {
	case *ast.Ident:
		return r.typeOfFnCall(e, callee, scope)
	case *ast.FieldAccessExpr:
		if recv, ok := callee.Receiver.(*ast.Ident); ok {
			if sym := scope.Lookup(recv.Name); sym != nil && sym.Kind == SymImport {
				r.info.Uses[recv] = sym
				return r.typeOfBuiltinCall(e, recv.Name, callee.Field, scope)
			}
		}
	}
	r.fail(diag.CodeTypeMismatch, e.Callee.Span(),
		"expression is not callable")
	return TypeUnresolved
}

func (r *Resolver) typeOfFnCall(e *ast.CallExpr, callee *ast.Ident, scope *Scope) Type {
	sym := scope.Lookup(callee.Name)
	if sym == nil {
		r.fail(diag.CodeUnresolvedName, callee.Span(), "undefined name %q", callee.Name)
		return TypeUnresolved
	}
	r.info.Uses[callee] = sym
	if sym.Kind != SymFn {
		r.fail(diag.CodeTypeMismatch, callee.Span(),
			"%s is not a function", describeSymbolUse(sym))
		return TypeUnresolved
	}

	sig := r.info.Funcs[callee.Name]
	if len(e.Args) != len(sig.Params) {
		r.fail(diag.CodeArityMismatch, e.Span(),
			"function %q takes %d argument(s), found %d",
			sig.Name, len(sig.Params), len(e.Args))
		return TypeUnresolved
	}

	for i, arg := range e.Args {
		argType := r.typeOfExpr(arg, scope)
		if r.err != nil {
			return TypeUnresolved
		}
		r.checkAssignable(arg, argType, sig.Params[i], arg.Span(),
			"argument to "+sig.Name)
		if r.err != nil {
			return TypeUnresolved
		}
	}

	return sig.Return
}

func (r *Resolver) typeOfBuiltinCall(e *ast.CallExpr, module string, name *ast.Ident, scope *Scope) Type {
	b, ok := r.table.Lookup(module, name.Name, len(e.Args))
	if !ok {
		if other, found := r.table.LookupAny(module, name.Name); found {
			r.fail(diag.CodeArityMismatch, e.Span(),
				"builtin %s takes %d argument(s), found %d",
				other.QualifiedName(), other.Arity, len(e.Args))
			return TypeUnresolved
		}
		r.fail(diag.CodeUnknownBuiltin, name.Span(),
			"unknown builtin %s.%s", module, name.Name)
		return TypeUnresolved
	}
	r.info.Builtins[e] = b

	// First pass over the arguments pins down the element type used by the
	// "elem" wildcard.
	argTypes := make([]Type, len(e.Args))
	var elemType Type
	for i, arg := range e.Args {
		argTypes[i] = r.typeOfExpr(arg, scope)
		if r.err != nil {
			return TypeUnresolved
		}
		if b.Params[i] == "list" && elemType == nil {
			if list, ok := argTypes[i].(*List); ok {
				elemType = list.Elem
			}
		}
	}

	for i, arg := range e.Args {
		want := r.builtinParamType(b.Params[i], elemType)
		if want == nil {
			// "any" accepts every non-void value.
			if Equal(argTypes[i], TypeVoid) {
				r.fail(diag.CodeTypeMismatch, arg.Span(),
					"argument to %s has no value", b.QualifiedName())
				return TypeUnresolved
			}
			continue
		}
		if b.Params[i] == "list" {
			if _, ok := argTypes[i].(*List); !ok {
				r.fail(diag.CodeTypeMismatch, arg.Span(),
					"argument to %s: expected a list, found %s",
					b.QualifiedName(), argTypes[i])
				return TypeUnresolved
			}
			continue
		}
		r.checkAssignable(arg, argTypes[i], want, arg.Span(),
			"argument to "+b.QualifiedName())
		if r.err != nil {
			return TypeUnresolved
		}
	}

	result := r.builtinParamType(b.Result, elemType)
	if result == nil {
		// "any" is not meaningful as a result; treat as void.
		return TypeVoid
	}
	return result
}

// builtinParamType maps a mapping-table type name to a Type. It returns nil
// for the "any" wildcard, and the pinned element type for "elem".
func (r *Resolver) builtinParamType(name string, elemType Type) Type {
	switch name {
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
	case "elem":
		if elemType != nil {
			return elemType
		}
		return TypeUnresolved
	case "list", "any":
		return nil
	default:
		return TypeUnresolved
	}
}

func (r *Resolver) typeOfFieldAccess(e *ast.FieldAccessExpr, scope *Scope) Type {
	// A bare module.name access outside a call has no value type.
	if recv, ok := e.Receiver.(*ast.Ident); ok {
		if sym := scope.Lookup(recv.Name); sym != nil && sym.Kind == SymImport {
			r.fail(diag.CodeTypeMismatch, e.Span(),
				"builtin %s.%s must be called", recv.Name, e.Field.Name)
			return TypeUnresolved
		}
	}

	recvType := r.typeOfExpr(e.Receiver, scope)
	if r.err != nil {
		return TypeUnresolved
	}
	st, ok := recvType.(*Struct)
	if !ok {
		r.fail(diag.CodeTypeMismatch, e.Receiver.Span(),
			"field access requires a struct, found %s", recvType)
		return TypeUnresolved
	}
	ft, ok := st.FieldType(e.Field.Name)
	if !ok {
		r.fail(diag.CodeUnknownField, e.Field.Span(),
			"struct %q has no field %q", st.Name, e.Field.Name)
		return TypeUnresolved
	}
	return ft
}

func (r *Resolver) typeOfIndex(e *ast.IndexExpr, scope *Scope) Type {
	recvType := r.typeOfExpr(e.Receiver, scope)
	if r.err != nil {
		return TypeUnresolved
	}
	list, ok := recvType.(*List)
	if !ok {
		r.fail(diag.CodeTypeMismatch, e.Receiver.Span(),
			"indexing requires a list, found %s", recvType)
		return TypeUnresolved
	}

	indexType := r.typeOfExpr(e.Index, scope)
	if r.err != nil {
		return TypeUnresolved
	}
	if !Equal(indexType, TypeInt) {
		r.fail(diag.CodeTypeMismatch, e.Index.Span(),
			"list index must be int, found %s", indexType)
		return TypeUnresolved
	}
	return list.Elem
}

func (r *Resolver) typeOfStructLiteral(e *ast.StructLiteralExpr, scope *Scope) Type {
	sym := scope.Lookup(e.Name.Name)
	if sym == nil {
		r.fail(diag.CodeUnresolvedName, e.Name.Span(), "undefined name %q", e.Name.Name)
		return TypeUnresolved
	}
	r.info.Uses[e.Name] = sym
	if sym.Kind != SymStruct {
		r.fail(diag.CodeTypeMismatch, e.Name.Span(),
			"%s is not a struct", describeSymbolUse(sym))
		return TypeUnresolved
	}
	st := r.info.Structs[e.Name.Name]

	seen := make(map[string]bool)
	for _, field := range e.Fields {
		ft, ok := st.FieldType(field.Name.Name)
		if !ok {
			r.fail(diag.CodeUnknownField, field.Name.Span(),
				"struct %q has no field %q", st.Name, field.Name.Name)
			return TypeUnresolved
		}
		if seen[field.Name.Name] {
			r.fail(diag.CodeTypeMismatch, field.Name.Span(),
				"field %q given more than once", field.Name.Name)
			return TypeUnresolved
		}
		seen[field.Name.Name] = true

		valueType := r.typeOfExpr(field.Value, scope)
		if r.err != nil {
			return TypeUnresolved
		}
		r.checkAssignable(field.Value, valueType, ft, field.Value.Span(),
			"field "+field.Name.Name)
		if r.err != nil {
			return TypeUnresolved
		}
	}

	for _, field := range st.Fields {
		if !seen[field.Name] {
			r.fail(diag.CodeTypeMismatch, e.Span(),
				"missing field %q in literal of struct %q", field.Name, st.Name)
			return TypeUnresolved
		}
	}

	return st
}

func (r *Resolver) typeOfListLiteral(e *ast.ListLiteralExpr, scope *Scope) Type {
	if len(e.Elems) == 0 {
		return &List{Elem: TypeUnresolved}
	}

	first := r.typeOfExpr(e.Elems[0], scope)
	if r.err != nil {
		return TypeUnresolved
	}
	for _, elem := range e.Elems[1:] {
		et := r.typeOfExpr(elem, scope)
		if r.err != nil {
			return TypeUnresolved
		}
		if !Equal(et, first) {
			r.fail(diag.CodeTypeMismatch, elem.Span(),
				"list elements must share one type: found %s and %s", first, et)
			return TypeUnresolved
		}
	}
	return &List{Elem: first}
}
