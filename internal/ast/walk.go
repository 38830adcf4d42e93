package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch. Children are
// visited in source order.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Module:
		for _, imp := range n.Imports {
			Walk(imp, fn)
		}
		for _, decl := range n.Decls {
			Walk(decl, fn)
		}

	case *ImportDecl:
		Walk(n.Name, fn)

	case *StructDecl:
		Walk(n.Name, fn)
		for _, field := range n.Fields {
			Walk(field, fn)
		}

	case *Field:
		Walk(n.Name, fn)
		Walk(n.Type, fn)

	case *FnDecl:
		Walk(n.Name, fn)
		for _, param := range n.Params {
			Walk(param, fn)
		}
		if n.ReturnType != nil {
			Walk(n.ReturnType, fn)
		}
		Walk(n.Body, fn)

	case *Param:
		Walk(n.Name, fn)
		Walk(n.Type, fn)

	case *Block:
		for _, stmt := range n.Stmts {
			Walk(stmt, fn)
		}

	case *LetStmt:
		Walk(n.Name, fn)
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		Walk(n.Value, fn)

	case *AssignStmt:
		Walk(n.Target, fn)
		Walk(n.Value, fn)

	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *IfStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		if n.Else != nil {
			Walk(n.Else, fn)
		}

	case *WhileStmt:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)

	case *ForStmt:
		Walk(n.Var, fn)
		Walk(n.Iter, fn)
		Walk(n.Body, fn)

	case *ExprStmt:
		Walk(n.Expr, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		Walk(n.Operand, fn)

	case *CallExpr:
		Walk(n.Callee, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *FieldAccessExpr:
		Walk(n.Receiver, fn)
		Walk(n.Field, fn)

	case *IndexExpr:
		Walk(n.Receiver, fn)
		Walk(n.Index, fn)

	case *StructLiteralExpr:
		Walk(n.Name, fn)
		for _, field := range n.Fields {
			Walk(field.Name, fn)
			Walk(field.Value, fn)
		}

	case *ListLiteralExpr:
		for _, elem := range n.Elems {
			Walk(elem, fn)
		}

	case *ListType:
		Walk(n.Elem, fn)

	case *NamedType:
		Walk(n.Name, fn)
	}
}
