package ast

import "github.com/rustic-lang/rustic/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl represents a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// TypeExpr represents a type annotation expression.
type TypeExpr interface {
	Node
	typeNode()
}

// Module represents a parsed compilation unit. Each node is owned exclusively
// by its parent; the tree carries no back-references.
type Module struct {
	Name    string
	Imports []*ImportDecl
	Decls   []Decl
	span    lexer.Span
}

// Span returns the span covering the entire module.
func (m *Module) Span() lexer.Span { return m.span }

// NewModule constructs a module node with the provided name and span.
func NewModule(name string, span lexer.Span) *Module {
	return &Module{Name: name, span: span}
}

// SetSpan updates the module span.
func (m *Module) SetSpan(span lexer.Span) { m.span = span }

// ImportDecl represents a flat module import, e.g. `import math`.
type ImportDecl struct {
	Name *Ident
	span lexer.Span
}

// Span returns the declaration span.
func (d *ImportDecl) Span() lexer.Span { return d.span }

// NewImportDecl constructs an import declaration node.
func NewImportDecl(name *Ident, span lexer.Span) *ImportDecl {
	return &ImportDecl{Name: name, span: span}
}

// StructDecl represents a struct declaration.
type StructDecl struct {
	Name   *Ident
	Fields []*Field
	span   lexer.Span
}

// Span returns the declaration span.
func (d *StructDecl) Span() lexer.Span { return d.span }

// NewStructDecl constructs a struct declaration node.
func NewStructDecl(name *Ident, fields []*Field, span lexer.Span) *StructDecl {
	return &StructDecl{Name: name, Fields: fields, span: span}
}

func (*StructDecl) declNode() {}

// Field represents a named, typed struct field.
type Field struct {
	Name *Ident
	Type TypeExpr
	span lexer.Span
}

// Span returns the field span.
func (f *Field) Span() lexer.Span { return f.span }

// NewField constructs a struct field node.
func NewField(name *Ident, typ TypeExpr, span lexer.Span) *Field {
	return &Field{Name: name, Type: typ, span: span}
}

// FnDecl represents a function declaration.
type FnDecl struct {
	Name       *Ident
	Params     []*Param
	ReturnType TypeExpr // nil means void
	Body       *Block
	span       lexer.Span
}

// Span returns the declaration span.
func (d *FnDecl) Span() lexer.Span { return d.span }

// NewFnDecl constructs a function declaration node.
func NewFnDecl(name *Ident, params []*Param, returnType TypeExpr, body *Block, span lexer.Span) *FnDecl {
	return &FnDecl{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Body:       body,
		span:       span,
	}
}

func (*FnDecl) declNode() {}

// Param represents a function parameter.
type Param struct {
	Name *Ident
	Type TypeExpr
	span lexer.Span
}

// Span returns the parameter span.
func (p *Param) Span() lexer.Span { return p.span }

// NewParam constructs a parameter node.
func NewParam(name *Ident, typ TypeExpr, span lexer.Span) *Param {
	return &Param{Name: name, Type: typ, span: span}
}

// Block represents a braced statement sequence.
type Block struct {
	Stmts []Stmt
	span  lexer.Span
}

// Span returns the block span.
func (b *Block) Span() lexer.Span { return b.span }

// NewBlock constructs a block node.
func NewBlock(stmts []Stmt, span lexer.Span) *Block {
	return &Block{Stmts: stmts, span: span}
}

// LetStmt represents a `let` or `var` binding statement.
type LetStmt struct {
	Mutable bool // true for `var`
	Name    *Ident
	Type    TypeExpr
	Value   Expr
	span    lexer.Span
}

// Span returns the statement span.
func (s *LetStmt) Span() lexer.Span { return s.span }

// NewLetStmt constructs a binding statement node.
func NewLetStmt(mutable bool, name *Ident, typ TypeExpr, value Expr, span lexer.Span) *LetStmt {
	return &LetStmt{
		Mutable: mutable,
		Name:    name,
		Type:    typ,
		Value:   value,
		span:    span,
	}
}

func (*LetStmt) stmtNode() {}

// AssignStmt represents an assignment to a binding or a field, e.g.
// `x = e` or `p.x = e`.
type AssignStmt struct {
	Target Expr // *Ident or *FieldAccessExpr or *IndexExpr
	Value  Expr
	span   lexer.Span
}

// Span returns the statement span.
func (s *AssignStmt) Span() lexer.Span { return s.span }

// NewAssignStmt constructs an assignment statement node.
func NewAssignStmt(target, value Expr, span lexer.Span) *AssignStmt {
	return &AssignStmt{Target: target, Value: value, span: span}
}

func (*AssignStmt) stmtNode() {}

// ReturnStmt represents a return statement with an optional value.
type ReturnStmt struct {
	Value Expr // nil for bare return
	span  lexer.Span
}

// Span returns the statement span.
func (s *ReturnStmt) Span() lexer.Span { return s.span }

// NewReturnStmt constructs a return statement node.
func NewReturnStmt(value Expr, span lexer.Span) *ReturnStmt {
	return &ReturnStmt{Value: value, span: span}
}

func (*ReturnStmt) stmtNode() {}

// IfStmt represents an if statement with optional else branch. ElseIf chains
// are represented as an IfStmt in Else.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else Stmt // *Block, *IfStmt, or nil
	span lexer.Span
}

// Span returns the statement span.
func (s *IfStmt) Span() lexer.Span { return s.span }

// NewIfStmt constructs an if statement node.
func NewIfStmt(cond Expr, then *Block, els Stmt, span lexer.Span) *IfStmt {
	return &IfStmt{Cond: cond, Then: then, Else: els, span: span}
}

func (*IfStmt) stmtNode() {}

// Block participates as a statement only as an else branch.
func (*Block) stmtNode() {}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Cond Expr
	Body *Block
	span lexer.Span
}

// Span returns the statement span.
func (s *WhileStmt) Span() lexer.Span { return s.span }

// NewWhileStmt constructs a while statement node.
func NewWhileStmt(cond Expr, body *Block, span lexer.Span) *WhileStmt {
	return &WhileStmt{Cond: cond, Body: body, span: span}
}

func (*WhileStmt) stmtNode() {}

// ForStmt represents `for x in e` iteration over a list.
type ForStmt struct {
	Var  *Ident
	Iter Expr
	Body *Block
	span lexer.Span
}

// Span returns the statement span.
func (s *ForStmt) Span() lexer.Span { return s.span }

// NewForStmt constructs a for statement node.
func NewForStmt(v *Ident, iter Expr, body *Block, span lexer.Span) *ForStmt {
	return &ForStmt{Var: v, Iter: iter, Body: body, span: span}
}

func (*ForStmt) stmtNode() {}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	Expr Expr
	span lexer.Span
}

// Span returns the statement span.
func (s *ExprStmt) Span() lexer.Span { return s.span }

// NewExprStmt constructs an expression statement node.
func NewExprStmt(expr Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{Expr: expr, span: span}
}

func (*ExprStmt) stmtNode() {}

// Ident represents an identifier.
type Ident struct {
	Name string
	span lexer.Span
}

// Span returns the identifier span.
func (i *Ident) Span() lexer.Span { return i.span }

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{Name: name, span: span}
}

func (*Ident) exprNode() {}

// IntLit represents an integer literal.
type IntLit struct {
	Text string
	span lexer.Span
}

// Span returns the literal span.
func (l *IntLit) Span() lexer.Span { return l.span }

// NewIntLit constructs an integer literal node.
func NewIntLit(text string, span lexer.Span) *IntLit {
	return &IntLit{Text: text, span: span}
}

func (*IntLit) exprNode() {}

// FloatLit represents a floating-point literal.
type FloatLit struct {
	Text string
	span lexer.Span
}

// Span returns the literal span.
func (l *FloatLit) Span() lexer.Span { return l.span }

// NewFloatLit constructs a float literal node.
func NewFloatLit(text string, span lexer.Span) *FloatLit {
	return &FloatLit{Text: text, span: span}
}

func (*FloatLit) exprNode() {}

// StringLit represents a string literal. Value holds the decoded text.
type StringLit struct {
	Value string
	span  lexer.Span
}

// Span returns the literal span.
func (l *StringLit) Span() lexer.Span { return l.span }

// NewStringLit constructs a string literal node.
func NewStringLit(value string, span lexer.Span) *StringLit {
	return &StringLit{Value: value, span: span}
}

func (*StringLit) exprNode() {}

// BoolLit represents a boolean literal.
type BoolLit struct {
	Value bool
	span  lexer.Span
}

// Span returns the literal span.
func (l *BoolLit) Span() lexer.Span { return l.span }

// NewBoolLit constructs a boolean literal node.
func NewBoolLit(value bool, span lexer.Span) *BoolLit {
	return &BoolLit{Value: value, span: span}
}

func (*BoolLit) exprNode() {}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	Left  Expr
	Op    string // token text: + - * / % == != < <= > >= && ||
	Right Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *BinaryExpr) Span() lexer.Span { return e.span }

// NewBinaryExpr constructs a binary expression node.
func NewBinaryExpr(left Expr, op string, right Expr, span lexer.Span) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: op, Right: right, span: span}
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents a prefix operation (- or !).
type UnaryExpr struct {
	Op      string
	Operand Expr
	span    lexer.Span
}

// Span returns the expression span.
func (e *UnaryExpr) Span() lexer.Span { return e.span }

// NewUnaryExpr constructs a unary expression node.
func NewUnaryExpr(op string, operand Expr, span lexer.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, span: span}
}

func (*UnaryExpr) exprNode() {}

// CallExpr represents a function or builtin call.
type CallExpr struct {
	Callee Expr // *Ident or *FieldAccessExpr (builtin: module.name)
	Args   []Expr
	span   lexer.Span
}

// Span returns the expression span.
func (e *CallExpr) Span() lexer.Span { return e.span }

// NewCallExpr constructs a call expression node.
func NewCallExpr(callee Expr, args []Expr, span lexer.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}

func (*CallExpr) exprNode() {}

// FieldAccessExpr represents `recv.field`.
type FieldAccessExpr struct {
	Receiver Expr
	Field    *Ident
	span     lexer.Span
}

// Span returns the expression span.
func (e *FieldAccessExpr) Span() lexer.Span { return e.span }

// NewFieldAccessExpr constructs a field access node.
func NewFieldAccessExpr(recv Expr, field *Ident, span lexer.Span) *FieldAccessExpr {
	return &FieldAccessExpr{Receiver: recv, Field: field, span: span}
}

func (*FieldAccessExpr) exprNode() {}

// IndexExpr represents `list[index]`.
type IndexExpr struct {
	Receiver Expr
	Index    Expr
	span     lexer.Span
}

// Span returns the expression span.
func (e *IndexExpr) Span() lexer.Span { return e.span }

// NewIndexExpr constructs an index expression node.
func NewIndexExpr(recv, index Expr, span lexer.Span) *IndexExpr {
	return &IndexExpr{Receiver: recv, Index: index, span: span}
}

func (*IndexExpr) exprNode() {}

// StructLitField is one `name: value` entry of a struct literal, in written
// order.
type StructLitField struct {
	Name  *Ident
	Value Expr
}

// StructLiteralExpr represents `Name { field: value, ... }`.
type StructLiteralExpr struct {
	Name   *Ident
	Fields []StructLitField
	span   lexer.Span
}

// Span returns the expression span.
func (e *StructLiteralExpr) Span() lexer.Span { return e.span }

// NewStructLiteralExpr constructs a struct literal node.
func NewStructLiteralExpr(name *Ident, fields []StructLitField, span lexer.Span) *StructLiteralExpr {
	return &StructLiteralExpr{Name: name, Fields: fields, span: span}
}

func (*StructLiteralExpr) exprNode() {}

// ListLiteralExpr represents `[e1, e2, ...]`.
type ListLiteralExpr struct {
	Elems []Expr
	span  lexer.Span
}

// Span returns the expression span.
func (e *ListLiteralExpr) Span() lexer.Span { return e.span }

// NewListLiteralExpr constructs a list literal node.
func NewListLiteralExpr(elems []Expr, span lexer.Span) *ListLiteralExpr {
	return &ListLiteralExpr{Elems: elems, span: span}
}

func (*ListLiteralExpr) exprNode() {}

// NamedType is a type annotation referring to a primitive or struct name.
type NamedType struct {
	Name *Ident
	span lexer.Span
}

// Span returns the type span.
func (t *NamedType) Span() lexer.Span { return t.span }

// NewNamedType constructs a named type node.
func NewNamedType(name *Ident, span lexer.Span) *NamedType {
	return &NamedType{Name: name, span: span}
}

func (*NamedType) typeNode() {}

// ListType is a `list[T]` type annotation.
type ListType struct {
	Elem TypeExpr
	span lexer.Span
}

// Span returns the type span.
func (t *ListType) Span() lexer.Span { return t.span }

// NewListType constructs a list type node.
func NewListType(elem TypeExpr, span lexer.Span) *ListType {
	return &ListType{Elem: elem, span: span}
}

func (*ListType) typeNode() {}
