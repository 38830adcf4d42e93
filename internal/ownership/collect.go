package ownership

import (
	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/types"
)

// useCtx describes what a use site does with the binding's value.
type useCtx uint8

const (
	ctxUnknown useCtx = iota
	ctxRead           // value only inspected
	ctxMutate         // value written through
	ctxConsume        // context takes ownership of the value
	ctxIter           // value iterated by a for loop
)

// use is one identifier use site with its context and the loop nesting
// depth at which it executes.
type use struct {
	id        *ast.Ident
	ctx       useCtx
	loopDepth int
}

// binding tracks every use of one symbol in document order. declDepth is
// the loop nesting depth at the declaration site; a use at a greater depth
// repeats relative to the binding and can never be its move.
type binding struct {
	sym       *types.Symbol
	declDepth int
	uses      []use
}

// useSites holds the collected bindings of one function. order preserves
// declaration order so classification and reporting stay deterministic.
type useSites struct {
	bindings map[*types.Symbol]*binding
	order    []*types.Symbol
}

type collector struct {
	a         *Analyzer
	sites     *useSites
	loopDepth int
}

// collect gathers every identifier use in fn's body, in document order.
func (a *Analyzer) collect(fn *ast.FnDecl) *useSites {
	c := &collector{
		a: a,
		sites: &useSites{
			bindings: make(map[*types.Symbol]*binding),
		},
	}
	for _, p := range fn.Params {
		c.declare(a.info.Defs[p.Name])
	}
	c.block(fn.Body)
	return c.sites
}

func (c *collector) declare(sym *types.Symbol) {
	if sym == nil {
		return
	}
	c.sites.bindings[sym] = &binding{sym: sym, declDepth: c.loopDepth}
	c.sites.order = append(c.sites.order, sym)
}

func (c *collector) record(id *ast.Ident, ctx useCtx) {
	sym := c.a.info.Uses[id]
	if sym == nil {
		return
	}
	switch sym.Kind {
	case types.SymBinding, types.SymParam, types.SymLoopVar:
	default:
		return
	}
	b := c.sites.bindings[sym]
	if b == nil {
		return
	}
	b.uses = append(b.uses, use{id: id, ctx: ctx, loopDepth: c.loopDepth})
}

func (c *collector) block(b *ast.Block) {
	for _, stmt := range b.Stmts {
		c.stmt(stmt)
	}
}

func (c *collector) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		// The initializer runs before the binding exists; its value moves
		// into the new binding.
		c.expr(s.Value, ctxConsume)
		c.declare(c.a.info.Defs[s.Name])

	case *ast.AssignStmt:
		c.target(s.Target)
		c.expr(s.Value, ctxConsume)

	case *ast.ReturnStmt:
		if s.Value != nil {
			c.expr(s.Value, ctxConsume)
		}

	case *ast.IfStmt:
		c.expr(s.Cond, ctxRead)
		c.block(s.Then)
		switch els := s.Else.(type) {
		case *ast.Block:
			c.block(els)
		case *ast.IfStmt:
			c.stmt(els)
		}

	case *ast.WhileStmt:
		// The condition re-evaluates on every iteration, so its uses count
		// as loop-carried just like the body's.
		c.loopDepth++
		c.expr(s.Cond, ctxRead)
		c.block(s.Body)
		c.loopDepth--

	case *ast.ForStmt:
		c.expr(s.Iter, ctxIter)
		c.loopDepth++
		c.declare(c.a.info.Defs[s.Var])
		c.block(s.Body)
		c.loopDepth--

	case *ast.ExprStmt:
		c.expr(s.Expr, ctxRead)

	case *ast.Block:
		c.block(s)
	}
}

// target records the uses inside an assignment target: the root binding is
// mutated, everything else (an index expression, say) is only read.
func (c *collector) target(e ast.Expr) {
	switch t := e.(type) {
	case *ast.Ident:
		c.record(t, ctxMutate)
	case *ast.FieldAccessExpr:
		c.target(t.Receiver)
	case *ast.IndexExpr:
		c.target(t.Receiver)
		c.expr(t.Index, ctxRead)
	}
}

func (c *collector) expr(e ast.Expr, ctx useCtx) {
	switch ex := e.(type) {
	case *ast.Ident:
		c.record(ex, ctx)

	case *ast.UnaryExpr:
		c.expr(ex.Operand, ctxRead)

	case *ast.BinaryExpr:
		c.expr(ex.Left, ctxRead)
		c.expr(ex.Right, ctxRead)

	case *ast.CallExpr:
		c.call(ex)

	case *ast.FieldAccessExpr:
		if ctx == ctxMutate {
			c.target(ex)
			return
		}
		// Consuming a field would leave the containing value partially
		// moved; clone the field out instead and keep the receiver intact.
		if ctx == ctxConsume && !types.IsCopy(c.a.info.TypeOf(ex)) {
			c.a.res.ExprClones[ex] = true
		}
		c.expr(ex.Receiver, ctxRead)

	case *ast.IndexExpr:
		if ctx == ctxMutate {
			c.target(ex)
			return
		}
		if ctx == ctxConsume && !types.IsCopy(c.a.info.TypeOf(ex)) {
			c.a.res.ExprClones[ex] = true
		}
		c.expr(ex.Receiver, ctxRead)
		c.expr(ex.Index, ctxRead)

	case *ast.StructLiteralExpr:
		for _, field := range ex.Fields {
			c.expr(field.Value, ctxConsume)
		}

	case *ast.ListLiteralExpr:
		for _, elem := range ex.Elems {
			c.expr(elem, ctxConsume)
		}
	}
}

// call records argument uses according to the callee's ownership demands:
// the memoized contract for a user function, the mapping entry for a
// builtin.
func (c *collector) call(e *ast.CallExpr) {
	if b := c.a.info.Builtins[e]; b != nil {
		for i, arg := range e.Args {
			c.expr(arg, argCtx(string(b.Args[i])))
		}
		return
	}

	callee, ok := e.Callee.(*ast.Ident)
	if !ok {
		for _, arg := range e.Args {
			c.expr(arg, ctxRead)
		}
		return
	}
	contract := c.a.res.Contracts[callee.Name]
	for i, arg := range e.Args {
		ctx := ctxRead
		if contract != nil && i < len(contract.Params) {
			switch contract.Params[i] {
			case ByValue:
				ctx = ctxConsume
			case ByRefMut:
				ctx = ctxMutate
			}
		}
		c.expr(arg, ctx)
	}
}

func argCtx(mode string) useCtx {
	switch mode {
	case "value":
		return ctxConsume
	case "mut":
		return ctxMutate
	default:
		return ctxRead
	}
}
