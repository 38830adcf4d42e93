package ownership

import (
	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/diag"
	"github.com/rustic-lang/rustic/internal/lexer"
	"github.com/rustic-lang/rustic/internal/types"
)

// Result carries every ownership decision the code generator needs.
type Result struct {
	// Decisions maps each value-producing identifier use to its outcome.
	// Declaration sites and function/struct/module names are absent.
	Decisions map[*ast.Ident]Decision

	// ExprClones marks field-access and index expressions whose result
	// feeds a consuming context and therefore must be cloned out of the
	// containing value rather than moved out of it.
	ExprClones map[ast.Expr]bool

	// Contracts holds the inferred parameter contract per function name.
	Contracts map[string]*Contract

	refSyms map[*types.Symbol]bool
	mutSyms map[*types.Symbol]bool
}

// DecisionFor returns the decision recorded for a use site.
func (r *Result) DecisionFor(id *ast.Ident) (Decision, bool) {
	d, ok := r.Decisions[id]
	return d, ok
}

// IsRef reports whether a binding is itself a reference in the generated
// code: by-reference parameters and loop variables of borrowed iterations.
// Such bindings are spelled bare where an owned binding would take "&".
func (r *Result) IsRef(sym *types.Symbol) bool {
	return r.refSyms[sym]
}

// NeedsMut reports whether a binding is written through somewhere in its
// lifetime — assigned, field-assigned, or lent to a mutating callee. The
// generator gives such bindings a mut slot even when the source declared
// them with let.
func (r *Result) NeedsMut(sym *types.Symbol) bool {
	return r.mutSyms[sym]
}

// Analyzer runs after name and type resolution. It computes function
// contracts to a fixpoint across the call graph, then classifies every use
// site of every binding in document order.
type Analyzer struct {
	mod  *ast.Module
	info *types.Info
	res  *Result
}

// Analyze infers ownership for the whole module. Builtin argument modes are
// read from the call-site entries the resolver recorded.
func Analyze(mod *ast.Module, info *types.Info) (*Result, error) {
	a := &Analyzer{
		mod:  mod,
		info: info,
		res: &Result{
			Decisions:  make(map[*ast.Ident]Decision),
			ExprClones: make(map[ast.Expr]bool),
			Contracts:  make(map[string]*Contract),
			refSyms:    make(map[*types.Symbol]bool),
			mutSyms:    make(map[*types.Symbol]bool),
		},
	}
	a.computeContracts()
	for _, decl := range mod.Decls {
		fn, ok := decl.(*ast.FnDecl)
		if !ok {
			continue
		}
		if err := a.classifyFn(fn); err != nil {
			return nil, err
		}
	}
	return a.res, nil
}

// computeContracts seeds every non-copy parameter at ByRef and escalates
// toward ByValue until no contract changes. Escalation is monotone, so the
// loop terminates even for mutual recursion.
func (a *Analyzer) computeContracts() {
	fns := make([]*ast.FnDecl, 0, len(a.mod.Decls))
	for _, decl := range a.mod.Decls {
		if fn, ok := decl.(*ast.FnDecl); ok {
			fns = append(fns, fn)
		}
	}
	for _, fn := range fns {
		sig := a.info.Funcs[fn.Name.Name]
		c := &Contract{
			Params:  make([]ParamMode, len(sig.Params)),
			Mutated: make([]bool, len(sig.Params)),
		}
		for i, pt := range sig.Params {
			if types.IsCopy(pt) {
				c.Params[i] = ByValue
			} else {
				c.Params[i] = ByRef
			}
		}
		a.res.Contracts[fn.Name.Name] = c
	}
	for changed := true; changed; {
		changed = false
		for _, fn := range fns {
			next := a.contractOf(fn)
			cur := a.res.Contracts[fn.Name.Name]
			merged := &Contract{
				Params:  make([]ParamMode, len(cur.Params)),
				Mutated: make([]bool, len(cur.Params)),
			}
			for i := range cur.Params {
				merged.Params[i] = strongest(cur.Params[i], next.Params[i])
				merged.Mutated[i] = cur.Mutated[i] || next.Mutated[i]
			}
			if !merged.equal(cur) {
				a.res.Contracts[fn.Name.Name] = merged
				changed = true
			}
		}
	}
}

// contractOf derives a contract for one function from how its body uses
// each parameter under the current contract table.
func (a *Analyzer) contractOf(fn *ast.FnDecl) *Contract {
	uses := a.collect(fn)
	sig := a.info.Funcs[fn.Name.Name]
	c := &Contract{
		Params:  make([]ParamMode, len(fn.Params)),
		Mutated: make([]bool, len(fn.Params)),
	}
	for i, p := range fn.Params {
		sym := a.info.Defs[p.Name]
		b := uses.bindings[sym]
		var mutated, consumedLast bool
		if b != nil {
			for j, u := range b.uses {
				if u.ctx == ctxMutate {
					mutated = true
				}
				if u.ctx == ctxConsume && j == len(b.uses)-1 && u.loopDepth == 0 {
					consumedLast = true
				}
			}
		}
		c.Mutated[i] = mutated
		switch {
		case types.IsCopy(sig.Params[i]):
			c.Params[i] = ByValue
		case consumedLast:
			c.Params[i] = ByValue
		case mutated:
			c.Params[i] = ByRefMut
		default:
			c.Params[i] = ByRef
		}
	}
	return c
}

// classifyFn assigns a decision to every use site in one function and then
// verifies that no binding is used after the use chosen as its move.
func (a *Analyzer) classifyFn(fn *ast.FnDecl) *diag.Error {
	contract := a.res.Contracts[fn.Name.Name]
	for i, p := range fn.Params {
		sym := a.info.Defs[p.Name]
		if contract.Params[i] != ByValue {
			a.res.refSyms[sym] = true
		}
	}
	uses := a.collect(fn)
	for _, sym := range uses.order {
		b := uses.bindings[sym]
		owned := sym.Kind != types.SymLoopVar
		if sym.Kind == types.SymParam && a.res.refSyms[sym] {
			owned = false
		}
		last := len(b.uses) - 1
		for i, u := range b.uses {
			movable := owned && i == last && u.loopDepth == b.declDepth
			switch u.ctx {
			case ctxRead:
				a.res.Decisions[u.id] = BorrowShared
			case ctxMutate:
				a.res.Decisions[u.id] = BorrowExclusive
				a.res.mutSyms[sym] = true
			case ctxIter:
				// Iteration never needs a clone; a borrowed
				// iteration walks the elements by reference.
				if movable {
					a.res.Decisions[u.id] = Move
				} else {
					a.res.Decisions[u.id] = BorrowShared
				}
			case ctxConsume:
				if movable {
					a.res.Decisions[u.id] = Move
				} else {
					a.res.Decisions[u.id] = Clone
				}
			default:
				return diag.Errorf(diag.StageOwnership, diag.CodeAmbiguousOwnership, toSpan(u.id.Span()),
					"cannot determine how %q is used here", sym.Name)
			}
		}
		if err := a.checkMoves(sym, b); err != nil {
			return err
		}
	}
	a.markLoopVarRefs(fn)
	return nil
}

// markLoopVarRefs records the loop variables of borrowed iterations as
// reference bindings: only a moved binding or an owned temporary (a call
// result or a list literal) is iterated by value.
func (a *Analyzer) markLoopVarRefs(fn *ast.FnDecl) {
	ast.Walk(fn.Body, func(n ast.Node) bool {
		fs, ok := n.(*ast.ForStmt)
		if !ok {
			return true
		}
		switch iter := fs.Iter.(type) {
		case *ast.Ident:
			if d, ok := a.res.DecisionFor(iter); ok && d == Move {
				return true
			}
		case *ast.CallExpr, *ast.ListLiteralExpr:
			return true
		}
		if sym := a.info.Defs[fs.Var]; sym != nil {
			a.res.refSyms[sym] = true
		}
		return true
	})
}

// checkMoves re-walks one binding's uses and rejects any use that follows
// the use classified as its move. The classification above never produces
// such a sequence; the check guards the code generator's preconditions.
func (a *Analyzer) checkMoves(sym *types.Symbol, b *binding) *diag.Error {
	moved := -1
	for i, u := range b.uses {
		if moved >= 0 {
			err := diag.Errorf(diag.StageOwnership, diag.CodeUseAfterMove, toSpan(u.id.Span()),
				"%q is used here after its value was moved", sym.Name)
			err.Diagnostic = err.Diagnostic.
				WithRelated(toSpan(b.uses[moved].id.Span()), "value moved here").
				WithHelp("the moving use is not the last use of the binding")
			return err
		}
		if a.res.Decisions[u.id] == Move {
			moved = i
		}
	}
	return nil
}

func toSpan(s lexer.Span) diag.Span {
	return diag.Span{
		Filename: s.Filename,
		Line:     s.Line,
		Column:   s.Column,
		Start:    s.Start,
		End:      s.End,
	}
}
