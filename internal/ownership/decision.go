// Package ownership classifies every binding use site as a move, borrow, or
// clone so the generated Rust preserves Rustic's permissive value semantics
// while always satisfying the borrow checker.
package ownership

// Decision is the ownership outcome attached to one use site of one binding.
type Decision uint8

const (
	// Move transfers ownership; the binding is unusable afterwards.
	Move Decision = iota
	// BorrowShared is a temporary read-only borrow (&x).
	BorrowShared
	// BorrowExclusive is a temporary mutating borrow (&mut x).
	BorrowExclusive
	// Clone duplicates the value so a consuming use leaves the binding live.
	Clone
)

func (d Decision) String() string {
	switch d {
	case Move:
		return "move"
	case BorrowShared:
		return "borrow"
	case BorrowExclusive:
		return "borrow_mut"
	case Clone:
		return "clone"
	default:
		return "?"
	}
}

// ParamMode is how a function receives one parameter in the output.
type ParamMode uint8

const (
	// ByRef passes a shared reference (&T).
	ByRef ParamMode = iota
	// ByRefMut passes an exclusive reference (&mut T).
	ByRefMut
	// ByValue passes ownership (T).
	ByValue
)

func (m ParamMode) String() string {
	switch m {
	case ByRef:
		return "&"
	case ByRefMut:
		return "&mut"
	case ByValue:
		return "value"
	default:
		return "?"
	}
}

// strongest returns the more demanding of two modes; the ordering ByRef <
// ByRefMut < ByValue makes the contract fixpoint monotone.
func strongest(a, b ParamMode) ParamMode {
	if a > b {
		return a
	}
	return b
}

// Contract is a function's inferred ownership contract: how each parameter
// is passed, and whether the body mutates it. Contracts are computed once
// per function and reused at every call site.
type Contract struct {
	Params  []ParamMode
	Mutated []bool
}

func (c *Contract) equal(other *Contract) bool {
	if len(c.Params) != len(other.Params) {
		return false
	}
	for i := range c.Params {
		if c.Params[i] != other.Params[i] || c.Mutated[i] != other.Mutated[i] {
			return false
		}
	}
	return true
}
