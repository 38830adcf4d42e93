package types

import "github.com/rustic-lang/rustic/internal/lexer"

// SymbolKind distinguishes what a name refers to.
type SymbolKind int

const (
	SymBinding SymbolKind = iota // let / var binding
	SymParam                     // function parameter
	SymLoopVar                   // for-loop variable
	SymFn                        // function declaration
	SymStruct                    // struct declaration
	SymImport                    // imported builtin module
)

func (k SymbolKind) String() string {
	switch k {
	case SymBinding:
		return "binding"
	case SymParam:
		return "parameter"
	case SymLoopVar:
		return "loop variable"
	case SymFn:
		return "function"
	case SymStruct:
		return "struct"
	case SymImport:
		return "module"
	default:
		return "symbol"
	}
}

// Symbol represents a named entity in the source code. The declaring node is
// referenced by span only, keeping the AST free of back-links.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    Type
	Mutable bool // true for var bindings
	DefSpan lexer.Span
}

// Scope represents a lexical scope containing symbols.
type Scope struct {
	Parent  *Scope
	symbols map[string]*Symbol
}

// NewScope creates a new scope with an optional parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		Parent:  parent,
		symbols: make(map[string]*Symbol),
	}
}

// Insert adds a symbol to the current scope, reporting whether a symbol of
// the same name already existed there. Shadowing an outer scope is allowed;
// redeclaring within the same scope is not.
func (s *Scope) Insert(sym *Symbol) (existing *Symbol, ok bool) {
	if prev, found := s.symbols[sym.Name]; found {
		return prev, false
	}
	s.symbols[sym.Name] = sym
	return nil, true
}

// Lookup finds a symbol in the current scope or any parent scope,
// innermost first.
func (s *Scope) Lookup(name string) *Symbol {
	if sym, ok := s.symbols[name]; ok {
		return sym
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil
}

// LookupLocal finds a symbol in this scope only.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.symbols[name]
}
