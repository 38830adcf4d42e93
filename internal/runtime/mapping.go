// Package runtime holds the versioned table mapping Rustic built-in calls to
// their rustic_runtime equivalents in the generated Rust.
package runtime

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ArgMode is the ownership requirement of one builtin argument.
type ArgMode string

const (
	ArgByValue  ArgMode = "value" // consumed
	ArgByRef    ArgMode = "ref"   // shared borrow
	ArgByMutRef ArgMode = "mut"   // exclusive borrow
)

// Builtin is one immutable mapping entry.
//
// Param and result types use source type names: "int", "float", "bool",
// "str", "void", plus two wildcards — "list" matches any list type and
// "elem" matches the element type of the first list-typed argument. "any"
// matches every type (used by io.print/println, which are generic over
// Display in the runtime crate).
type Builtin struct {
	Module string    `toml:"module"`
	Name   string    `toml:"name"`
	Arity  int       `toml:"arity"`
	Target string    `toml:"target"`
	Params []string  `toml:"params"`
	Args   []ArgMode `toml:"args"`
	Result string    `toml:"result"`
}

// QualifiedName returns the source-level dotted name, e.g. "math.sqrt".
func (b *Builtin) QualifiedName() string {
	return b.Module + "." + b.Name
}

// Key identifies a builtin by module, name, and arity.
type Key struct {
	Module string
	Name   string
	Arity  int
}

// Table is the loaded mapping table. It is immutable after Load and safe for
// concurrent readers.
type Table struct {
	version string
	entries map[Key]*Builtin
	modules map[string]bool
	ordered []*Builtin
}

type tableDoc struct {
	Version  string    `toml:"version"`
	Builtins []Builtin `toml:"builtins"`
}

// Parse builds a table from TOML data.
func Parse(data []byte) (*Table, error) {
	var doc tableDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing mapping table")
	}
	if doc.Version == "" {
		return nil, errors.New("mapping table missing version")
	}

	t := &Table{
		version: doc.Version,
		entries: make(map[Key]*Builtin, len(doc.Builtins)),
		modules: make(map[string]bool),
	}
	for i := range doc.Builtins {
		b := &doc.Builtins[i]
		if len(b.Params) != b.Arity || len(b.Args) != b.Arity {
			return nil, errors.Errorf("mapping entry %s: params/args length does not match arity %d", b.QualifiedName(), b.Arity)
		}
		key := Key{Module: b.Module, Name: b.Name, Arity: b.Arity}
		if _, exists := t.entries[key]; exists {
			return nil, errors.Errorf("duplicate mapping entry %s/%d", b.QualifiedName(), b.Arity)
		}
		t.entries[key] = b
		t.modules[b.Module] = true
		t.ordered = append(t.ordered, b)
	}
	return t, nil
}

// LoadFile loads a mapping table from a TOML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading mapping table %s", path)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading mapping table %s", path)
	}
	return t, nil
}

// Version returns the table's declared version.
func (t *Table) Version() string {
	return t.version
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.ordered)
}

// Lookup finds the entry for a builtin call site.
func (t *Table) Lookup(module, name string, arity int) (*Builtin, bool) {
	b, ok := t.entries[Key{Module: module, Name: name, Arity: arity}]
	return b, ok
}

// LookupAny finds an entry by module and name regardless of arity. Used to
// distinguish a wrong-arity call from a genuinely unknown builtin.
func (t *Table) LookupAny(module, name string) (*Builtin, bool) {
	for _, b := range t.ordered {
		if b.Module == module && b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// HasModule reports whether any entry lives under the given source module,
// e.g. "math". Used by the resolver to validate imports.
func (t *Table) HasModule(module string) bool {
	return t.modules[module]
}

// String describes the table for verbose logging.
func (t *Table) String() string {
	return fmt.Sprintf("mapping table v%s (%d builtins)", t.version, len(t.ordered))
}
