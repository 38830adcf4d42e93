// Package compiler wires the passes into one pipeline: lex, parse, resolve,
// infer ownership, generate. One Compiler may serve many compilation units;
// the only state shared between units is the immutable mapping table.
package compiler

import (
	"github.com/golang/glog"

	"github.com/rustic-lang/rustic/internal/codegen"
	"github.com/rustic-lang/rustic/internal/ownership"
	"github.com/rustic-lang/rustic/internal/parser"
	"github.com/rustic-lang/rustic/internal/runtime"
	"github.com/rustic-lang/rustic/internal/types"
)

// Compiler compiles Rustic source text to Rust source text.
type Compiler struct {
	table   *runtime.Table
	workers int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithWorkers bounds the number of units compiled concurrently by
// CompileFiles. Values below one fall back to the default.
func WithWorkers(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// New creates a compiler over the given mapping table.
func New(table *runtime.Table, opts ...Option) *Compiler {
	c := &Compiler{table: table, workers: 4}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile runs the full pipeline over one unit and returns the generated
// Rust text. It fails fast: the returned error is the first diagnostic any
// pass produced.
func (c *Compiler) Compile(src, moduleName string) (string, error) {
	return c.CompileUnit(src, moduleName, "")
}

// CompileUnit is Compile with spans attributed to a filename.
func (c *Compiler) CompileUnit(src, moduleName, filename string) (string, error) {
	var opts []parser.Option
	if filename != "" {
		opts = append(opts, parser.WithFilename(filename))
	}

	mod, err := parser.Parse(src, moduleName, opts...)
	if err != nil {
		return "", err
	}
	glog.V(3).Infof("parsed module %q: %d imports, %d declarations",
		moduleName, len(mod.Imports), len(mod.Decls))

	info, err := types.Resolve(mod, c.table)
	if err != nil {
		return "", err
	}
	glog.V(3).Infof("resolved module %q: %d structs, %d functions",
		moduleName, len(info.Structs), len(info.Funcs))

	owner, err := ownership.Analyze(mod, info)
	if err != nil {
		return "", err
	}
	glog.V(3).Infof("ownership for module %q: %d use-site decisions",
		moduleName, len(owner.Decisions))

	out, err := codegen.Generate(mod, info, owner, c.table)
	if err != nil {
		return "", err
	}
	glog.V(3).Infof("generated %d bytes for module %q", len(out), moduleName)
	return out, nil
}
