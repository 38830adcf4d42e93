package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustic-lang/rustic/internal/codegen"
	"github.com/rustic-lang/rustic/internal/diag"
	"github.com/rustic-lang/rustic/internal/runtime"
)

const sampleProgram = `import math
import io

fn main() {
    let x: float = 2.0
    io.println(math.sqrt(x))
}
`

func newTestCompiler(t *testing.T, opts ...Option) *Compiler {
	t.Helper()
	table, err := runtime.Default()
	require.NoError(t, err)
	return New(table, opts...)
}

func TestCompileEndToEnd(t *testing.T) {
	c := newTestCompiler(t)

	out, err := c.Compile(sampleProgram, "sample")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, codegen.Header))
	assert.Contains(t, out, "pub fn main()")
	assert.Contains(t, out, "let x: f64 = 2.0;")
	assert.Contains(t, out, "rustic_runtime::io::println(&rustic_runtime::math::sqrt(x));")
}

func TestCompileIsDeterministic(t *testing.T) {
	c := newTestCompiler(t)

	first, err := c.Compile(sampleProgram, "sample")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := c.Compile(sampleProgram, "sample")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompileUnitAttributesFilename(t *testing.T) {
	c := newTestCompiler(t)

	src := "fn main() {\n    let x: int = missing\n}\n"
	_, err := c.CompileUnit(src, "broken", "broken.rsc")
	require.Error(t, err)

	de, ok := diag.AsError(err)
	require.True(t, ok, "pipeline errors carry a diagnostic")
	assert.Equal(t, diag.CodeUnresolvedName, de.Diagnostic.Code)
	assert.Equal(t, diag.StageResolve, de.Diagnostic.Stage)
	assert.Equal(t, "broken.rsc", de.Diagnostic.Span.Filename)
}

func TestCompileFailsFast(t *testing.T) {
	c := newTestCompiler(t)

	// Both a resolve error and a parse error are present; only the parse
	// error is reported because the pipeline stops at the first failing pass.
	_, err := c.Compile("fn main() {\n    let = missing\n}\n", "broken")
	require.Error(t, err)
	de, ok := diag.AsError(err)
	require.True(t, ok)
	assert.Equal(t, diag.StageParser, de.Diagnostic.Stage)
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "geometry", ModuleName("src/geometry.rsc"))
	assert.Equal(t, "geometry", ModuleName("geometry.rsc"))
	assert.Equal(t, "main", ModuleName(".rsc"))
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "sample.rsc")
	require.NoError(t, os.WriteFile(srcPath, []byte(sampleProgram), 0o644))

	c := newTestCompiler(t)
	outDir := filepath.Join(dir, "out")
	outPath, err := c.CompileFile(srcPath, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "sample.rs"), outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), codegen.Header))
}

func TestCompileFilesCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.rsc")
	bad := filepath.Join(dir, "bad.rsc")
	require.NoError(t, os.WriteFile(good, []byte(sampleProgram), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("fn main() {\n    oops\n}\n"), 0o644))

	c := newTestCompiler(t, WithWorkers(2))
	outDir := filepath.Join(dir, "out")
	generated, err := c.CompileFiles([]string{good, bad}, outDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.rsc")
	require.Len(t, generated, 1, "the good unit is still compiled")
	assert.Equal(t, filepath.Join(outDir, "good.rs"), generated[0])

	_, ok := diag.AsError(errors.Cause(err))
	assert.False(t, ok, "collected errors are wrapped, not bare diagnostics")
}

func TestCompileDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rsc"), []byte(sampleProgram), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.rsc"), []byte(sampleProgram), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not source"), 0o644))

	c := newTestCompiler(t)
	outDir := filepath.Join(dir, "out")
	generated, err := c.CompileDirectory(dir, outDir)
	require.NoError(t, err)
	require.Len(t, generated, 2)
	assert.Equal(t, filepath.Join(outDir, "a.rs"), generated[0])
	assert.Equal(t, filepath.Join(outDir, "b.rs"), generated[1])
}
