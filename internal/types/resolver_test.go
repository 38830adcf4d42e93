package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/diag"
	"github.com/rustic-lang/rustic/internal/parser"
	"github.com/rustic-lang/rustic/internal/runtime"
)

func resolveSrc(t *testing.T, src string) (*ast.Module, *Info, error) {
	t.Helper()
	table, err := runtime.Default()
	require.NoError(t, err)
	mod, err := parser.Parse(src, "test")
	require.NoError(t, err)
	info, rerr := Resolve(mod, table)
	return mod, info, rerr
}

func requireCode(t *testing.T, err error, code diag.Code) *diag.Error {
	t.Helper()
	require.Error(t, err)
	de, ok := diag.AsError(err)
	require.True(t, ok, "expected a diagnostic error, got %v", err)
	assert.Equal(t, code, de.Diagnostic.Code)
	return de
}

func TestResolveSimpleProgram(t *testing.T) {
	mod, info, err := resolveSrc(t, `
struct Point {
    x: float
    y: float
}

fn norm(p: Point) -> float {
    return p.x * p.x + p.y * p.y
}
`)
	require.NoError(t, err)
	require.Contains(t, info.Structs, "Point")
	require.Contains(t, info.Funcs, "norm")
	assert.True(t, Equal(info.Funcs["norm"].Return, TypeFloat))

	fn := mod.Decls[1].(*ast.FnDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	assert.True(t, Equal(info.TypeOf(ret.Value), TypeFloat))
}

func TestUnresolvedNamePointsAtUse(t *testing.T) {
	_, _, err := resolveSrc(t, "fn f() -> int {\n    return foo + 1\n}")
	de := requireCode(t, err, diag.CodeUnresolvedName)
	assert.Contains(t, de.Diagnostic.Message, "foo")
	assert.Equal(t, 2, de.Diagnostic.Span.Line)
	assert.Equal(t, 12, de.Diagnostic.Span.Column)
}

func TestBinaryTypeMismatch(t *testing.T) {
	_, _, err := resolveSrc(t, "fn f() {\n    let x: int = 1 + \"a\"\n}")
	de := requireCode(t, err, diag.CodeTypeMismatch)
	assert.Contains(t, de.Diagnostic.Message, "int")
	assert.Contains(t, de.Diagnostic.Message, "str")
}

func TestDuplicateDeclarationSameScope(t *testing.T) {
	_, _, err := resolveSrc(t, "fn f() {\n    let x: int = 1\n    let x: int = 2\n}")
	de := requireCode(t, err, diag.CodeDuplicateDeclaration)
	require.Len(t, de.Diagnostic.Related, 1)
}

func TestShadowingInnerScopeAllowed(t *testing.T) {
	_, _, err := resolveSrc(t, `
fn f() {
    let x: int = 1
    if true {
        let x: str = "shadow"
    }
}
`)
	require.NoError(t, err)
}

func TestUnknownField(t *testing.T) {
	_, _, err := resolveSrc(t, `
struct Point {
    x: float
}

fn f(p: Point) -> float {
    return p.z
}
`)
	de := requireCode(t, err, diag.CodeUnknownField)
	assert.Contains(t, de.Diagnostic.Message, "z")
}

func TestCallArity(t *testing.T) {
	_, _, err := resolveSrc(t, `
fn g(a: int, b: int) -> int {
    return a + b
}

fn f() {
    g(1)
}
`)
	requireCode(t, err, diag.CodeArityMismatch)
}

func TestCallArgumentTypeMismatch(t *testing.T) {
	_, _, err := resolveSrc(t, `
fn g(a: int) -> int {
    return a
}

fn f() {
    g("nope")
}
`)
	requireCode(t, err, diag.CodeTypeMismatch)
}

func TestIntWideningAtCallBoundary(t *testing.T) {
	mod, info, err := resolveSrc(t, `
fn g(a: float) -> float {
    return a
}

fn f() -> float {
    return g(2)
}
`)
	require.NoError(t, err)

	fn := mod.Decls[1].(*ast.FnDecl)
	call := fn.Body.Stmts[0].(*ast.ReturnStmt).Value.(*ast.CallExpr)
	assert.True(t, info.Widened[call.Args[0]], "int argument should be marked for widening")
}

func TestNoWideningInsideArithmetic(t *testing.T) {
	_, _, err := resolveSrc(t, "fn f() -> float {\n    return 1 + 2.0\n}")
	requireCode(t, err, diag.CodeTypeMismatch)
}

func TestUnknownBuiltin(t *testing.T) {
	_, _, err := resolveSrc(t, `
import math

fn f(x: float) -> float {
    return math.cbrt(x)
}
`)
	de := requireCode(t, err, diag.CodeUnknownBuiltin)
	assert.Contains(t, de.Diagnostic.Message, "math.cbrt")
}

func TestBuiltinWrongArity(t *testing.T) {
	_, _, err := resolveSrc(t, `
import math

fn f(x: float) -> float {
    return math.sqrt(x, x)
}
`)
	requireCode(t, err, diag.CodeArityMismatch)
}

func TestUnknownImport(t *testing.T) {
	_, _, err := resolveSrc(t, "import nonexistent\n")
	requireCode(t, err, diag.CodeUnresolvedName)
}

func TestMutuallyRecursiveFunctions(t *testing.T) {
	_, _, err := resolveSrc(t, `
fn is_even(n: int) -> bool {
    if n == 0 {
        return true
    }
    return is_odd(n - 1)
}

fn is_odd(n: int) -> bool {
    if n == 0 {
        return false
    }
    return is_even(n - 1)
}
`)
	require.NoError(t, err)
}

func TestNestedStructFieldsAllowed(t *testing.T) {
	_, info, err := resolveSrc(t, `
struct Point {
    x: float
}

struct Segment {
    start: Point
    end: Point
}
`)
	require.NoError(t, err)
	seg := info.Structs["Segment"]
	_, ok := seg.Fields[0].Type.(*Struct)
	assert.True(t, ok)
}

func TestRecursiveStructRejected(t *testing.T) {
	_, _, err := resolveSrc(t, `
struct Node {
    next: Node
}
`)
	de := requireCode(t, err, diag.CodeTypeMismatch)
	assert.Contains(t, de.Diagnostic.Message, "cycle")
}

func TestMutualStructCycleRejected(t *testing.T) {
	_, _, err := resolveSrc(t, `
struct A {
    b: B
}

struct B {
    a: A
}
`)
	requireCode(t, err, diag.CodeTypeMismatch)
}

func TestStructCycleReportsFirstDeclared(t *testing.T) {
	src := `
struct Selfish {
    me: Selfish
}

struct Other {
    me: Other
}
`
	for i := 0; i < 10; i++ {
		_, _, err := resolveSrc(t, src)
		de := requireCode(t, err, diag.CodeTypeMismatch)
		assert.Contains(t, de.Diagnostic.Message, `"Selfish"`, "run %d", i)
	}
}

func TestAssignToImmutableBinding(t *testing.T) {
	_, _, err := resolveSrc(t, "fn f() {\n    let x: int = 1\n    x = 2\n}")
	de := requireCode(t, err, diag.CodeTypeMismatch)
	assert.Contains(t, de.Diagnostic.Message, "immutable")
}

func TestAssignToVarBinding(t *testing.T) {
	_, _, err := resolveSrc(t, "fn f() {\n    var x: int = 1\n    x = 2\n}")
	require.NoError(t, err)
}

func TestForRequiresList(t *testing.T) {
	_, _, err := resolveSrc(t, "fn f() {\n    for x in 5 {\n    }\n}")
	requireCode(t, err, diag.CodeTypeMismatch)
}

func TestForLoopVarTyped(t *testing.T) {
	_, _, err := resolveSrc(t, `
fn sum(xs: list[int]) -> int {
    var total: int = 0
    for x in xs {
        total = total + x
    }
    return total
}
`)
	require.NoError(t, err)
}

func TestMissingReturnDetected(t *testing.T) {
	_, _, err := resolveSrc(t, `
fn f(b: bool) -> int {
    if b {
        return 1
    }
}
`)
	requireCode(t, err, diag.CodeTypeMismatch)
}

func TestStructLiteralMissingField(t *testing.T) {
	_, _, err := resolveSrc(t, `
struct Point {
    x: float
    y: float
}

fn f() {
    let p: Point = Point{x: 1.0}
}
`)
	de := requireCode(t, err, diag.CodeTypeMismatch)
	assert.Contains(t, de.Diagnostic.Message, "y")
}

func TestEmptyListAdoptsDeclaredType(t *testing.T) {
	_, _, err := resolveSrc(t, "fn f() {\n    let xs: list[int] = []\n}")
	require.NoError(t, err)
}
