package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustic-lang/rustic/internal/ast"
	"github.com/rustic-lang/rustic/internal/parser"
	"github.com/rustic-lang/rustic/internal/runtime"
	"github.com/rustic-lang/rustic/internal/types"
)

func analyzeSrc(t *testing.T, src string) (*ast.Module, *types.Info, *Result) {
	t.Helper()
	table, err := runtime.Default()
	require.NoError(t, err)
	mod, err := parser.Parse(src, "test")
	require.NoError(t, err)
	info, err := types.Resolve(mod, table)
	require.NoError(t, err)
	res, err := Analyze(mod, info)
	require.NoError(t, err)
	return mod, info, res
}

// decisionsFor returns the decisions recorded for every use of the named
// binding, in document order.
func decisionsFor(t *testing.T, mod *ast.Module, res *Result, name string) []Decision {
	t.Helper()
	var out []Decision
	ast.Walk(mod, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok || id.Name != name {
			return true
		}
		if d, ok := res.DecisionFor(id); ok {
			out = append(out, d)
		}
		return true
	})
	return out
}

func TestTwoByValueUsesCloneThenMove(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
fn take(s: str) -> str {
    return s
}

fn main() {
    let x: str = "v"
    take(x)
    take(x)
}
`)
	ds := decisionsFor(t, mod, res, "x")
	require.Equal(t, []Decision{Clone, Move}, ds)
}

func TestSingleConsumingUseMovesWithoutClone(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
struct Point {
    x: float
    y: float
}

fn keep(p: Point) -> Point {
    return p
}

fn main() {
    let a: Point = Point{x: 0.0, y: 0.0}
    keep(a)
}
`)
	ds := decisionsFor(t, mod, res, "a")
	require.Equal(t, []Decision{Move}, ds)
}

func TestAtMostOneMovePerBinding(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
fn take(s: str) -> str {
    return s
}

fn main() {
    let x: str = "v"
    take(x)
    take(x)
    take(x)
    take(x)
}
`)
	ds := decisionsFor(t, mod, res, "x")
	require.Len(t, ds, 4)
	moves := 0
	for _, d := range ds {
		if d == Move {
			moves++
		} else {
			assert.Equal(t, Clone, d)
		}
	}
	assert.Equal(t, 1, moves)
	assert.Equal(t, Move, ds[len(ds)-1], "the move must be the last use")
}

func TestReadOnlyUsesBorrow(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
struct Point {
    x: float
    y: float
}

fn norm(p: Point) -> float {
    return p.x * p.x + p.y * p.y
}
`)
	ds := decisionsFor(t, mod, res, "p")
	require.Equal(t, []Decision{BorrowShared, BorrowShared, BorrowShared, BorrowShared}, ds)
	assert.Equal(t, []ParamMode{ByRef}, res.Contracts["norm"].Params)
}

func TestMutatedParamBorrowsExclusively(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
struct Counter {
    count: int
}

fn bump(c: Counter) {
    c.count = c.count + 1
}
`)
	assert.Equal(t, []ParamMode{ByRefMut}, res.Contracts["bump"].Params)
	ds := decisionsFor(t, mod, res, "c")
	require.Len(t, ds, 2)
	assert.Equal(t, BorrowExclusive, ds[0])
	assert.Equal(t, BorrowShared, ds[1])
}

func TestPrimitiveParamsPassByValue(t *testing.T) {
	_, _, res := analyzeSrc(t, `
fn add(a: int, b: float) -> float {
    return b
}
`)
	assert.Equal(t, []ParamMode{ByValue, ByValue}, res.Contracts["add"].Params)
}

func TestConsumedParamPassesByValue(t *testing.T) {
	_, _, res := analyzeSrc(t, `
struct Point {
    x: float
}

fn keep(p: Point) -> Point {
    return p
}
`)
	assert.Equal(t, []ParamMode{ByValue}, res.Contracts["keep"].Params)
}

func TestByRefParamNeverMoves(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
import strings

fn f(s: str) -> int {
    let t: str = s
    return strings.len(s)
}
`)
	// The early consuming use clones; the trailing read keeps the
	// parameter by shared reference.
	assert.Equal(t, []ParamMode{ByRef}, res.Contracts["f"].Params)
	ds := decisionsFor(t, mod, res, "s")
	require.Equal(t, []Decision{Clone, BorrowShared}, ds)
}

func TestLoopCarriedConsumptionClones(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
fn take(v: str) -> str {
    return v
}

fn main() {
    let s: str = "x"
    var i: int = 0
    while i < 3 {
        take(s)
        i = i + 1
    }
}
`)
	ds := decisionsFor(t, mod, res, "s")
	require.Equal(t, []Decision{Clone}, ds,
		"a consuming use inside a loop must clone even when it is the last use")
}

func TestBranchConsumptionWithLiveUseAfterClones(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
fn take(v: str) -> str {
    return v
}

fn main(cond: bool) {
    let s: str = "x"
    if cond {
        take(s)
    }
    take(s)
}
`)
	ds := decisionsFor(t, mod, res, "s")
	require.Equal(t, []Decision{Clone, Move}, ds)
}

func TestSiblingBranchConsumers(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
fn take(v: str) -> str {
    return v
}

fn main(cond: bool) {
    let s: str = "x"
    if cond {
        take(s)
    } else {
        take(s)
    }
}
`)
	ds := decisionsFor(t, mod, res, "s")
	require.Len(t, ds, 2)
	moves := 0
	for _, d := range ds {
		if d == Move {
			moves++
		}
	}
	assert.LessOrEqual(t, moves, 1)
}

func TestRecursiveContractConverges(t *testing.T) {
	_, _, res := analyzeSrc(t, `
struct Point {
    x: float
}

fn spin(p: Point, n: int) -> Point {
    if n == 0 {
        return p
    }
    return spin(p, n - 1)
}
`)
	c := res.Contracts["spin"]
	require.Len(t, c.Params, 2)
	assert.Equal(t, ByRef, c.Params[0])
	assert.Equal(t, ByValue, c.Params[1])
}

func TestMutuallyRecursiveContractsConverge(t *testing.T) {
	_, _, res := analyzeSrc(t, `
fn ping(n: int) -> int {
    if n == 0 {
        return 0
    }
    return pong(n - 1)
}

fn pong(n: int) -> int {
    if n == 0 {
        return 1
    }
    return ping(n - 1)
}
`)
	assert.Equal(t, []ParamMode{ByValue}, res.Contracts["ping"].Params)
	assert.Equal(t, []ParamMode{ByValue}, res.Contracts["pong"].Params)
}

func TestOwnedIterationMoves(t *testing.T) {
	mod, info, res := analyzeSrc(t, `
import io

fn main() {
    let xs: list[int] = [1, 2]
    for x in xs {
        io.println(x)
    }
}
`)
	ds := decisionsFor(t, mod, res, "xs")
	require.Equal(t, []Decision{Move}, ds)

	// A moved iterable owns its elements; the loop variable is not a
	// reference.
	ast.Walk(mod, func(n ast.Node) bool {
		fs, ok := n.(*ast.ForStmt)
		if !ok {
			return true
		}
		assert.False(t, res.IsRef(info.Defs[fs.Var]))
		return true
	})
}

func TestBorrowedIterationMarksLoopVarRef(t *testing.T) {
	mod, info, res := analyzeSrc(t, `
import strings

fn total(names: list[str]) -> int {
    var n: int = 0
    for name in names {
        n = n + strings.len(name)
    }
    return n
}
`)
	ds := decisionsFor(t, mod, res, "names")
	require.Equal(t, []Decision{BorrowShared}, ds)
	assert.Equal(t, []ParamMode{ByRef}, res.Contracts["total"].Params)

	ast.Walk(mod, func(n ast.Node) bool {
		fs, ok := n.(*ast.ForStmt)
		if !ok {
			return true
		}
		assert.True(t, res.IsRef(info.Defs[fs.Var]))
		return true
	})
}

func TestFieldConsumptionClonesOutOfReceiver(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
struct Person {
    name: str
}

fn name_of(p: Person) -> str {
    return p.name
}
`)
	var marked bool
	ast.Walk(mod, func(n ast.Node) bool {
		if fa, ok := n.(*ast.FieldAccessExpr); ok && res.ExprClones[fa] {
			marked = true
		}
		return true
	})
	assert.True(t, marked, "consumed struct field should clone out of the receiver")
	assert.Equal(t, []ParamMode{ByRef}, res.Contracts["name_of"].Params)
}

func TestStructLiteralFieldConsumes(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
struct Wrapper {
    inner: str
}

fn main() {
    let s: str = "v"
    let w: Wrapper = Wrapper{inner: s}
}
`)
	ds := decisionsFor(t, mod, res, "s")
	require.Equal(t, []Decision{Move}, ds)
}

func TestListLiteralElementsConsume(t *testing.T) {
	mod, _, res := analyzeSrc(t, `
fn main() {
    let a: str = "x"
    let xs: list[str] = [a, a]
}
`)
	ds := decisionsFor(t, mod, res, "a")
	require.Equal(t, []Decision{Clone, Move}, ds)
}

func defFor(t *testing.T, mod *ast.Module, info *types.Info, name string) *types.Symbol {
	t.Helper()
	var sym *types.Symbol
	ast.Walk(mod, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok || id.Name != name {
			return true
		}
		if s := info.Defs[id]; s != nil {
			sym = s
		}
		return true
	})
	require.NotNil(t, sym)
	return sym
}

func TestLendingToMutatingCalleeMarksBindingMut(t *testing.T) {
	mod, info, res := analyzeSrc(t, `
struct Counter {
    count: int
}

fn bump(k: Counter) {
    k.count = k.count + 1
}

fn main() {
    let c: Counter = Counter{count: 0}
    bump(c)
}
`)
	assert.Equal(t, []ParamMode{ByRefMut}, res.Contracts["bump"].Params)
	assert.Equal(t, []bool{true}, res.Contracts["bump"].Mutated)

	ds := decisionsFor(t, mod, res, "c")
	require.Equal(t, []Decision{BorrowExclusive}, ds)
	assert.True(t, res.NeedsMut(defFor(t, mod, info, "c")))
}

func TestReadOnlyBindingDoesNotNeedMut(t *testing.T) {
	mod, info, res := analyzeSrc(t, `
import io

fn main() {
    let s: str = "hi"
    io.println(s)
}
`)
	assert.False(t, res.NeedsMut(defFor(t, mod, info, "s")))
}

func TestAssignedParamRecordsMutationInContract(t *testing.T) {
	_, _, res := analyzeSrc(t, `
fn bump(n: int) -> int {
    n = n + 1
    return n
}
`)
	assert.Equal(t, []ParamMode{ByValue}, res.Contracts["bump"].Params)
	assert.Equal(t, []bool{true}, res.Contracts["bump"].Mutated)
}
