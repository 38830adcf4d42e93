package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustic-lang/rustic/internal/ownership"
	"github.com/rustic-lang/rustic/internal/parser"
	"github.com/rustic-lang/rustic/internal/runtime"
	"github.com/rustic-lang/rustic/internal/types"
)

func genSrc(t *testing.T, src string) string {
	t.Helper()
	table, err := runtime.Default()
	require.NoError(t, err)
	mod, err := parser.Parse(src, "test")
	require.NoError(t, err)
	info, err := types.Resolve(mod, table)
	require.NoError(t, err)
	owner, err := ownership.Analyze(mod, info)
	require.NoError(t, err)
	out, err := Generate(mod, info, owner, table)
	require.NoError(t, err)
	return out
}

func TestGenerateStructPreservesFieldOrder(t *testing.T) {
	out := genSrc(t, `
struct Point {
    x: float
    y: float
    label: str
}
`)
	want := Header + `
#[derive(Debug, Clone)]
pub struct Point {
    pub x: f64,
    pub y: f64,
    pub label: String,
}
`
	assert.Equal(t, want, out)
}

func TestGenerateFnWithBorrowedParam(t *testing.T) {
	out := genSrc(t, `
import math

struct Point {
    x: float
    y: float
}

fn norm(p: Point) -> float {
    return math.sqrt(p.x * p.x + p.y * p.y)
}
`)
	want := Header + `
#[derive(Debug, Clone)]
pub struct Point {
    pub x: f64,
    pub y: f64,
}

pub fn norm(p: &Point) -> f64 {
    return rustic_runtime::math::sqrt((p.x * p.x) + (p.y * p.y));
}
`
	assert.Equal(t, want, out)
}

func TestGenerateCloneThenMove(t *testing.T) {
	out := genSrc(t, `
fn take(v: str) -> str {
    return v
}

fn main() {
    let x: str = "hi"
    take(x)
    take(x)
}
`)
	want := Header + `
pub fn take(v: String) -> String {
    return v;
}

pub fn main() {
    let x: String = String::from("hi");
    take(x.clone());
    take(x);
}
`
	assert.Equal(t, want, out)
}

func TestGenerateCopyTypesNeverClone(t *testing.T) {
	out := genSrc(t, `
fn take(n: int) -> int {
    return n
}

fn main() {
    let x: int = 5
    take(x)
    take(x)
}
`)
	want := Header + `
pub fn take(n: i64) -> i64 {
    return n;
}

pub fn main() {
    let x: i64 = 5;
    take(x);
    take(x);
}
`
	assert.Equal(t, want, out)
}

func TestGenerateMutableParamAndAssignment(t *testing.T) {
	out := genSrc(t, `
struct Counter {
    count: int
}

fn bump(c: Counter) {
    c.count = c.count + 1
}

fn main() {
    var c: Counter = Counter{count: 0}
    bump(c)
}
`)
	want := Header + `
#[derive(Debug, Clone)]
pub struct Counter {
    pub count: i64,
}

pub fn bump(c: &mut Counter) {
    c.count = c.count + 1;
}

pub fn main() {
    let mut c: Counter = Counter { count: 0 };
    bump(&mut c);
}
`
	assert.Equal(t, want, out)
}

func TestGenerateControlFlow(t *testing.T) {
	out := genSrc(t, `
fn classify(n: int) -> str {
    if n < 0 {
        return "neg"
    } else if n == 0 {
        return "zero"
    } else {
        return "pos"
    }
}
`)
	want := Header + `
pub fn classify(n: i64) -> String {
    if n < 0 {
        return String::from("neg");
    } else if n == 0 {
        return String::from("zero");
    } else {
        return String::from("pos");
    }
}
`
	assert.Equal(t, want, out)
}

func TestGenerateWhileLoop(t *testing.T) {
	out := genSrc(t, `
fn count() -> int {
    var i: int = 0
    while i < 10 {
        i = i + 1
    }
    return i
}
`)
	want := Header + `
pub fn count() -> i64 {
    let mut i: i64 = 0;
    while i < 10 {
        i = i + 1;
    }
    return i;
}
`
	assert.Equal(t, want, out)
}

func TestGenerateOwnedIteration(t *testing.T) {
	out := genSrc(t, `
import io

fn main() {
    let xs: list[int] = [1, 2, 3]
    for x in xs {
        io.println(x)
    }
}
`)
	want := Header + `
pub fn main() {
    let xs: Vec<i64> = vec![1, 2, 3];
    for x in xs {
        rustic_runtime::io::println(&x);
    }
}
`
	assert.Equal(t, want, out)
}

func TestGenerateBorrowedIteration(t *testing.T) {
	out := genSrc(t, `
import io

fn show(xs: list[str]) {
    for x in xs {
        io.println(x)
    }
}
`)
	want := Header + `
pub fn show(xs: &Vec<String>) {
    for x in xs {
        rustic_runtime::io::println(x);
    }
}
`
	assert.Equal(t, want, out)
}

func TestGenerateListBuiltins(t *testing.T) {
	out := genSrc(t, `
import lists

fn main() {
    var xs: list[int] = []
    lists.push(xs, 4)
}
`)
	want := Header + `
pub fn main() {
    let mut xs: Vec<i64> = vec![];
    rustic_runtime::lists::push(&mut xs, 4);
}
`
	assert.Equal(t, want, out)
}

func TestGenerateStringConcat(t *testing.T) {
	out := genSrc(t, `
fn greet(name: str) -> str {
    return "hello " + name
}
`)
	want := Header + `
pub fn greet(name: &String) -> String {
    return format!("{}{}", String::from("hello "), name);
}
`
	assert.Equal(t, want, out)
}

func TestGenerateIntWidening(t *testing.T) {
	out := genSrc(t, `
fn main() {
    let y: float = 5
}
`)
	want := Header + `
pub fn main() {
    let y: f64 = 5 as f64;
}
`
	assert.Equal(t, want, out)
}

func TestGenerateIndexing(t *testing.T) {
	out := genSrc(t, `
fn first(xs: list[str], i: int) -> str {
    return xs[i]
}
`)
	want := Header + `
pub fn first(xs: &Vec<String>, i: i64) -> String {
    return xs[i as usize].clone();
}
`
	assert.Equal(t, want, out)
}

func TestGenerateFieldCloneOut(t *testing.T) {
	out := genSrc(t, `
struct Person {
    name: str
}

fn name_of(p: Person) -> str {
    return p.name
}
`)
	want := Header + `
#[derive(Debug, Clone)]
pub struct Person {
    pub name: String,
}

pub fn name_of(p: &Person) -> String {
    return p.name.clone();
}
`
	assert.Equal(t, want, out)
}

func TestGenerateStringEscapes(t *testing.T) {
	out := genSrc(t, `
fn main() {
    let s: str = "line\n\"quoted\"\ttab"
}
`)
	assert.Contains(t, out, `String::from("line\n\"quoted\"\ttab")`)
}

func TestGenerateDeterministic(t *testing.T) {
	const src = `
import math
import io

struct Point {
    x: float
    y: float
}

fn norm(p: Point) -> float {
    return math.sqrt(p.x * p.x + p.y * p.y)
}

fn main() {
    let p: Point = Point{x: 3.0, y: 4.0}
    io.println(norm(p))
}
`
	first := genSrc(t, src)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, genSrc(t, src), "run %d", i)
	}
}

func TestGenerateCallBorrowsArgument(t *testing.T) {
	out := genSrc(t, `
import io

struct Point {
    x: float
    y: float
}

fn norm(p: Point) -> float {
    return p.x * p.x + p.y * p.y
}

fn main() {
    let p: Point = Point{x: 3.0, y: 4.0}
    io.println(norm(p))
}
`)
	assert.Contains(t, out, "rustic_runtime::io::println(&norm(&p));")
}

func TestGenerateAssignedCopyParamIsMut(t *testing.T) {
	out := genSrc(t, `
fn bump(n: int) -> int {
    n = n + 1
    return n
}
`)
	want := Header + `
pub fn bump(mut n: i64) -> i64 {
    n = n + 1;
    return n;
}
`
	assert.Equal(t, want, out)
}

func TestGenerateConsumedParamWithFieldAssignIsMut(t *testing.T) {
	out := genSrc(t, `
struct Point {
    x: float
    y: float
}

fn reset(p: Point) -> Point {
    p.x = 0.0
    return p
}
`)
	want := Header + `
#[derive(Debug, Clone)]
pub struct Point {
    pub x: f64,
    pub y: f64,
}

pub fn reset(mut p: Point) -> Point {
    p.x = 0.0;
    return p;
}
`
	assert.Equal(t, want, out)
}

func TestGenerateLetLentToMutatingCalleeIsMut(t *testing.T) {
	out := genSrc(t, `
struct Counter {
    count: int
}

fn bump(c: Counter) {
    c.count = c.count + 1
}

fn main() {
    let c: Counter = Counter{count: 0}
    bump(c)
}
`)
	want := Header + `
#[derive(Debug, Clone)]
pub struct Counter {
    pub count: i64,
}

pub fn bump(c: &mut Counter) {
    c.count = c.count + 1;
}

pub fn main() {
    let mut c: Counter = Counter { count: 0 };
    bump(&mut c);
}
`
	assert.Equal(t, want, out)
}

func TestGenerateLetLentToMutatingBuiltinIsMut(t *testing.T) {
	out := genSrc(t, `
import lists

fn main() {
    let xs: list[int] = [1, 2]
    lists.push(xs, 3)
}
`)
	want := Header + `
pub fn main() {
    let mut xs: Vec<i64> = vec![1, 2];
    rustic_runtime::lists::push(&mut xs, 3);
}
`
	assert.Equal(t, want, out)
}
