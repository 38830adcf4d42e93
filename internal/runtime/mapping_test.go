package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableLoads(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", table.Version())
	assert.Greater(t, table.Len(), 0)
}

func TestDefaultIsSingleton(t *testing.T) {
	first, err := Default()
	require.NoError(t, err)
	second, err := Default()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLookup(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	b, ok := table.Lookup("math", "sqrt", 1)
	require.True(t, ok)
	assert.Equal(t, "rustic_runtime::math::sqrt", b.Target)
	assert.Equal(t, "math.sqrt", b.QualifiedName())
	require.Len(t, b.Args, 1)
	assert.Equal(t, ArgByValue, b.Args[0])

	_, ok = table.Lookup("math", "cbrt", 1)
	assert.False(t, ok)

	_, ok = table.Lookup("math", "sqrt", 2)
	assert.False(t, ok, "lookup is arity-sensitive")
}

func TestLookupAny(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	b, ok := table.LookupAny("math", "pow")
	require.True(t, ok)
	assert.Equal(t, 2, b.Arity)

	_, ok = table.LookupAny("math", "cbrt")
	assert.False(t, ok)
}

func TestHasModule(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	assert.True(t, table.HasModule("math"))
	assert.True(t, table.HasModule("io"))
	assert.True(t, table.HasModule("strings"))
	assert.True(t, table.HasModule("lists"))
	assert.False(t, table.HasModule("net"))
}

func TestParseRejectsMissingVersion(t *testing.T) {
	_, err := Parse([]byte(`
[[builtins]]
module = "math"
name = "sqrt"
arity = 1
target = "rustic_runtime::math::sqrt"
params = ["float"]
args = ["value"]
result = "float"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestParseRejectsArityMismatch(t *testing.T) {
	_, err := Parse([]byte(`
version = "0.0.1"

[[builtins]]
module = "math"
name = "sqrt"
arity = 2
target = "rustic_runtime::math::sqrt"
params = ["float"]
args = ["value"]
result = "float"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arity")
}

func TestParseRejectsDuplicates(t *testing.T) {
	doc := `
version = "0.0.1"

[[builtins]]
module = "io"
name = "print"
arity = 1
target = "a::print"
params = ["any"]
args = ["ref"]
result = "void"

[[builtins]]
module = "io"
name = "print"
arity = 1
target = "b::print"
params = ["any"]
args = ["ref"]
result = "void"
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("does/not/exist.toml")
	require.Error(t, err)
}
