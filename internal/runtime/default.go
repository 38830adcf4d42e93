package runtime

import (
	_ "embed"
	"sync"
)

//go:embed mapping.toml
var defaultMapping []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded mapping table, loaded once per process.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultMapping)
	})
	return defaultTable, defaultErr
}
