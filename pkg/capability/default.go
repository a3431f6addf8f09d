package capability

import (
	"bytes"
	_ "embed"
)

//go:embed default.yaml
var defaultTable []byte

// Default returns the built-in table for the headless themed and plain
// backends. Each call returns a fresh copy that callers may extend.
func Default() *Table {
	t, err := Load(bytes.NewReader(defaultTable))
	if err != nil {
		panic("capability: bad built-in table: " + err.Error())
	}
	return t
}
