package widgets

import (
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/trace"
)

// VarKind is the class of a toolkit variable.
type VarKind string

const (
	StringVar  VarKind = "StringVar"
	BooleanVar VarKind = "BooleanVar"
	IntVar     VarKind = "IntVar"
	DoubleVar  VarKind = "DoubleVar"
)

// NewVar constructs a toolkit variable owned by the root window. A nil
// initial value leaves the variable at its zero value.
func NewVar(s *trace.Session, kind VarKind, initial any) (registry.Handle, error) {
	var opts toolkit.Options
	if initial != nil {
		opts = toolkit.Opts("value", initial)
	}
	return s.New(string(kind), s.Root(), opts)
}
