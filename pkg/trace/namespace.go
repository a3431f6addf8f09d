package trace

import (
	"fmt"
	"sort"
)

// Namespace is an attribute bag that can stand for the owner object of a
// UI ("self"). Bound as an extern, it lets realized widgets be stored as
// attributes and found again by name.
type Namespace struct {
	attrs map[string]any
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{attrs: make(map[string]any)}
}

// Attr implements toolkit.Attributes.
func (n *Namespace) Attr(name string) (any, error) {
	v, ok := n.attrs[name]
	if !ok {
		return nil, fmt.Errorf("namespace has no attribute %q", name)
	}
	return v, nil
}

// SetAttr implements toolkit.Attributes.
func (n *Namespace) SetAttr(name string, value any) error {
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[name] = value
	return nil
}

// Names returns the attribute names in sorted order.
func (n *Namespace) Names() []string {
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
