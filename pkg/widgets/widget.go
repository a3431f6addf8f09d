package widgets

import (
	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/trace"
)

// Descriptor is a deferred widget construction parametrized by its parent.
// Descriptors hold configuration only and may be realized any number of
// times.
type Descriptor interface {
	Realize(s *trace.Session, parent registry.Handle) (Widget, error)
}

// DescriptorFunc adapts a function to Descriptor.
type DescriptorFunc func(s *trace.Session, parent registry.Handle) (Widget, error)

// Realize calls f.
func (f DescriptorFunc) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	return f(s, parent)
}

// Widget is a realized widget.
type Widget interface {
	// Handle returns the handle of the outermost toolkit object.
	Handle() registry.Handle
	// Pack packs the widget into its parent with opts, then packs its
	// own contents.
	Pack(s *trace.Session, opts layout.PackOptions) error
	// Forget removes the widget from its parent's packing list.
	Forget(s *trace.Session) error
	// Destroy destroys the widget and everything inside it.
	Destroy(s *trace.Session) error
}

// Leaf is a widget backed by a single toolkit object.
type Leaf struct {
	handle registry.Handle
}

// NewLeaf wraps an already constructed toolkit object.
func NewLeaf(h registry.Handle) *Leaf {
	return &Leaf{handle: h}
}

// Handle implements Widget.
func (l *Leaf) Handle() registry.Handle {
	return l.handle
}

// Pack implements Widget.
func (l *Leaf) Pack(s *trace.Session, opts layout.PackOptions) error {
	return pack(s, l.handle, opts)
}

// Forget implements Widget.
func (l *Leaf) Forget(s *trace.Session) error {
	_, err := s.Call(l.handle, "pack_forget", nil, nil)
	return err
}

// Destroy implements Widget.
func (l *Leaf) Destroy(s *trace.Session) error {
	return destroy(s, l.handle)
}

func pack(s *trace.Session, h registry.Handle, opts layout.PackOptions) error {
	_, err := s.Call(h, "pack", nil, opts.Options())
	return err
}

func destroy(s *trace.Session, h registry.Handle) error {
	if _, err := s.Call(h, "destroy", nil, nil); err != nil {
		return err
	}
	s.Release(h)
	return nil
}

// leaf constructs class under parent with the name hint of the entry point
// that builds it.
func leaf(s *trace.Session, parent registry.Handle, hint, class string, opts toolkit.Options) (*Leaf, error) {
	h, err := s.NewNamed(hint, class, parent, opts)
	if err != nil {
		return nil, err
	}
	return &Leaf{handle: h}, nil
}

// Mount realizes d under the session's root window and packs it.
func Mount(s *trace.Session, d Descriptor) (Widget, error) {
	w, err := d.Realize(s, s.Root())
	if err != nil {
		return nil, err
	}
	if err := w.Pack(s, layout.PackOptions{}); err != nil {
		return nil, err
	}
	return w, nil
}

// Named realizes Child under the name Name and, when Owner is set, stores
// the widget as the attribute Name of Owner:
//
//	widgets.Named{Name: "ta", Owner: self, Child: widgets.TextArea{}}
//
// traces as
//
//	ta = Text(vbox)
//	self.ta = ta
type Named struct {
	Name  string
	Owner registry.Handle
	Child Descriptor
}

// NamedOf returns a Named descriptor storing child on owner.
func NamedOf(owner registry.Handle, name string, child Descriptor) Named {
	return Named{Name: name, Owner: owner, Child: child}
}

// Realize implements Descriptor.
func (n Named) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	s.Hint(n.Name)
	w, err := n.Child.Realize(s, parent)
	if err != nil {
		return nil, err
	}
	if n.Owner != registry.Invalid {
		if err := s.SetAttr(n.Owner, n.Name, w.Handle()); err != nil {
			return nil, err
		}
	}
	return w, nil
}
