package widgets

import (
	"slices"

	"github.com/go-drift/tracegen/pkg/errors"
	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/trace"
)

// Default main-axis paddings used by VBox and HBox.
const (
	DefaultVerticalPadding   = 5
	DefaultHorizontalPadding = 3
)

// Box lays out its children along one axis inside a frame.
//
// Example using struct literal:
//
//	Box{
//	    Orientation: layout.Horizontal,
//	    Padding:     0,
//	    Children:    []Descriptor{Label{Text: "Total:"}, Label{Var: total}},
//	}
//
// Example using helpers:
//
//	VBox(Button{Text: "Yes"}, Button{Text: "No"})
type Box struct {
	// Orientation is the main axis. Vertical is the zero value.
	Orientation layout.Orientation
	// Padding is the main-axis padding of every child after the first.
	Padding int
	// Children are realized in order against the box frame.
	Children []Descriptor
}

// VBox returns a vertical box with the default padding.
func VBox(children ...Descriptor) Box {
	return Compose(layout.Vertical, DefaultVerticalPadding, children...)
}

// HBox returns a horizontal box with the default padding.
func HBox(children ...Descriptor) Box {
	return Compose(layout.Horizontal, DefaultHorizontalPadding, children...)
}

// Compose returns a box with explicit orientation and padding.
func Compose(orientation layout.Orientation, padding int, children ...Descriptor) Box {
	return Box{Orientation: orientation, Padding: padding, Children: children}
}

// WithPadding returns a copy of the box with the given padding.
func (b Box) WithPadding(padding int) Box {
	b.Padding = padding
	return b
}

func (b Box) hint() string {
	if b.Orientation == layout.Horizontal {
		return "hbox"
	}
	return "vbox"
}

// Realize implements Descriptor. It constructs the frame, then realizes
// every child against it in order.
func (b Box) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	frame, err := s.NewNamed(b.hint(), "Frame", parent, nil)
	if err != nil {
		return nil, err
	}
	w := &BoxWidget{handle: frame, orientation: b.Orientation, padding: b.Padding}
	for _, d := range b.Children {
		c, err := d.Realize(s, frame)
		if err != nil {
			return nil, err
		}
		w.children = append(w.children, c)
	}
	return w, nil
}

// BoxWidget is a realized Box.
type BoxWidget struct {
	handle      registry.Handle
	orientation layout.Orientation
	padding     int
	children    []Widget
	packed      bool
}

// Handle implements Widget.
func (b *BoxWidget) Handle() registry.Handle {
	return b.handle
}

// Orientation returns the main axis of the box.
func (b *BoxWidget) Orientation() layout.Orientation {
	return b.orientation
}

// Padding returns the main-axis padding of the box.
func (b *BoxWidget) Padding() int {
	return b.padding
}

// childOptions returns how the i-th child is packed.
func (b *BoxWidget) childOptions(i int) layout.PackOptions {
	opts := layout.PackOptions{Side: b.orientation.Anchor()}
	if i == 0 {
		return opts
	}
	opts.Fill = b.orientation.CrossFill()
	if b.orientation == layout.Horizontal {
		opts.PadX = b.padding
	} else {
		opts.PadY = b.padding
	}
	return opts
}

// Pack implements Widget. The frame is packed first, then each child in
// list order.
func (b *BoxWidget) Pack(s *trace.Session, opts layout.PackOptions) error {
	if err := pack(s, b.handle, opts); err != nil {
		return err
	}
	b.packed = true
	return b.packContents(s)
}

func (b *BoxWidget) packContents(s *trace.Session) error {
	for i, c := range b.children {
		if err := c.Pack(s, b.childOptions(i)); err != nil {
			return err
		}
	}
	return nil
}

// Forget implements Widget.
func (b *BoxWidget) Forget(s *trace.Session) error {
	if _, err := s.Call(b.handle, "pack_forget", nil, nil); err != nil {
		return err
	}
	b.packed = false
	return nil
}

// Destroy implements Widget. Children are destroyed first, in list order,
// then the frame.
func (b *BoxWidget) Destroy(s *trace.Session) error {
	for _, c := range b.children {
		if err := c.Destroy(s); err != nil {
			return err
		}
	}
	b.children = nil
	return destroy(s, b.handle)
}

// AppendChild realizes d as the new last child. If the box is already
// packed the child is packed immediately.
func (b *BoxWidget) AppendChild(s *trace.Session, d Descriptor) (Widget, error) {
	c, err := d.Realize(s, b.handle)
	if err != nil {
		return nil, err
	}
	if b.packed {
		if err := c.Pack(s, b.childOptions(len(b.children))); err != nil {
			return nil, err
		}
	}
	b.children = append(b.children, c)
	return c, nil
}

// RemoveChild unpacks and destroys w and removes it from the box.
func (b *BoxWidget) RemoveChild(s *trace.Session, w Widget) error {
	i := slices.Index(b.children, w)
	if i < 0 {
		return errors.New("widgets.RemoveChild", errors.KindLayout, errors.ErrChildNotFound)
	}
	if err := w.Forget(s); err != nil {
		return err
	}
	if err := w.Destroy(s); err != nil {
		return err
	}
	b.children = slices.Delete(b.children, i, i+1)
	return nil
}

// Children returns a copy of the child list.
func (b *BoxWidget) Children() []Widget {
	return slices.Clone(b.children)
}

// FirstChild returns the first child, or nil for an empty box.
func (b *BoxWidget) FirstChild() Widget {
	if len(b.children) == 0 {
		return nil
	}
	return b.children[0]
}

// LastChild returns the last child, or nil for an empty box.
func (b *BoxWidget) LastChild() Widget {
	if len(b.children) == 0 {
		return nil
	}
	return b.children[len(b.children)-1]
}
