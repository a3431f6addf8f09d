package widgets

import (
	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/trace"
)

// Separator is a thin frame, optionally captioned, that ignores the fill
// chosen by its parent and uses Fill instead.
type Separator struct {
	Text string
	// Fill defaults to layout.FillX.
	Fill layout.Fill
	// Height defaults to 2.
	Height int
	// Background defaults to "white".
	Background string
	// Relief defaults to "flat".
	Relief string
}

// Realize implements Descriptor.
func (sp Separator) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	fill := sp.Fill
	if fill == layout.FillNone {
		fill = layout.FillX
	}
	height := sp.Height
	if height == 0 {
		height = 2
	}
	bg := sp.Background
	if bg == "" {
		bg = "white"
	}
	relief := sp.Relief
	if relief == "" {
		relief = "flat"
	}
	opts := toolkit.Opts("height", height, "bg", bg, "bd", 1, "relief", relief)
	frame, err := s.NewNamed("separator", "Frame", parent, opts)
	if err != nil {
		return nil, err
	}
	w := &SeparatorWidget{Leaf: Leaf{handle: frame}, fill: fill}
	if sp.Text != "" {
		if w.caption, err = s.New("Label", frame, toolkit.Opts("text", sp.Text)); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// SeparatorWidget is a realized Separator.
type SeparatorWidget struct {
	Leaf
	fill    layout.Fill
	caption registry.Handle
}

// Pack implements Widget.
func (w *SeparatorWidget) Pack(s *trace.Session, opts layout.PackOptions) error {
	opts.Fill = w.fill
	opts.Expand = w.fill == layout.FillBoth
	if err := pack(s, w.handle, opts); err != nil {
		return err
	}
	if w.caption != registry.Invalid {
		return pack(s, w.caption, layout.PackOptions{})
	}
	return nil
}

// LabeledBox is a captioned frame that fills its parcel. Its children are
// packed with default options.
type LabeledBox struct {
	Text     string
	Children []Descriptor
	Options  toolkit.Options
}

// LabeledBoxOf returns a labeled box around children.
func LabeledBoxOf(text string, children ...Descriptor) LabeledBox {
	return LabeledBox{Text: text, Children: children}
}

// Realize implements Descriptor.
func (lb LabeledBox) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	frame, err := s.NewNamed("labeledBox", "LabelFrame", parent, toolkit.Opts("text", lb.Text).Merge(lb.Options))
	if err != nil {
		return nil, err
	}
	w := &containerWidget{Leaf: Leaf{handle: frame}}
	for _, d := range lb.Children {
		c, err := d.Realize(s, frame)
		if err != nil {
			return nil, err
		}
		w.children = append(w.children, c)
	}
	return newFillWidget(w, layout.SideNone, layout.FillBoth), nil
}

// containerWidget packs every child with default options after itself.
type containerWidget struct {
	Leaf
	children []Widget
}

func (w *containerWidget) Pack(s *trace.Session, opts layout.PackOptions) error {
	if err := pack(s, w.handle, opts); err != nil {
		return err
	}
	for _, c := range w.children {
		if err := c.Pack(s, layout.PackOptions{}); err != nil {
			return err
		}
	}
	return nil
}

func (w *containerWidget) Destroy(s *trace.Session) error {
	for _, c := range w.children {
		if err := c.Destroy(s); err != nil {
			return err
		}
	}
	w.children = nil
	return destroy(s, w.handle)
}

// Splitter shows its children in resizable panes.
type Splitter struct {
	Orientation layout.Orientation
	Children    []Descriptor
	Options     toolkit.Options
}

// SplitterOf returns a splitter of children.
func SplitterOf(orientation layout.Orientation, children ...Descriptor) Splitter {
	return Splitter{Orientation: orientation, Children: children}
}

// contentPacker is implemented by containers whose contents can be packed
// without packing the container itself, as panes are managed by their
// paned window.
type contentPacker interface {
	packContents(s *trace.Session) error
}

// Realize implements Descriptor.
func (sp Splitter) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	opts := toolkit.Opts("orient", sp.Orientation.String()).Merge(sp.Options)
	paned, err := s.NewNamed("splitter", "PanedWindow", parent, opts)
	if err != nil {
		return nil, err
	}
	w := &SplitterWidget{Leaf: Leaf{handle: paned}}
	for _, d := range sp.Children {
		c, err := d.Realize(s, paned)
		if err != nil {
			return nil, err
		}
		if _, err := s.Call(paned, "add", []any{c.Handle()}, nil); err != nil {
			return nil, err
		}
		w.panes = append(w.panes, c)
	}
	return w, nil
}

// SplitterWidget is a realized Splitter.
type SplitterWidget struct {
	Leaf
	panes []Widget
}

// Panes returns the pane widgets in order.
func (w *SplitterWidget) Panes() []Widget {
	return append([]Widget(nil), w.panes...)
}

// Pack implements Widget. Panes are not packed; containers among them get
// their own contents packed.
func (w *SplitterWidget) Pack(s *trace.Session, opts layout.PackOptions) error {
	if err := pack(s, w.handle, opts); err != nil {
		return err
	}
	for _, p := range w.panes {
		if cp, ok := p.(contentPacker); ok {
			if err := cp.packContents(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Destroy implements Widget.
func (w *SplitterWidget) Destroy(s *trace.Session) error {
	for _, p := range w.panes {
		if err := p.Destroy(s); err != nil {
			return err
		}
	}
	w.panes = nil
	return destroy(s, w.handle)
}
