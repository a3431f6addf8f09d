package widgets

import (
	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/trace"
)

// Fill makes Child greedily consume the space its parent gives it. When
// packed, the child receives an explicit side (Side, or the side chosen by
// the parent), fill Mode and expand when Mode is both.
type Fill struct {
	Child Descriptor
	// Side overrides the side chosen by the parent.
	Side layout.Side
	// Mode defaults to layout.FillBoth.
	Mode layout.Fill
}

// Filled wraps child in a Fill that fills both directions.
func Filled(child Descriptor) Fill {
	return Fill{Child: child, Mode: layout.FillBoth}
}

// Realize implements Descriptor.
func (f Fill) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	w, err := f.Child.Realize(s, parent)
	if err != nil {
		return nil, err
	}
	return newFillWidget(w, f.Side, f.Mode), nil
}

// FillWidget is a realized Fill.
type FillWidget struct {
	Widget
	side layout.Side
	mode layout.Fill
}

func newFillWidget(w Widget, side layout.Side, mode layout.Fill) *FillWidget {
	if mode == layout.FillNone {
		mode = layout.FillBoth
	}
	return &FillWidget{Widget: w, side: side, mode: mode}
}

// Unwrap returns the wrapped widget.
func (f *FillWidget) Unwrap() Widget {
	return f.Widget
}

// Pack implements Widget.
func (f *FillWidget) Pack(s *trace.Session, opts layout.PackOptions) error {
	if f.side != layout.SideNone {
		opts.Side = f.side
	}
	opts.Fill = f.mode
	opts.Expand = f.mode == layout.FillBoth
	return f.Widget.Pack(s, opts)
}

// Scroll puts Child in a frame together with one scroll bar, or two for
// layout.Both, and binds child and bars to each other in both directions.
//
//	Scroll{Orientation: layout.Vertical, Child: TextArea{}}
type Scroll struct {
	Orientation layout.Orientation
	Child       Descriptor
}

// Realize implements Descriptor.
func (sc Scroll) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	frame, err := s.NewNamed("scroll", "Frame", parent, nil)
	if err != nil {
		return nil, err
	}
	child, err := sc.Child.Realize(s, frame)
	if err != nil {
		return nil, err
	}
	w := &ScrollWidget{frame: frame, child: child}
	if sc.Orientation != layout.Horizontal {
		if w.vbar, err = scrollBar(s, frame, child.Handle(), layout.Vertical); err != nil {
			return nil, err
		}
	}
	if sc.Orientation != layout.Vertical {
		if w.hbar, err = scrollBar(s, frame, child.Handle(), layout.Horizontal); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func scrollBar(s *trace.Session, parent, target registry.Handle, o layout.Orientation) (registry.Handle, error) {
	bar, err := s.NewNamed("scrollBar", "Scrollbar", parent, toolkit.Opts("orient", o.String()))
	if err != nil {
		return registry.Invalid, err
	}
	if o == layout.Horizontal {
		err = BindXScrollBar(s, target, bar)
	} else {
		err = BindYScrollBar(s, target, bar)
	}
	return bar, err
}

// BindYScrollBar connects the vertical view of target and bar both ways.
func BindYScrollBar(s *trace.Session, target, bar registry.Handle) error {
	if err := s.Connect(target, "yscroll", bar, "set"); err != nil {
		return err
	}
	return s.Connect(bar, "scroll", target, "yview_moveto")
}

// BindXScrollBar connects the horizontal view of target and bar both ways.
func BindXScrollBar(s *trace.Session, target, bar registry.Handle) error {
	if err := s.Connect(target, "xscroll", bar, "set"); err != nil {
		return err
	}
	return s.Connect(bar, "scroll", target, "xview_moveto")
}

// ScrollWidget is a realized Scroll.
type ScrollWidget struct {
	frame registry.Handle
	child Widget
	vbar  registry.Handle
	hbar  registry.Handle
}

// Handle implements Widget.
func (w *ScrollWidget) Handle() registry.Handle {
	return w.frame
}

// Child returns the scrolled widget.
func (w *ScrollWidget) Child() Widget {
	return w.child
}

// Bars returns the vertical and horizontal bar handles. A missing bar is
// registry.Invalid.
func (w *ScrollWidget) Bars() (vertical, horizontal registry.Handle) {
	return w.vbar, w.hbar
}

// Pack implements Widget. Bars are packed before the child so that they
// keep their space when the frame shrinks.
func (w *ScrollWidget) Pack(s *trace.Session, opts layout.PackOptions) error {
	if err := pack(s, w.frame, opts); err != nil {
		return err
	}
	if w.vbar != registry.Invalid {
		if err := pack(s, w.vbar, layout.PackOptions{Side: layout.SideRight, Fill: layout.FillY}); err != nil {
			return err
		}
	}
	if w.hbar != registry.Invalid {
		if err := pack(s, w.hbar, layout.PackOptions{Side: layout.SideBottom, Fill: layout.FillX}); err != nil {
			return err
		}
	}
	return w.child.Pack(s, layout.PackOptions{Side: layout.SideLeft, Fill: layout.FillBoth, Expand: true})
}

// Forget implements Widget.
func (w *ScrollWidget) Forget(s *trace.Session) error {
	_, err := s.Call(w.frame, "pack_forget", nil, nil)
	return err
}

// Destroy implements Widget.
func (w *ScrollWidget) Destroy(s *trace.Session) error {
	if err := w.child.Destroy(s); err != nil {
		return err
	}
	for _, bar := range []registry.Handle{w.vbar, w.hbar} {
		if bar == registry.Invalid {
			continue
		}
		if err := destroy(s, bar); err != nil {
			return err
		}
	}
	return destroy(s, w.frame)
}
