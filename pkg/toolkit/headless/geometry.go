package headless

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/toolkit"
)

var face font.Face = basicfont.Face7x13

const (
	charWidth  = 7
	lineHeight = 13
	textPad    = 4
)

// RequestSize returns the natural size of w.
func (t *Toolkit) RequestSize(w *Widget) layout.Size {
	spec := classes[w.Class]
	var size layout.Size
	switch w.Class {
	case "Label", "Button", "Checkbutton", "Radiobutton", "Menubutton":
		size = textSize(w.text())
		if w.Class == "Checkbutton" || w.Class == "Radiobutton" {
			size.Width += lineHeight + textPad
		}
	case "Entry", "Combobox", "Spinbox":
		size = layout.Size{Width: optInt(w, "width", 20) * charWidth, Height: lineHeight + 2*textPad}
	case "Canvas":
		size = layout.Size{Width: optInt(w, "width", spec.base[0]), Height: optInt(w, "height", spec.base[1])}
	case "Scale":
		size = layout.Size{Width: optInt(w, "length", spec.base[0]), Height: spec.base[1]}
		if o, _ := w.Options.Get("orient"); o == "vertical" {
			size.Width, size.Height = size.Height, size.Width
		}
	case "Scrollbar":
		size = layout.Size{Width: spec.base[0], Height: spec.base[1]}
	case "Listbox", "Text":
		size = layout.Size{Width: spec.base[0], Height: spec.base[1]}
	default:
		size = layout.RequestSize(t.slaves(w))
		if w.Class == "PanedWindow" {
			for _, p := range w.Panes {
				ps := t.RequestSize(p)
				if o, _ := w.Options.Get("orient"); o == "vertical" {
					size.Width = max(size.Width, ps.Width)
					size.Height += ps.Height
				} else {
					size.Width += ps.Width
					size.Height = max(size.Height, ps.Height)
				}
			}
		}
		if w.Class == "LabelFrame" {
			size.Height += lineHeight
		}
		size.Width = max(size.Width, optInt(w, "width", spec.base[0]))
		size.Height = max(size.Height, optInt(w, "height", spec.base[1]))
	}
	return size
}

// Geometry returns the rect of every packed descendant of w relative to w's
// parcel when w is given its natural size.
func (t *Toolkit) Geometry(w *Widget) map[*Widget]layout.Rect {
	out := make(map[*Widget]layout.Rect)
	t.arrange(w, t.RequestSize(w), out)
	return out
}

func (t *Toolkit) arrange(w *Widget, size layout.Size, out map[*Widget]layout.Rect) {
	slaves := t.slaves(w)
	rects := layout.Arrange(size, slaves)
	for i, c := range w.Packed {
		out[c] = rects[i]
		t.arrange(c, layout.Size{Width: rects[i].Width, Height: rects[i].Height}, out)
	}
}

func (t *Toolkit) slaves(w *Widget) []layout.Slave {
	slaves := make([]layout.Slave, len(w.Packed))
	for i, c := range w.Packed {
		slaves[i] = layout.Slave{Request: t.RequestSize(c), Pack: c.Pack}
	}
	return slaves
}

func (w *Widget) text() string {
	if v, ok := w.Options.Get("text"); ok {
		return fmt.Sprint(v)
	}
	if v, ok := w.Options.Get("textvariable"); ok {
		if tv, ok := v.(*Widget); ok {
			return fmt.Sprint(tv.Value)
		}
	}
	return ""
}

func textSize(s string) layout.Size {
	width := font.MeasureString(face, s).Ceil()
	return layout.Size{Width: width + 2*textPad, Height: lineHeight + 2*textPad}
}

func optInt(w *Widget, name string, def int) int {
	v, ok := w.Options.Get(name)
	if !ok {
		return def
	}
	if n, ok := toolkit.AsInt(v); ok {
		return n
	}
	return def
}
