// Package layout defines the box-packing vocabulary shared by the widget
// composition engine and toolkit backends: orientations, sides, fill modes
// and pack options.
package layout

import (
	"fmt"

	"github.com/go-drift/tracegen/pkg/toolkit"
)

// Orientation is the main axis of a box or scroll wrapper.
// Vertical is the zero value.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
	// Both is only meaningful for scroll wrappers, which then own two bars.
	Both
)

// String returns the toolkit spelling of the orientation.
func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Anchor returns the side the first child of a box is packed against.
func (o Orientation) Anchor() Side {
	if o == Horizontal {
		return SideLeft
	}
	return SideTop
}

// CrossFill returns the fill mode along the axis perpendicular to o.
func (o Orientation) CrossFill() Fill {
	if o == Horizontal {
		return FillY
	}
	return FillX
}

// Side is the packing side of a widget inside its parent's cavity.
type Side string

const (
	SideNone   Side = ""
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Vertical reports whether the side stacks widgets along the y axis.
func (s Side) Vertical() bool {
	return s == SideTop || s == SideBottom || s == SideNone
}

// Fill controls whether a packed widget stretches to its parcel.
type Fill string

const (
	FillNone Fill = ""
	FillX    Fill = "x"
	FillY    Fill = "y"
	FillBoth Fill = "both"
)

// FillsX reports whether f stretches horizontally.
func (f Fill) FillsX() bool { return f == FillX || f == FillBoth }

// FillsY reports whether f stretches vertically.
func (f Fill) FillsY() bool { return f == FillY || f == FillBoth }

// PackOptions is the side/fill/expand/padding tuple passed to pack.
// Zero fields are omitted from the emitted option list.
type PackOptions struct {
	Side   Side
	Fill   Fill
	Expand bool
	PadX   int
	PadY   int
}

// Options converts p to the ordered keyword list understood by toolkits.
func (p PackOptions) Options() toolkit.Options {
	var opts toolkit.Options
	if p.Side != SideNone {
		opts = append(opts, toolkit.Option{Name: "side", Value: string(p.Side)})
	}
	if p.Fill != FillNone {
		opts = append(opts, toolkit.Option{Name: "fill", Value: string(p.Fill)})
	}
	if p.Expand {
		opts = append(opts, toolkit.Option{Name: "expand", Value: true})
	}
	if p.PadX != 0 {
		opts = append(opts, toolkit.Option{Name: "padx", Value: p.PadX})
	}
	if p.PadY != 0 {
		opts = append(opts, toolkit.Option{Name: "pady", Value: p.PadY})
	}
	return opts
}

// ParsePackOptions is the inverse of PackOptions.Options. Unknown names are
// reported as an error.
func ParsePackOptions(opts toolkit.Options) (PackOptions, error) {
	var p PackOptions
	for _, o := range opts {
		switch o.Name {
		case "side":
			s, ok := o.Value.(string)
			if !ok {
				return p, fmt.Errorf("pack: side must be a string, got %T", o.Value)
			}
			switch Side(s) {
			case SideTop, SideBottom, SideLeft, SideRight:
				p.Side = Side(s)
			default:
				return p, fmt.Errorf("pack: bad side %q", s)
			}
		case "fill":
			s, ok := o.Value.(string)
			if !ok {
				return p, fmt.Errorf("pack: fill must be a string, got %T", o.Value)
			}
			switch Fill(s) {
			case FillNone, FillX, FillY, FillBoth:
				p.Fill = Fill(s)
			case "none":
				p.Fill = FillNone
			default:
				return p, fmt.Errorf("pack: bad fill %q", s)
			}
		case "expand":
			b, ok := o.Value.(bool)
			if !ok {
				return p, fmt.Errorf("pack: expand must be a bool, got %T", o.Value)
			}
			p.Expand = b
		case "padx", "pady":
			n, ok := toolkit.AsInt(o.Value)
			if !ok {
				return p, fmt.Errorf("pack: %s must be an integer, got %T", o.Name, o.Value)
			}
			if o.Name == "padx" {
				p.PadX = n
			} else {
				p.PadY = n
			}
		default:
			return p, fmt.Errorf("pack: unknown option %q", o.Name)
		}
	}
	return p, nil
}
