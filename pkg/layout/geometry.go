package layout

import "fmt"

// Size is a width and height in pixels.
type Size struct {
	Width, Height int
}

// Rect is a placed parcel relative to the parent's origin.
type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Slave is one packed child as seen by the packer.
type Slave struct {
	Request Size
	Pack    PackOptions
}

// RequestSize computes the natural size of a container from its packed
// slaves, in packing order.
func RequestSize(slaves []Slave) Size {
	var width, height, maxWidth, maxHeight int
	for _, s := range slaves {
		padX, padY := 2*s.Pack.PadX, 2*s.Pack.PadY
		if s.Pack.Side.Vertical() {
			if w := s.Request.Width + padX + width; w > maxWidth {
				maxWidth = w
			}
			height += s.Request.Height + padY
		} else {
			if h := s.Request.Height + padY + height; h > maxHeight {
				maxHeight = h
			}
			width += s.Request.Width + padX
		}
	}
	if width > maxWidth {
		maxWidth = width
	}
	if height > maxHeight {
		maxHeight = height
	}
	return Size{Width: maxWidth, Height: maxHeight}
}

// Arrange places slaves inside a cavity of the given size. The returned
// rects are in the same order as slaves. Expanding slaves share the space
// left over along their packing direction.
func Arrange(cavity Size, slaves []Slave) []Rect {
	out := make([]Rect, len(slaves))
	cx, cy, cw, ch := 0, 0, cavity.Width, cavity.Height
	for i, s := range slaves {
		padX, padY := 2*s.Pack.PadX, 2*s.Pack.PadY
		var frame Rect
		if s.Pack.Side.Vertical() {
			frame.Height = s.Request.Height + padY
			if s.Pack.Expand {
				frame.Height += expansion(slaves[i:], ch, true)
			}
			frame.Height = min(max(frame.Height, 0), max(ch, 0))
			frame.Width = cw
			ch -= frame.Height
			frame.X = cx
			if s.Pack.Side == SideBottom {
				frame.Y = cy + ch
			} else {
				frame.Y = cy
				cy += frame.Height
			}
		} else {
			frame.Width = s.Request.Width + padX
			if s.Pack.Expand {
				frame.Width += expansion(slaves[i:], cw, false)
			}
			frame.Width = min(max(frame.Width, 0), max(cw, 0))
			frame.Height = ch
			cw -= frame.Width
			frame.Y = cy
			if s.Pack.Side == SideRight {
				frame.X = cx + cw
			} else {
				frame.X = cx
				cx += frame.Width
			}
		}

		w, h := s.Request.Width, s.Request.Height
		if s.Pack.Fill.FillsX() || w > frame.Width-padX {
			w = frame.Width - padX
		}
		if s.Pack.Fill.FillsY() || h > frame.Height-padY {
			h = frame.Height - padY
		}
		out[i] = Rect{
			X:      frame.X + (frame.Width-w)/2,
			Y:      frame.Y + (frame.Height-h)/2,
			Width:  max(w, 0),
			Height: max(h, 0),
		}
	}
	return out
}

// expansion returns the extra space the first slave of rest receives when
// the leftover space along one direction is split evenly between the
// expanding slaves packed in that direction.
func expansion(rest []Slave, avail int, vertical bool) int {
	used, count := 0, 0
	for _, s := range rest {
		if s.Pack.Side.Vertical() != vertical {
			continue
		}
		if vertical {
			used += s.Request.Height + 2*s.Pack.PadY
		} else {
			used += s.Request.Width + 2*s.Pack.PadX
		}
		if s.Pack.Expand {
			count++
		}
	}
	if count == 0 || avail <= used {
		return 0
	}
	return (avail - used) / count
}
