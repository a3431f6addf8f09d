package headless

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/toolkit"
)

// Invoke implements toolkit.Toolkit.
func (t *Toolkit) Invoke(obj toolkit.Object, method string, args []any, kw toolkit.Options) (any, error) {
	w, err := t.widget(obj)
	if err != nil {
		return nil, err
	}
	switch method {
	case "pack":
		return nil, t.pack(w, kw)
	case "pack_forget":
		t.forget(w)
		return nil, nil
	case "destroy":
		t.destroy(w)
		return nil, nil
	case "title":
		if len(args) != 1 {
			return nil, arity(w, method, 1, args)
		}
		w.Attrs["title"] = args[0]
		return nil, nil
	case "minsize":
		if len(args) != 2 {
			return nil, arity(w, method, 2, args)
		}
		w.Attrs["minsize"] = []any{args[0], args[1]}
		return nil, nil
	case "get":
		if w.isVar() {
			return w.Value, nil
		}
		return strings.Join(w.Content, ""), nil
	case "set":
		if w.Class == "Scrollbar" {
			w.Value = slices.Clone(args)
			return nil, nil
		}
		if len(args) != 1 {
			return nil, arity(w, method, 1, args)
		}
		w.Value = args[0]
		return nil, nil
	case "insert":
		if len(args) != 2 {
			return nil, arity(w, method, 2, args)
		}
		idx, err := w.index(args[0])
		if err != nil {
			return nil, err
		}
		w.Content = slices.Insert(w.Content, idx, fmt.Sprint(args[1]))
		return nil, nil
	case "delete":
		if len(args) < 1 || len(args) > 2 {
			return nil, arity(w, method, 2, args)
		}
		first, err := w.index(args[0])
		if err != nil {
			return nil, err
		}
		last := first + 1
		if len(args) == 2 {
			if last, err = w.index(args[1]); err != nil {
				return nil, err
			}
		}
		if last > first {
			w.Content = slices.Delete(w.Content, first, last)
		}
		return nil, nil
	case "add":
		if len(args) != 1 {
			return nil, arity(w, method, 1, args)
		}
		child, err := t.widget(args[0])
		if err != nil {
			return nil, err
		}
		w.Panes = append(w.Panes, child)
		return nil, nil
	case "add_command", "add_cascade", "add_separator", "add_checkbutton", "add_radiobutton":
		if w.Class != "Menu" {
			return nil, fmt.Errorf("headless: %s is not a menu", w.Path)
		}
		entry := toolkit.Options{{Name: "type", Value: strings.TrimPrefix(method, "add_")}}
		w.Entries = append(w.Entries, append(entry, kw...))
		return nil, nil
	case "xview_moveto", "yview_moveto":
		if len(args) != 1 {
			return nil, arity(w, method, 1, args)
		}
		v, ok := toolkit.AsFloat(args[0])
		if !ok {
			return nil, fmt.Errorf("headless: %s: expected a fraction, got %T", method, args[0])
		}
		axis, signal := 0, "xscroll"
		if method == "yview_moveto" {
			axis, signal = 1, "yscroll"
		}
		w.View[axis] = v
		return nil, t.Emit(w, signal, v, min(v+0.5, 1.0))
	case "invoke":
		cmd, _ := w.Options.Get("command")
		if c, ok := cmd.(*toolkit.Command); ok {
			c.Run()
		}
		return nil, nil
	case "configure":
		for _, opt := range kw {
			if err := t.SetItem(w, opt.Name, opt.Value); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	return nil, fmt.Errorf("headless: %s has no method %q", w.Path, method)
}

func arity(w *Widget, method string, want int, args []any) error {
	return fmt.Errorf("headless: %s.%s takes %d arguments, got %d", w.Path, method, want, len(args))
}

func (w *Widget) isVar() bool {
	return !classes[w.Class].widget
}

// index resolves a content index: an integer, "end", or "insert" (treated
// as the end, there being no cursor).
func (w *Widget) index(v any) (int, error) {
	if n, ok := toolkit.AsInt(v); ok {
		return min(max(n, 0), len(w.Content)), nil
	}
	if s, ok := v.(string); ok {
		switch s {
		case "end", "insert":
			return len(w.Content), nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return min(max(n, 0), len(w.Content)), nil
		}
	}
	return 0, fmt.Errorf("headless: %s: bad index %v", w.Path, v)
}

func (t *Toolkit) pack(w *Widget, kw toolkit.Options) error {
	if w.Parent == nil || w.isVar() {
		return fmt.Errorf("headless: %s cannot be packed", w.Path)
	}
	opts, err := layout.ParsePackOptions(kw)
	if err != nil {
		return fmt.Errorf("headless: %s: %w", w.Path, err)
	}
	if opts.Side == layout.SideNone {
		opts.Side = layout.SideTop
	}
	w.Pack = opts
	if !w.packed {
		w.packed = true
		w.Parent.Packed = append(w.Parent.Packed, w)
	}
	return nil
}

func (t *Toolkit) forget(w *Widget) {
	if !w.packed || w.Parent == nil {
		return
	}
	w.packed = false
	w.Parent.Packed = slices.DeleteFunc(w.Parent.Packed, func(c *Widget) bool { return c == w })
}

func (t *Toolkit) destroy(w *Widget) {
	if w.Destroyed {
		return
	}
	for _, c := range slices.Clone(w.Children) {
		t.destroy(c)
	}
	t.forget(w)
	w.Destroyed = true
	delete(t.signals, w)
	if p := w.Parent; p != nil {
		p.Children = slices.DeleteFunc(p.Children, func(c *Widget) bool { return c == w })
		p.Panes = slices.DeleteFunc(p.Panes, func(c *Widget) bool { return c == w })
	}
}
