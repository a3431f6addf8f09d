package widgets

import (
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/trace"
)

// MenuItem is one entry of a Menu.
type MenuItem interface {
	addTo(s *trace.Session, menu registry.Handle, tearOff bool) error
}

// MenuCommand runs Command when chosen.
type MenuCommand struct {
	Label   string
	Command *toolkit.Command
}

func (it MenuCommand) addTo(s *trace.Session, menu registry.Handle, _ bool) error {
	kw := toolkit.Opts("label", it.Label)
	if it.Command != nil {
		kw = kw.With("command", it.Command)
	}
	_, err := s.Call(menu, "add_command", nil, kw)
	return err
}

// SubMenu opens a nested menu.
type SubMenu struct {
	Label string
	Items []MenuItem
}

func (it SubMenu) addTo(s *trace.Session, menu registry.Handle, tearOff bool) error {
	child, err := Menu{Items: it.Items, TearOff: tearOff}.realize(s, menu)
	if err != nil {
		return err
	}
	_, err = s.Call(menu, "add_cascade", nil, toolkit.Opts("label", it.Label, "menu", child))
	return err
}

// MenuSeparator is a separator line.
type MenuSeparator struct{}

func (MenuSeparator) addTo(s *trace.Session, menu registry.Handle, _ bool) error {
	_, err := s.Call(menu, "add_separator", nil, nil)
	return err
}

// MenuCheck toggles Var.
type MenuCheck struct {
	Label string
	Var   registry.Handle
}

func (it MenuCheck) addTo(s *trace.Session, menu registry.Handle, _ bool) error {
	_, err := s.Call(menu, "add_checkbutton", nil, toolkit.Opts("label", it.Label, "variable", it.Var))
	return err
}

// MenuRadio sets Var to Value.
type MenuRadio struct {
	Label string
	Var   registry.Handle
	Value any
}

func (it MenuRadio) addTo(s *trace.Session, menu registry.Handle, _ bool) error {
	_, err := s.Call(menu, "add_radiobutton", nil, toolkit.Opts("label", it.Label, "variable", it.Var, "value", it.Value))
	return err
}

// Menu is a drop-down or popup menu. It is not packed; attach it with
// MenuButton or SetMenu.
type Menu struct {
	Items []MenuItem
	// TearOff enables the tear-off entry.
	TearOff bool
}

// MenuOf returns a menu of items.
func MenuOf(items ...MenuItem) Menu {
	return Menu{Items: items}
}

func (m Menu) realize(s *trace.Session, parent registry.Handle) (registry.Handle, error) {
	menu, err := s.NewNamed("menu", "Menu", parent, toolkit.Opts("tearoff", m.TearOff))
	if err != nil {
		return registry.Invalid, err
	}
	for _, it := range m.Items {
		if err := it.addTo(s, menu, m.TearOff); err != nil {
			return registry.Invalid, err
		}
	}
	return menu, nil
}

// Realize implements Descriptor.
func (m Menu) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	h, err := m.realize(s, parent)
	if err != nil {
		return nil, err
	}
	return &Leaf{handle: h}, nil
}

// SetMenu realizes m as the menu bar of window.
func SetMenu(s *trace.Session, window registry.Handle, m Menu) (registry.Handle, error) {
	menu, err := m.realize(s, window)
	if err != nil {
		return registry.Invalid, err
	}
	if err := s.SetItem(window, "menu", menu); err != nil {
		return registry.Invalid, err
	}
	return menu, nil
}

// MenuButton opens Menu when pressed.
type MenuButton struct {
	Text    string
	Menu    Menu
	Options toolkit.Options
}

// Realize implements Descriptor.
func (mb MenuButton) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	w, err := leaf(s, parent, "menuButton", "Menubutton", toolkit.Opts("text", mb.Text).Merge(mb.Options))
	if err != nil {
		return nil, err
	}
	menu, err := mb.Menu.realize(s, w.handle)
	if err != nil {
		return nil, err
	}
	if err := s.SetItem(w.handle, "menu", menu); err != nil {
		return nil, err
	}
	return w, nil
}
