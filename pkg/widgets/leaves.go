package widgets

import (
	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/trace"
)

// Label shows Text, or the value of Var when set.
type Label struct {
	Text string
	// Var is a string variable whose value is shown instead of Text.
	Var registry.Handle
	// Options are extra construction options.
	Options toolkit.Options
}

// LabelOf returns a label showing text.
func LabelOf(text string) Label {
	return Label{Text: text}
}

// Realize implements Descriptor.
func (l Label) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	opts := toolkit.Opts("text", l.Text)
	if l.Var != registry.Invalid {
		opts = toolkit.Opts("textvariable", l.Var)
	}
	return leaf(s, parent, "text", "Label", opts.Merge(l.Options))
}

// Button runs OnClick when pressed.
type Button struct {
	Text    string
	OnClick *toolkit.Command
	Options toolkit.Options
}

// ButtonOf returns a button with the given text and command.
func ButtonOf(text string, onClick *toolkit.Command) Button {
	return Button{Text: text, OnClick: onClick}
}

// WithOptions returns a copy of the button with extra construction options.
func (b Button) WithOptions(opts toolkit.Options) Button {
	b.Options = b.Options.Merge(opts)
	return b
}

// Realize implements Descriptor.
func (b Button) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	opts := toolkit.Opts("text", b.Text)
	if b.OnClick != nil {
		opts = opts.With("command", b.OnClick)
	}
	return leaf(s, parent, "button", "Button", opts.Merge(b.Options))
}

// Input is a single-line entry prefilled with Placeholder.
type Input struct {
	Placeholder string
	Options     toolkit.Options
}

// Realize implements Descriptor.
func (in Input) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	w, err := leaf(s, parent, "input", "Entry", in.Options)
	if err != nil {
		return nil, err
	}
	if _, err := s.Call(w.handle, "delete", []any{0, "end"}, nil); err != nil {
		return nil, err
	}
	if _, err := s.Call(w.handle, "insert", []any{0, in.Placeholder}, nil); err != nil {
		return nil, err
	}
	return w, nil
}

// TextArea is a multi-line text widget, prefilled with Placeholder when it
// is not empty.
type TextArea struct {
	Placeholder string
	Options     toolkit.Options
}

// Realize implements Descriptor.
func (t TextArea) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	w, err := leaf(s, parent, "textarea", "Text", t.Options)
	if err != nil {
		return nil, err
	}
	if t.Placeholder != "" {
		if _, err := s.Call(w.handle, "insert", []any{"insert", t.Placeholder}, nil); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// CheckBox toggles Var between On and Off. On and Off default to true and
// false.
type CheckBox struct {
	Text    string
	Var     registry.Handle
	On, Off any
}

// Realize implements Descriptor.
func (c CheckBox) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	on, off := c.On, c.Off
	if on == nil {
		on = registry.True
	}
	if off == nil {
		off = registry.False
	}
	opts := toolkit.Opts("text", c.Text, "variable", c.Var, "onvalue", on, "offvalue", off)
	return leaf(s, parent, "checkBox", "Checkbutton", opts)
}

// RadioButton sets Var to Value when selected.
type RadioButton struct {
	Text    string
	Var     registry.Handle
	Value   any
	OnClick *toolkit.Command
}

// Realize implements Descriptor.
func (r RadioButton) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	opts := toolkit.Opts("text", r.Text, "variable", r.Var, "value", r.Value)
	if r.OnClick != nil {
		opts = opts.With("command", r.OnClick)
	}
	return leaf(s, parent, "radioButton", "Radiobutton", opts)
}

// ListBox lists Items. Mode is the selection mode and defaults to
// "browse".
type ListBox struct {
	Items   []string
	Mode    string
	Options toolkit.Options
}

// ListBoxOf returns a list box of items.
func ListBoxOf(items ...string) ListBox {
	return ListBox{Items: items}
}

// Realize implements Descriptor.
func (l ListBox) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	mode := l.Mode
	if mode == "" {
		mode = "browse"
	}
	w, err := leaf(s, parent, "listBox", "Listbox", toolkit.Opts("selectmode", mode).Merge(l.Options))
	if err != nil {
		return nil, err
	}
	for i, item := range l.Items {
		if _, err := s.Call(w.handle, "insert", []any{i, item}, nil); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// ScrollBar is a free-standing scroll bar. It fills its parcel along its
// own axis; bind it with BindYScrollBar or BindXScrollBar.
type ScrollBar struct {
	Orientation layout.Orientation
}

// Realize implements Descriptor.
func (b ScrollBar) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	w, err := leaf(s, parent, "scrollBar", "Scrollbar", toolkit.Opts("orient", b.Orientation.String()))
	if err != nil {
		return nil, err
	}
	mode := layout.FillY
	if b.Orientation == layout.Horizontal {
		mode = layout.FillX
	}
	return newFillWidget(w, layout.SideNone, mode), nil
}

// Slider selects a number in [From, To] in steps of Step.
type Slider struct {
	From, To, Step int
	Options        toolkit.Options
}

// Realize implements Descriptor.
func (sl Slider) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	step := sl.Step
	if step == 0 {
		step = 1
	}
	opts := toolkit.Opts("from_", sl.From, "to", sl.To, "resolution", step)
	return leaf(s, parent, "slider", "Scale", opts.Merge(sl.Options))
}

// SpinBox steps through the numbers in [From, To].
type SpinBox struct {
	From, To, Step int
	Options        toolkit.Options
}

// Realize implements Descriptor.
func (sp SpinBox) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	opts := toolkit.Opts("from_", sp.From, "to", sp.To)
	if sp.Step > 1 {
		opts = opts.With("increment", sp.Step)
	}
	return leaf(s, parent, "spinBox", "Spinbox", opts.Merge(sp.Options))
}

// ComboBox edits Var, offering Values.
type ComboBox struct {
	Var     registry.Handle
	Values  []string
	Options toolkit.Options
}

// Realize implements Descriptor.
func (c ComboBox) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	opts := toolkit.Opts("textvariable", c.Var, "values", c.Values)
	return leaf(s, parent, "comboBox", "Combobox", opts.Merge(c.Options))
}

// Canvas is a drawing area of the given size.
type Canvas struct {
	Width, Height int
	Options       toolkit.Options
}

// Realize implements Descriptor.
func (c Canvas) Realize(s *trace.Session, parent registry.Handle) (Widget, error) {
	opts := toolkit.Opts("width", c.Width, "height", c.Height)
	return leaf(s, parent, "canvas", "Canvas", opts.Merge(c.Options))
}
