package headless

import "slices"

// Backend flavours.
const (
	Plain  = "plain"
	Themed = "themed"
)

type classSpec struct {
	// widget classes take a parent widget and can be packed.
	widget bool
	// themed lists the options accepted by the themed backend. Nil means the
	// class is not themed and accepts every option on both backends.
	themed []string
	// natural size hint for classes that do not size from text.
	base [2]int
}

var classes = map[string]classSpec{
	"Tk":          {widget: true, base: [2]int{200, 200}},
	"Toplevel":    {widget: true, base: [2]int{200, 200}},
	"Frame":       {widget: true, themed: []string{"width", "height", "relief", "borderwidth", "padding"}},
	"LabelFrame":  {widget: true, themed: []string{"text", "width", "height", "relief", "borderwidth", "padding"}},
	"Label":       {widget: true, themed: []string{"text", "textvariable", "width", "anchor", "image", "relief", "padding"}},
	"Button":      {widget: true, themed: []string{"text", "command", "width", "textvariable", "state", "image", "default"}},
	"Entry":       {widget: true, themed: []string{"width", "textvariable", "state", "show"}},
	"Checkbutton": {widget: true, themed: []string{"text", "variable", "onvalue", "offvalue", "command", "state"}},
	"Radiobutton": {widget: true, themed: []string{"text", "variable", "value", "command", "state"}},
	"Scale":       {widget: true, themed: []string{"from_", "to", "orient", "length", "variable", "command"}, base: [2]int{100, 30}},
	"Scrollbar":   {widget: true, themed: []string{"orient", "command"}, base: [2]int{15, 15}},
	"Menubutton":  {widget: true, themed: []string{"text", "menu", "direction", "width", "textvariable"}},
	"Combobox":    {widget: true, themed: []string{"textvariable", "values", "width", "state"}},
	"PanedWindow": {widget: true, themed: []string{"orient", "width", "height"}},
	"Spinbox":     {widget: true, themed: []string{"from_", "to", "increment", "textvariable", "width", "values"}},
	"Text":        {widget: true, base: [2]int{80 * charWidth, 24 * lineHeight}},
	"Listbox":     {widget: true, base: [2]int{20 * charWidth, 10 * lineHeight}},
	"Canvas":      {widget: true, base: [2]int{200, 150}},
	"Menu":        {widget: true},
	"StringVar":   {},
	"BooleanVar":  {},
	"IntVar":      {},
	"DoubleVar":   {},
}

func (c classSpec) supports(backend, option string) bool {
	if backend != Themed || c.themed == nil {
		return true
	}
	return slices.Contains(c.themed, option)
}

// Classes returns the known widget and variable class names.
func Classes() []string {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var colourOptions = []string{"bg", "fg", "background", "foreground", "activebackground", "activeforeground"}
