// Package demo holds the sample windows built by "tracegen demo".
package demo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/tracegen/pkg/capability"
	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/trace"
	"github.com/go-drift/tracegen/pkg/widgets"
)

// Env is what a demo builds against.
type Env struct {
	Session *trace.Session
	// Self is the owner namespace extern.
	Self registry.Handle
	// Command returns the command bound to name.
	Command func(name string) *toolkit.Command
	// Handles holds the widgets stored on Self, by attribute name.
	Handles map[string]registry.Handle
}

// NewEnv returns an Env for s.
func NewEnv(s *trace.Session, self registry.Handle, command func(string) *toolkit.Command) Env {
	return Env{Session: s, Self: self, Command: command, Handles: make(map[string]registry.Handle)}
}

// named realizes d under name, stores it on the owner namespace and records
// its handle.
func (env Env) named(name string, d widgets.Descriptor) widgets.Descriptor {
	return widgets.DescriptorFunc(func(s *trace.Session, parent registry.Handle) (widgets.Widget, error) {
		w, err := widgets.NamedOf(env.Self, name, d).Realize(s, parent)
		if err != nil {
			return nil, err
		}
		env.Handles[name] = w.Handle()
		return w, nil
	})
}

// Demo is a named sample window.
type Demo struct {
	Name  string
	Short string
	Build func(env Env) error
}

var demos = []Demo{
	{Name: "gallery", Short: "every widget kind, with bound scroll bars", Build: gallery},
	{Name: "hello", Short: "a label, a canvas and a menu bar", Build: hello},
	{Name: "split", Short: "nested splitters", Build: split},
	{Name: "recorder", Short: "a pitch display fed from a worker goroutine", Build: recorder},
}

// All returns the demos in display order.
func All() []Demo {
	return slices.Clone(demos)
}

// Lookup returns the demo called name.
func Lookup(name string) (Demo, error) {
	for _, d := range demos {
		if d.Name == name {
			return d, nil
		}
	}
	names := make([]string, len(demos))
	for i, d := range demos {
		names[i] = d.Name
	}
	return Demo{}, fmt.Errorf("unknown demo %q (available: %s)", name, strings.Join(names, ", "))
}

// Table returns the capability table the demos run with: the built-in
// table plus a rule dropping relief where the backend has no use for it.
func Table() *capability.Table {
	t := capability.Default()
	t.DropOption("themed", "relief")
	return t
}

func words(n int) []string {
	var out []string
	for range n {
		out = append(out, "1 2 3", "apple juicy", "lamb clamp", "banana")
	}
	return out
}

func setVar(env Env, name string, kind widgets.VarKind, initial any) (registry.Handle, error) {
	v, err := widgets.NewVar(env.Session, kind, initial)
	if err != nil {
		return registry.Invalid, err
	}
	return v, env.Session.SetAttr(env.Self, name, v)
}

func gallery(env Env) error {
	s := env.Session
	a, err := setVar(env, "a", widgets.StringVar, "some")
	if err != nil {
		return err
	}
	b, err := setVar(env, "b", widgets.BooleanVar, nil)
	if err != nil {
		return err
	}
	c, err := setVar(env, "c", widgets.IntVar, nil)
	if err != nil {
		return err
	}

	named := env.named
	tree := widgets.VBox(
		widgets.ButtonOf("Yes", env.Command("onQuit")),
		widgets.Label{Var: a},
		widgets.ButtonOf("Change", env.Command("onChange")),
		widgets.HBox(
			widgets.LabelOf("ex"),
			widgets.LabelOf("wtf"),
			widgets.ButtonOf("emmm", env.Command("onAddChild")),
			widgets.LabelOf("aa"),
		),
		widgets.Input{Placeholder: "hel"},
		widgets.Separator{},
		widgets.Scroll{Orientation: layout.Vertical, Child: named("ta", widgets.TextArea{Placeholder: "wtf"})},
		named("ah", widgets.LabelOf("ah")),
		widgets.CheckBox{Text: "Some", Var: b},
		widgets.HBox(
			widgets.RadioButton{Text: "Wtf", Var: c, Value: 1, OnClick: env.Command("onPick")},
			widgets.RadioButton{Text: "emm", Var: c, Value: 2, OnClick: env.Command("onPick")},
		),
		widgets.HBox(
			named("sbar", widgets.ScrollBar{Orientation: layout.Vertical}),
			widgets.VBox(
				named("lbox", widgets.ListBoxOf(words(5)...)),
				named("hsbar", widgets.ScrollBar{Orientation: layout.Horizontal}),
			),
		),
		widgets.Scroll{Orientation: layout.Both, Child: named("box", widgets.ListBoxOf(words(5)...))},
		widgets.ComboBox{Var: a, Values: strings.Fields("hello cruel world")},
		widgets.SpinBox{From: 0, To: 100, Step: 10},
		widgets.Slider{From: 0, To: 100, Step: 2, Options: toolkit.Opts("orient", layout.Horizontal.String())},
		widgets.ButtonOf("hello", env.Command("onHello")),
		widgets.MenuButton{
			Text: "kind",
			Menu: widgets.MenuOf(
				widgets.MenuCheck{Label: "wtf", Var: b},
				widgets.MenuRadio{Label: "emm", Var: c, Value: 9},
			),
			Options: toolkit.Opts("relief", "raised"),
		},
		widgets.LabeledBoxOf("emmm", widgets.ButtonOf("Dangerous", env.Command("onDanger"))),
	)
	if _, err := widgets.Mount(s, tree); err != nil {
		return err
	}

	s.Comment("bind the free-standing bars to the list")
	lbox := env.Handles["lbox"]
	if err := widgets.BindYScrollBar(s, lbox, env.Handles["sbar"]); err != nil {
		return err
	}
	if err := widgets.BindXScrollBar(s, lbox, env.Handles["hsbar"]); err != nil {
		return err
	}
	return s.SetItem(env.Handles["ah"], "text", strings.Join([]string{"plain", "themed"}, ","))
}

func hello(env Env) error {
	s := env.Session
	tree := widgets.VBox(
		widgets.LabelOf("Hello world"),
		env.named("can", widgets.Canvas{Width: 250, Height: 300}),
	)
	if _, err := widgets.Mount(s, tree); err != nil {
		return err
	}
	nop := env.Command("nop")
	menu := widgets.MenuOf(
		widgets.MenuCommand{Label: "New", Command: nop},
		widgets.MenuCommand{Label: "Open", Command: env.Command("onOpen")},
		widgets.SubMenu{Label: "Help", Items: []widgets.MenuItem{
			widgets.MenuCommand{Label: "Index...", Command: nop},
			widgets.MenuSeparator{},
			widgets.MenuCommand{Label: "About", Command: nop},
		}},
	)
	if _, err := widgets.SetMenu(s, s.Root(), menu); err != nil {
		return err
	}
	if _, err := s.Call(s.Root(), "minsize", []any{200, 100}, nil); err != nil {
		return err
	}
	return s.SetItem(env.Handles["can"], "bg", "blue")
}

func split(env Env) error {
	tree := widgets.Filled(widgets.SplitterOf(layout.Horizontal,
		widgets.LabelOf("left pane"),
		widgets.SplitterOf(layout.Vertical,
			widgets.LabelOf("top pane"),
			widgets.LabelOf("bottom pane"),
		),
	))
	_, err := widgets.Mount(env.Session, tree)
	return err
}

// PitchName is the name of the recorder's pitch label in Env.Handles.
const PitchName = "pitch"

func recorder(env Env) error {
	s := env.Session
	if _, err := s.Call(s.Root(), "title", []any{"hachi"}, nil); err != nil {
		return err
	}
	tree := widgets.VBox(
		env.named(PitchName, widgets.LabelOf("-")),
		widgets.HBox(
			widgets.ButtonOf("Record", env.Command("onRecord")),
			widgets.ButtonOf("Stop", env.Command("onStop")),
		),
		widgets.Slider{From: 0, To: 100, Options: toolkit.Opts("orient", layout.Horizontal.String())},
	)
	_, err := widgets.Mount(s, tree)
	return err
}
