package widgets_test

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/tracegen/pkg/errors"
	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/trace"
	"github.com/go-drift/tracegen/pkg/widgets"
)

func setup(backend string) (*trace.Session, *headless.Toolkit) {
	tk := headless.New(backend)
	return trace.NewSession(tk), tk
}

func mount(t *testing.T, s *trace.Session, d widgets.Descriptor) widgets.Widget {
	t.Helper()
	w, err := widgets.Mount(s, d)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return w
}

func live(t *testing.T, s *trace.Session, h registry.Handle) *headless.Widget {
	t.Helper()
	obj, err := s.Object(h)
	if err != nil {
		t.Fatal(err)
	}
	return obj.(*headless.Widget)
}

func TestVBoxOfTwoButtons(t *testing.T) {
	s, tk := setup(headless.Plain)
	yes := toolkit.NewCommand("onYes", nil)
	no := toolkit.NewCommand("onNo", nil)
	mount(t, s, widgets.VBox(
		widgets.ButtonOf("Yes", yes),
		widgets.ButtonOf("No", no),
	))
	code := s.Code()

	want := strings.Join([]string{
		`vbox = Frame(root)`,
		`button = Button(vbox, text="Yes", command=onYes)`,
		`button1 = Button(vbox, text="No", command=onNo)`,
		`vbox.pack()`,
		`button.pack(side="top")`,
		`button1.pack(side="top", fill="x", pady=5)`,
	}, "\n")
	if diff := cmp.Diff(want, code); diff != "" {
		t.Errorf("code (-want +got):\n%s", diff)
	}
	if n := strings.Count(code, "Button("); n != 2 {
		t.Errorf("button constructions = %d, want 2", n)
	}
	if n := strings.Count(code, "Frame("); n != 1 {
		t.Errorf("frame constructions = %d, want 1", n)
	}

	frame := tk.RootWidget().Packed[0]
	var texts []string
	for _, c := range frame.Packed {
		v, _ := c.Option("text")
		texts = append(texts, v.(string))
	}
	if diff := cmp.Diff([]string{"Yes", "No"}, texts); diff != "" {
		t.Errorf("pack order (-want +got):\n%s", diff)
	}
}

func TestHBoxPacking(t *testing.T) {
	s, tk := setup(headless.Plain)
	mount(t, s, widgets.HBox(widgets.LabelOf("a"), widgets.LabelOf("b"), widgets.LabelOf("c")))
	frame := tk.RootWidget().Packed[0]
	got := make([]layout.PackOptions, len(frame.Packed))
	for i, c := range frame.Packed {
		got[i] = c.Pack
	}
	want := []layout.PackOptions{
		{Side: layout.SideLeft},
		{Side: layout.SideLeft, Fill: layout.FillY, PadX: 3},
		{Side: layout.SideLeft, Fill: layout.FillY, PadX: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pack options (-want +got):\n%s", diff)
	}
}

func TestComposeExplicitPadding(t *testing.T) {
	s, _ := setup(headless.Plain)
	mount(t, s, widgets.Compose(layout.Vertical, 0, widgets.LabelOf("a"), widgets.LabelOf("b")))
	if code := s.Code(); !strings.Contains(code, `text1.pack(side="top", fill="x")`) {
		t.Errorf("zero padding should be omitted:\n%s", code)
	}
}

func TestEmptyBox(t *testing.T) {
	s, tk := setup(headless.Plain)
	w := mount(t, s, widgets.VBox())
	box := w.(*widgets.BoxWidget)
	if box.FirstChild() != nil || box.LastChild() != nil || len(box.Children()) != 0 {
		t.Error("empty box has children")
	}
	if got := s.Code(); got != "vbox = Frame(root)\nvbox.pack()" {
		t.Errorf("code = %q", got)
	}
	if len(tk.RootWidget().Packed) != 1 {
		t.Error("empty box itself should be packed")
	}
}

func TestFillWrapper(t *testing.T) {
	s, _ := setup(headless.Plain)
	mount(t, s, widgets.VBox(
		widgets.LabelOf("head"),
		widgets.Filled(widgets.ListBoxOf("a")),
		widgets.Fill{Child: widgets.LabelOf("tail"), Side: layout.SideBottom, Mode: layout.FillX},
	))
	code := s.Code()
	for _, line := range []string{
		`listBox.pack(side="top", fill="both", expand=true, pady=5)`,
		`text1.pack(side="bottom", fill="x", pady=5)`,
	} {
		if !strings.Contains(code, line) {
			t.Errorf("missing %q in:\n%s", line, code)
		}
	}
}

func TestAppendAndRemoveChild(t *testing.T) {
	s, tk := setup(headless.Plain)
	box := mount(t, s, widgets.VBox(widgets.LabelOf("a"))).(*widgets.BoxWidget)

	added, err := box.AppendChild(s, widgets.LabelOf("b"))
	if err != nil {
		t.Fatal(err)
	}
	if box.LastChild() != added {
		t.Error("appended child is not last")
	}
	frame := live(t, s, box.Handle())
	if len(frame.Packed) != 2 || frame.Packed[1].Pack.PadY != 5 {
		t.Errorf("appended child not packed like a later child: %+v", frame.Packed)
	}

	err = box.RemoveChild(s, widgets.NewLeaf(registry.Handle(12345)))
	if !stderrors.Is(err, errors.ErrChildNotFound) || errors.KindOf(err) != errors.KindLayout {
		t.Errorf("RemoveChild(missing) = %v", err)
	}

	first := box.FirstChild()
	firstLive := live(t, s, first.Handle())
	if err := box.RemoveChild(s, first); err != nil {
		t.Fatal(err)
	}
	if !firstLive.Destroyed {
		t.Error("removed child not destroyed")
	}
	if len(box.Children()) != 1 || box.FirstChild() != added {
		t.Error("removed child still listed")
	}
	if len(tk.RootWidget().Packed[0].Packed) != 1 {
		t.Error("removed child still packed")
	}
}

func TestDestroyChildrenFirst(t *testing.T) {
	s, _ := setup(headless.Plain)
	box := mount(t, s, widgets.VBox(
		widgets.LabelOf("a"),
		widgets.HBox(widgets.LabelOf("b")),
	))
	frame := live(t, s, box.Handle())
	children := append([]*headless.Widget(nil), frame.Children...)
	if err := box.Destroy(s); err != nil {
		t.Fatal(err)
	}
	for _, c := range children {
		if !c.Destroyed {
			t.Errorf("%s not destroyed", c.Path)
		}
	}
	if !frame.Destroyed {
		t.Error("frame not destroyed")
	}
}

func TestDestroyOrderIsTraced(t *testing.T) {
	s, _ := setup(headless.Plain)
	w, err := widgets.VBox(widgets.LabelOf("a"), widgets.LabelOf("b")).Realize(s, s.Root())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Destroy(s); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(s.Code(), "\n")
	want := []string{"text.destroy()", "text1.destroy()", "vbox.destroy()"}
	if diff := cmp.Diff(want, lines[len(lines)-3:]); diff != "" {
		t.Errorf("destroy order (-want +got):\n%s", diff)
	}
}

func TestScrollBindsBothWays(t *testing.T) {
	s, tk := setup(headless.Plain)
	w := mount(t, s, widgets.Scroll{Orientation: layout.Both, Child: widgets.ListBoxOf("a", "b")})
	code := s.Code()
	for _, line := range []string{
		`tk.connect(listBox, "yscroll", scrollBar, "set")`,
		`tk.connect(scrollBar, "scroll", listBox, "yview_moveto")`,
		`tk.connect(listBox, "xscroll", scrollBar1, "set")`,
		`tk.connect(scrollBar1, "scroll", listBox, "xview_moveto")`,
		`scrollBar.pack(side="right", fill="y")`,
		`listBox.pack(side="left", fill="both", expand=true)`,
	} {
		if !strings.Contains(code, line) {
			t.Errorf("missing %q in:\n%s", line, code)
		}
	}

	sw := w.(*widgets.ScrollWidget)
	vbar, _ := sw.Bars()
	if err := tk.Emit(live(t, s, vbar), "scroll", 0.3); err != nil {
		t.Fatal(err)
	}
	if got := live(t, s, sw.Child().Handle()).View[1]; got != 0.3 {
		t.Errorf("list y view = %v, want 0.3", got)
	}
}

func TestNamedStoresOnOwner(t *testing.T) {
	s, _ := setup(headless.Plain)
	ns := trace.NewNamespace()
	self, err := s.Extern("self", ns)
	if err != nil {
		t.Fatal(err)
	}
	mount(t, s, widgets.VBox(
		widgets.NamedOf(self, "ta", widgets.TextArea{Placeholder: "wtf"}),
	))
	code := s.Code()
	for _, line := range []string{
		`ta = Text(vbox)`,
		`ta.insert("insert", "wtf")`,
		`self.ta = ta`,
	} {
		if !strings.Contains(code, line) {
			t.Errorf("missing %q in:\n%s", line, code)
		}
	}
	if _, err := ns.Attr("ta"); err != nil {
		t.Error(err)
	}
}

func TestVariablesInline(t *testing.T) {
	s, _ := setup(headless.Plain)
	v, err := widgets.NewVar(s, widgets.StringVar, "some")
	if err != nil {
		t.Fatal(err)
	}
	mount(t, s, widgets.Label{Var: v})
	want := "text = Label(root, textvariable=StringVar(root, value=\"some\"))\ntext.pack()"
	if diff := cmp.Diff(want, s.Code()); diff != "" {
		t.Errorf("code (-want +got):\n%s", diff)
	}
}

func TestMenuButton(t *testing.T) {
	s, _ := setup(headless.Plain)
	b, _ := widgets.NewVar(s, widgets.BooleanVar, nil)
	mount(t, s, widgets.MenuButton{
		Text: "kind",
		Menu: widgets.MenuOf(
			widgets.MenuCheck{Label: "wtf", Var: b},
			widgets.MenuSeparator{},
			widgets.SubMenu{Label: "Help", Items: []widgets.MenuItem{
				widgets.MenuCommand{Label: "About", Command: toolkit.NewCommand("about", nil)},
			}},
		),
	})
	want := strings.Join([]string{
		`booleanVar = BooleanVar(root)`,
		`menuButton = Menubutton(root, text="kind")`,
		`menu = Menu(menuButton, tearoff=false)`,
		`menu.add_checkbutton(label="wtf", variable=booleanVar)`,
		`menu.add_separator()`,
		`menu1 = Menu(menu, tearoff=false)`,
		`menu1.add_command(label="About", command=about)`,
		`menu.add_cascade(label="Help", menu=menu1)`,
		`menuButton["menu"] = menu`,
		`menuButton.pack()`,
	}, "\n")
	if diff := cmp.Diff(want, s.Code()); diff != "" {
		t.Errorf("code (-want +got):\n%s", diff)
	}
}

func TestSeparatorOnThemedBackend(t *testing.T) {
	s, _ := setup(headless.Themed)
	mount(t, s, widgets.VBox(widgets.LabelOf("a"), widgets.Separator{}))
	code := s.Code()
	if !strings.Contains(code, `separator = Frame(vbox, height=2, borderwidth=1, relief="flat")`) {
		t.Errorf("separator options not rescued:\n%s", code)
	}
	if !strings.Contains(code, `separator.pack(side="top", fill="x", pady=5)`) {
		t.Errorf("separator fill not applied:\n%s", code)
	}
}

func TestSplitterPanes(t *testing.T) {
	s, _ := setup(headless.Plain)
	w := mount(t, s, widgets.Filled(widgets.SplitterOf(layout.Horizontal,
		widgets.LabelOf("left pane"),
		widgets.VBox(widgets.LabelOf("top"), widgets.LabelOf("bottom")),
	)))
	paned := live(t, s, w.Handle())
	if len(paned.Panes) != 2 {
		t.Fatalf("panes = %d, want 2", len(paned.Panes))
	}
	if len(paned.Panes[1].Packed) != 2 {
		t.Error("box pane contents not packed")
	}
	if paned.Panes[1].IsPacked() {
		t.Error("pane should be managed by the paned window, not packed")
	}
}

func TestListBoxAndInput(t *testing.T) {
	s, _ := setup(headless.Plain)
	w := mount(t, s, widgets.VBox(widgets.ListBoxOf("1", "2"), widgets.Input{Placeholder: "hel"}))
	box := w.(*widgets.BoxWidget)
	list := live(t, s, box.FirstChild().Handle())
	input := live(t, s, box.LastChild().Handle())
	if diff := cmp.Diff([]string{"1", "2"}, list.Content); diff != "" {
		t.Errorf("list (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hel"}, input.Content); diff != "" {
		t.Errorf("input (-want +got):\n%s", diff)
	}
}
