package testing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/widgets"
)

func mountForm(t *testing.T) *Tester {
	tester := NewTester(t, headless.Plain)
	tester.Mount(widgets.VBox(
		widgets.LabelOf("Name"),
		widgets.HBox(
			widgets.ButtonOf("Save", tester.Command("onSave")),
			widgets.ButtonOf("Save as", tester.Command("onSaveAs")),
		),
		widgets.ListBoxOf("a", "b"),
	))
	return tester
}

func TestFinders(t *testing.T) {
	tester := mountForm(t)

	if got := tester.Find(ByClass("Button")).Count(); got != 2 {
		t.Errorf("ByClass(Button) count = %d, want 2", got)
	}
	if w := tester.Find(ByText("Save")).First(); w.Path != ".!frame.!frame.!button" {
		t.Errorf("ByText(Save) = %s", w.Path)
	}
	if diff := cmp.Diff([]string{".!frame.!frame.!button", ".!frame.!frame.!button2"}, tester.Find(ByTextContaining("Save")).Paths()); diff != "" {
		t.Errorf("ByTextContaining (-want +got):\n%s", diff)
	}
	if !tester.Find(ByOption("selectmode", "browse")).Exists() {
		t.Error("ByOption(selectmode) found nothing")
	}
	if tester.Find(ByText("missing")).FirstOrNil() != nil {
		t.Error("ByText(missing) matched")
	}

	inner := Descendant(ByPath(".!frame.!frame"), ByClass("Button"))
	if got := tester.Find(inner).Count(); got != 2 {
		t.Errorf("Descendant count = %d, want 2", got)
	}
	if got := tester.Find(Descendant(ByClass("Listbox"), ByClass("Button"))).Count(); got != 0 {
		t.Errorf("Descendant of a leaf count = %d, want 0", got)
	}
}

func TestFirstPanicsWithoutMatch(t *testing.T) {
	tester := mountForm(t)
	defer func() {
		if recover() == nil {
			t.Error("First on an empty result did not panic")
		}
	}()
	tester.Find(ByClass("Canvas")).First()
}
