package testing

import (
	"testing"
	"time"

	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/widgets"
)

func TestTesterClick(t *testing.T) {
	tester := mountForm(t)
	tester.Click(ByText("Save"))
	tester.Click(ByText("Save"))
	if got := tester.Clicks("onSave"); got != 2 {
		t.Errorf("onSave clicks = %d, want 2", got)
	}
	if got := tester.Clicks("onSaveAs"); got != 0 {
		t.Errorf("onSaveAs clicks = %d, want 0", got)
	}
}

func TestTesterReplays(t *testing.T) {
	for _, backend := range []string{headless.Plain, headless.Themed} {
		t.Run(backend, func(t *testing.T) {
			tester := NewTester(t, backend)
			tester.Mount(widgets.VBox(
				widgets.NamedOf(tester.Self(), "notes", widgets.Scroll{
					Orientation: layout.Both,
					Child:       widgets.TextArea{Placeholder: "..."},
				}),
				widgets.Separator{Text: "Options"},
				widgets.HBox(
					widgets.ButtonOf("OK", tester.Command("onOK")),
					widgets.Slider{From: 1, To: 5},
				),
			))
			tester.AssertReplays(tester.Code())
		})
	}
}

func TestTesterEmit(t *testing.T) {
	tester := NewTester(t, headless.Plain)
	tester.Mount(widgets.Scroll{Orientation: layout.Vertical, Child: widgets.ListBoxOf("a")})

	tester.Emit(ByClass("Scrollbar"), "scroll", 0.5)
	if got := tester.Find(ByClass("Listbox")).First().View[1]; got != 0.5 {
		t.Errorf("list view = %v, want 0.5", got)
	}
}

func TestTesterAdvance(t *testing.T) {
	tester := NewTester(t, headless.Plain)
	fired := false
	tester.Toolkit().After(10*time.Millisecond, func() { fired = true })
	tester.Advance(10 * time.Millisecond)
	if !fired {
		t.Error("timer did not fire")
	}
}
