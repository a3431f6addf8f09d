package demo

import (
	"context"
	"strings"
	"testing"
	"time"

	tracetest "github.com/go-drift/tracegen/pkg/testing"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/trace"
)

func newTester(t *testing.T, backend string) (*tracetest.Tester, Env) {
	tester := tracetest.NewTester(t, backend, trace.WithTable(Table()))
	return tester, NewEnv(tester.Session(), tester.Self(), tester.Command)
}

func TestDemosReplay(t *testing.T) {
	for _, d := range All() {
		for _, backend := range []string{headless.Plain, headless.Themed} {
			t.Run(d.Name+"/"+backend, func(t *testing.T) {
				tester, env := newTester(t, backend)
				if err := d.Build(env); err != nil {
					t.Fatalf("Build: %v", err)
				}
				tester.AssertReplays(tester.Code())
			})
		}
	}
}

func TestLookup(t *testing.T) {
	d, err := Lookup("split")
	if err != nil || d.Name != "split" {
		t.Errorf("Lookup(split) = %v, %v", d.Name, err)
	}
	if _, err := Lookup("nope"); err == nil || !strings.Contains(err.Error(), "gallery") {
		t.Errorf("Lookup(nope) err = %v, want the list of demos", err)
	}
}

func TestGalleryDropsReliefOnThemed(t *testing.T) {
	tester, env := newTester(t, headless.Themed)
	if err := gallery(env); err != nil {
		t.Fatal(err)
	}
	mb := tester.Find(tracetest.ByClass("Menubutton")).First()
	if _, ok := mb.Option("relief"); ok {
		t.Error("relief reached the themed menu button")
	}
	code := tester.Code()
	if !strings.Contains(code, `menuButton = Menubutton(vbox, text="kind")`) {
		t.Errorf("menu button construction not traced with effective options:\n%s", code)
	}
	if !strings.Contains(code, "// bind the free-standing bars to the list") {
		t.Errorf("comment missing:\n%s", code)
	}
}

func TestGalleryBindsFreeBars(t *testing.T) {
	tester, env := newTester(t, headless.Plain)
	if err := gallery(env); err != nil {
		t.Fatal(err)
	}
	tester.Emit(tracetest.ByPath(tester.Widget(env.Handles["sbar"]).Path), "scroll", 0.25)
	lbox := tester.Widget(env.Handles["lbox"])
	if lbox.View[1] != 0.25 {
		t.Errorf("list view = %v, want y=0.25", lbox.View)
	}
}

func TestFeed(t *testing.T) {
	tester, env := newTester(t, headless.Plain)
	if err := recorder(env); err != nil {
		t.Fatal(err)
	}
	pitch := env.Handles[PitchName]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	values := []string{"C4", "D4", "E4"}
	if err := Feed(ctx, tester.Toolkit(), tester.Session(), pitch, values, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if got, _ := tester.Widget(pitch).Option("text"); got != "E4" {
		t.Errorf("pitch text = %v, want E4", got)
	}

	code := tester.Code()
	want := `pitch["text"] = "C4"` + "\n" + `pitch["text"] = "D4"` + "\n" + `pitch["text"] = "E4"`
	if !strings.Contains(code, want) {
		t.Errorf("code does not end with the fed values in order:\n%s", code)
	}
	tester.AssertReplays(code)
}

