package headless

import (
	stderrors "errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/tracegen/pkg/toolkit"
)

func mustNew(t *testing.T, tk *Toolkit, class string, parent toolkit.Object, opts toolkit.Options) *Widget {
	t.Helper()
	obj, err := tk.New(class, parent, opts)
	if err != nil {
		t.Fatalf("New(%s): %v", class, err)
	}
	return obj.(*Widget)
}

func TestThemedRejectsClassicOptions(t *testing.T) {
	tk := New(Themed)
	_, err := tk.New("Button", nil, toolkit.Opts("text", "Yes", "relief", "raised"))
	var unsupported *toolkit.UnsupportedOptionError
	if !stderrors.As(err, &unsupported) {
		t.Fatalf("err = %v, want *UnsupportedOptionError", err)
	}
	if unsupported.Option != "relief" || unsupported.Class != "Button" {
		t.Errorf("unsupported = %+v", unsupported)
	}

	plain := New(Plain)
	if _, err := plain.New("Button", nil, toolkit.Opts("text", "Yes", "relief", "raised")); err != nil {
		t.Errorf("plain backend rejected relief: %v", err)
	}
}

func TestUnknownColourIsNotACapabilityError(t *testing.T) {
	tk := New(Plain)
	_, err := tk.New("Frame", nil, toolkit.Opts("bg", "notacolour"))
	if err == nil {
		t.Fatal("expected error for unknown colour")
	}
	var unsupported *toolkit.UnsupportedOptionError
	if stderrors.As(err, &unsupported) {
		t.Errorf("colour error should not be an unsupported option signal: %v", err)
	}
	if _, err := tk.New("Frame", nil, toolkit.Opts("bg", "white", "fg", "#ff0000")); err != nil {
		t.Errorf("valid colours rejected: %v", err)
	}
}

func TestPathsAndPacking(t *testing.T) {
	tk := New(Plain)
	frame := mustNew(t, tk, "Frame", nil, nil)
	yes := mustNew(t, tk, "Button", frame, toolkit.Opts("text", "Yes"))
	no := mustNew(t, tk, "Button", frame, toolkit.Opts("text", "No"))

	if yes.Path != ".!frame.!button" || no.Path != ".!frame.!button2" {
		t.Errorf("paths = %s, %s", yes.Path, no.Path)
	}
	for _, w := range []*Widget{frame, yes} {
		if _, err := tk.Invoke(w, "pack", nil, toolkit.Opts("side", "top")); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := tk.Invoke(no, "pack", nil, toolkit.Opts("side", "top", "fill", "x", "pady", 5)); err != nil {
		t.Fatal(err)
	}

	geo := tk.Geometry(frame)
	if geo[yes].Y >= geo[no].Y {
		t.Errorf("Yes (%v) should be above No (%v)", geo[yes], geo[no])
	}
	if geo[no].Width != tk.RequestSize(frame).Width {
		t.Errorf("No should fill x: %v vs frame %v", geo[no], tk.RequestSize(frame))
	}

	if _, err := tk.Invoke(yes, "pack_forget", nil, nil); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal([]*Widget{no}, frame.Packed) {
		t.Errorf("Packed after forget = %v, want [%v]", frame.Packed, no)
	}
	if yes.IsPacked() {
		t.Error("forgotten button still reports packed")
	}
}

func TestDestroyRemovesSubtree(t *testing.T) {
	tk := New(Plain)
	frame := mustNew(t, tk, "Frame", nil, nil)
	child := mustNew(t, tk, "Label", frame, toolkit.Opts("text", "x"))
	for _, method := range []string{"pack", "destroy"} {
		if _, err := tk.Invoke(frame, method, nil, nil); err != nil {
			t.Fatalf("%s: %v", method, err)
		}
	}
	if !child.Destroyed || !frame.Destroyed {
		t.Error("destroy did not mark subtree")
	}
	if len(tk.RootWidget().Children) != 0 || len(tk.RootWidget().Packed) != 0 {
		t.Error("destroyed frame still attached to root")
	}
	if _, err := tk.New("Label", frame, nil); err == nil {
		t.Error("constructing under a destroyed parent should fail")
	}
}

func TestContentEditing(t *testing.T) {
	tk := New(Plain)
	lb := mustNew(t, tk, "Listbox", nil, nil)
	for i, s := range []string{"a", "b", "c"} {
		tk.Invoke(lb, "insert", []any{i, s}, nil)
	}
	tk.Invoke(lb, "delete", []any{0, 1}, nil)
	tk.Invoke(lb, "insert", []any{"end", "d"}, nil)
	if diff := cmp.Diff([]string{"b", "c", "d"}, lb.Content); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
}

func TestVariables(t *testing.T) {
	tk := New(Plain)
	v := mustNew(t, tk, "StringVar", nil, toolkit.Opts("value", "some"))
	if got, _ := tk.Invoke(v, "get", nil, nil); got != "some" {
		t.Errorf("get = %v, want some", got)
	}
	b := mustNew(t, tk, "BooleanVar", nil, nil)
	if got, _ := tk.Invoke(b, "get", nil, nil); got != false {
		t.Errorf("BooleanVar zero = %v", got)
	}
	if _, err := tk.Invoke(v, "pack", nil, nil); err == nil {
		t.Error("variables cannot be packed")
	}
}

func TestSignals(t *testing.T) {
	tk := New(Plain)
	list := mustNew(t, tk, "Listbox", nil, nil)
	bar := mustNew(t, tk, "Scrollbar", nil, toolkit.Opts("orient", "vertical"))
	tk.Connect(list, "yscroll", bar, "set")
	tk.Connect(bar, "scroll", list, "yview_moveto")

	if err := tk.Emit(bar, "scroll", 0.25); err != nil {
		t.Fatal(err)
	}
	if list.View[1] != 0.25 {
		t.Errorf("list view = %v, want y=0.25", list.View)
	}
	if diff := cmp.Diff([]any{0.25, 0.75}, bar.Value); diff != "" {
		t.Errorf("bar set (-want +got):\n%s", diff)
	}
}

func TestTimers(t *testing.T) {
	tk := New(Plain)
	var fired []string
	tk.After(20*time.Millisecond, func() { fired = append(fired, "b") })
	tk.After(10*time.Millisecond, func() {
		fired = append(fired, "a")
		tk.After(5*time.Millisecond, func() { fired = append(fired, "a2") })
	})
	cancelled := tk.After(15*time.Millisecond, func() { fired = append(fired, "x") })
	if !tk.CancelTimer(cancelled) {
		t.Error("CancelTimer on pending timer = false")
	}

	tk.Advance(30 * time.Millisecond)
	if diff := cmp.Diff([]string{"a", "a2", "b"}, fired); diff != "" {
		t.Errorf("fired (-want +got):\n%s", diff)
	}
	if tk.CancelTimer(cancelled) {
		t.Error("second CancelTimer should be a no-op")
	}
	if tk.Clock().Elapsed() != 30*time.Millisecond {
		t.Errorf("clock = %v", tk.Clock().Elapsed())
	}
}

func TestMenuEntriesAndDump(t *testing.T) {
	tk := New(Plain)
	menu := mustNew(t, tk, "Menu", nil, toolkit.Opts("tearoff", false))
	tk.Invoke(menu, "add_command", nil, toolkit.Opts("label", "New", "command", toolkit.NewCommand("onNew", nil)))
	tk.Invoke(menu, "add_separator", nil, nil)
	out := tk.DumpRoot()
	want := `. Tk
  .!menu Menu tearoff=false entry(type="command" label="New" command=onNew) entry(type="separator")
`
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("dump (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, "onNew") {
		t.Error("command not rendered by name")
	}
}
