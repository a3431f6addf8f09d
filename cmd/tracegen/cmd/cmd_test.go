package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/tracegen/pkg/replay"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/trace"
	"github.com/go-drift/tracegen/pkg/widgets"
)

func TestParseHeaderOfRenderedProgram(t *testing.T) {
	tk := headless.New(headless.Plain)
	s := trace.NewSession(tk)
	if _, err := s.Extern("self", trace.NewNamespace()); err != nil {
		t.Fatal(err)
	}
	quit := toolkit.NewCommand("quit", func(...any) {})
	if _, err := widgets.Mount(s, widgets.ButtonOf("Quit", quit)); err != nil {
		t.Fatal(err)
	}
	src, err := trace.Render(s.Program("ui"))
	if err != nil {
		t.Fatal(err)
	}

	h := parseHeader(src)
	if h.backend != headless.Plain {
		t.Errorf("backend = %q, want %q", h.backend, headless.Plain)
	}
	want := []string{"quit", "root", "self", "tk"}
	if diff := cmp.Diff(want, h.externs); diff != "" {
		t.Errorf("externs mismatch (-want +got):\n%s", diff)
	}

	env := bindings(h.externs)
	if _, ok := env["root"]; ok {
		t.Error("root should be bound by the interpreter, not the header")
	}
	if _, ok := env["quit"].(*toolkit.Command); !ok {
		t.Errorf("quit bound to %T, want *toolkit.Command", env["quit"])
	}

	replayed := headless.New(h.backend)
	if _, err := replay.Run(replayed, src, env); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if diff := cmp.Diff(tk.DumpRoot(), replayed.DumpRoot()); diff != "" {
		t.Errorf("tree mismatch (-live +replayed):\n%s", diff)
	}
}

func TestParseHeaderStopsAtCode(t *testing.T) {
	h := parseHeader("x = Frame(root)\n// externs: later\n")
	if h.externs != nil || h.backend != "" {
		t.Errorf("got %+v, want empty header", h)
	}
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		args    []string
		rest    []string
		out     string
		wantErr bool
	}{
		{args: []string{"hello"}, rest: []string{"hello"}},
		{args: []string{"hello", "-o", "ui.tg"}, rest: []string{"hello"}, out: "ui.tg"},
		{args: []string{"--out=ui.tg"}, out: "ui.tg"},
		{args: []string{"-o"}, wantErr: true},
		{args: []string{"--bogus"}, wantErr: true},
	}
	for _, tt := range tests {
		rest, out, err := parseOutput(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseOutput(%q) err = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if diff := cmp.Diff(tt.rest, rest); diff != "" || out != tt.out {
			t.Errorf("parseOutput(%q) = %q, %q; want %q, %q", tt.args, rest, out, tt.rest, tt.out)
		}
	}
}
