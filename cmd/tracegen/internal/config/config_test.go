package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/tracegen/pkg/dispatch"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/tools/pitchui/v2\n\ngo 1.24\n")

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := &Resolved{
		Root:        dir,
		ModulePath:  "example.com/tools/pitchui/v2",
		ProgramName: "pitchui",
		Backend:     headless.Themed,
		Poll:        dispatch.DefaultInterval,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Resolve (-want +got):\n%s", diff)
	}
}

func TestResolveWithoutModule(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sketch")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ProgramName != "sketch" || cfg.ModulePath != "" {
		t.Errorf("got name %q module %q", cfg.ProgramName, cfg.ModulePath)
	}
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "caps.yaml", "backends:\n  plain:\n    rescue:\n      - option: bg\n        action: drop\n")
	writeFile(t, dir, FileName, `program:
  name: recorder
backend:
  name: plain
  version: v8.5.0
capabilities: caps.yaml
names:
  button: btn
externs: [self, onRecord]
poll: 20ms
`)
	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ProgramName != "recorder" || cfg.Backend != headless.Plain || cfg.BackendVersion != "v8.5.0" {
		t.Errorf("program/backend = %q %q %q", cfg.ProgramName, cfg.Backend, cfg.BackendVersion)
	}
	if cfg.Poll != 20*time.Millisecond {
		t.Errorf("poll = %v", cfg.Poll)
	}
	if diff := cmp.Diff(map[string]string{"button": "btn"}, cfg.Names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if cfg.Table == nil {
		t.Fatal("capability table not loaded")
	}
	if _, ok := cfg.Table.Backend("plain").Rule("bg", "v8.5.0"); !ok {
		t.Error("bg rule missing from loaded table")
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "backend:\n  name: qt\n"},
		{"bad version", "backend:\n  version: 8.6\n"},
		{"bad poll", "poll: soon\n"},
		{"negative poll", "poll: -1s\n"},
		{"bad extern", "externs: [\"on click\"]\n"},
		{"bad name", "names:\n  button: ok button\n"},
		{"missing table", "capabilities: nope.yaml\n"},
		{"bad yaml", "program: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.yaml)
			if _, err := Resolve(dir); err == nil {
				t.Error("Resolve succeeded")
			}
		})
	}
}
