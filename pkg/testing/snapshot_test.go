package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/widgets"
)

func snapshotOf(t *testing.T, text string) *Snapshot {
	tester := NewTester(t, headless.Plain)
	tester.Mount(widgets.VBox(widgets.LabelOf(text)))
	return tester.CaptureSnapshot(tester.Code())
}

func TestCaptureSnapshot(t *testing.T) {
	snap := snapshotOf(t, "hello")
	if snap.Backend != headless.Plain {
		t.Errorf("backend = %q", snap.Backend)
	}
	if len(snap.Code) != 4 {
		t.Errorf("code = %q, want 4 lines", snap.Code)
	}
	if len(snap.Tree) != 3 {
		t.Errorf("tree = %q, want root, frame and label", snap.Tree)
	}
}

func TestSnapshot_Diff(t *testing.T) {
	a := snapshotOf(t, "a")
	if diff := a.Diff(snapshotOf(t, "a")); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}
	if diff := a.Diff(snapshotOf(t, "b")); diff == "" {
		t.Error("expected diff for different snapshots")
	}
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	snap := snapshotOf(t, "hello")
	path := filepath.Join(t.TempDir(), "testdata", "label.snapshot.json")

	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("snapshot file should exist after UpdateFile")
	}
	snap.MatchesFile(t, path)
}

func TestSnapshot_MatchesFile_MissingFile(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	failed := false
	sub := &fatalRecorder{name: t.Name(), onFatal: func() { failed = true }}
	snapshotOf(t, "x").MatchesFile(sub, filepath.Join(t.TempDir(), "missing.json"))
	if !failed {
		t.Error("expected MatchesFile to fail for missing file")
	}
}

func TestSnapshot_MatchesFile_Mismatch(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	path := filepath.Join(t.TempDir(), "snap.json")
	if err := snapshotOf(t, "first").UpdateFile(path); err != nil {
		t.Fatal(err)
	}

	errored := false
	sub := &errorRecorder{name: t.Name(), onError: func() { errored = true }}
	snapshotOf(t, "second").MatchesFile(sub, path)
	if !errored {
		t.Error("expected MatchesFile to report error for mismatch")
	}
}

func TestSnapshot_UpdateMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update.snapshot.json")
	t.Setenv(UpdateSnapshotsEnv, "1")
	snapshotOf(t, "x").MatchesFile(t, path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("snapshot file should be created in update mode")
	}
}

// fatalRecorder intercepts Fatalf calls for testing MatchesFile failures.
type fatalRecorder struct {
	name    string
	onFatal func()
}

func (r *fatalRecorder) Fatalf(format string, args ...any) { r.onFatal() }
func (r *fatalRecorder) Errorf(format string, args ...any) {}
func (r *fatalRecorder) Helper()                           {}
func (r *fatalRecorder) Name() string                      { return r.name }

// errorRecorder intercepts Errorf calls for testing MatchesFile mismatches.
type errorRecorder struct {
	name    string
	onError func()
}

func (r *errorRecorder) Fatalf(format string, args ...any) {}
func (r *errorRecorder) Errorf(format string, args ...any) { r.onError() }
func (r *errorRecorder) Helper()                           {}
func (r *errorRecorder) Name() string                      { return r.name }
