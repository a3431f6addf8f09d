// Package testing provides a harness for tests that realize widgets against
// the headless toolkit and check the code they trace.
//
// # Quick Start
//
//	func TestForm(t *testing.T) {
//	    tester := tracetest.NewTester(t, headless.Plain)
//	    onSave := tester.Command("onSave")
//	    tester.Mount(widgets.VBox(widgets.ButtonOf("Save", onSave)))
//
//	    tester.Click(tracetest.ByText("Save"))
//	    code := tester.Code()
//	    tester.AssertReplays(code)
//	}
//
// # Snapshot Testing
//
// Capture the live tree together with the traced code and compare it with a
// golden file:
//
//	tester.CaptureSnapshot(code).MatchesFile(t, "testdata/form.snapshot.json")
//
// Update snapshots with:
//
//	TRACEGEN_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Timers
//
// The headless toolkit runs timers from a manual clock:
//
//	tester.Advance(100 * time.Millisecond)
//
// [FakeClock] is a standalone scheduler for code that only needs timers.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import tracetest "github.com/go-drift/tracegen/pkg/testing"
package testing
