package testing

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/replay"
	"github.com/go-drift/tracegen/pkg/toolkit"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/trace"
	"github.com/go-drift/tracegen/pkg/widgets"
)

// SelfName is the extern the tester binds its owner namespace to.
const SelfName = "self"

// Tester realizes widgets on a headless toolkit with tracing enabled. It
// binds an owner namespace as "self" and keeps the commands it hands out so
// traced code can be replayed with the same bindings.
type Tester struct {
	t        testing.TB
	backend  string
	tk       *headless.Toolkit
	session  *trace.Session
	self     registry.Handle
	ns       *trace.Namespace
	commands map[string]*toolkit.Command
	clicks   map[string]int
}

// NewTester returns a tester for the given headless backend flavour.
func NewTester(t testing.TB, backend string, opts ...trace.Option) *Tester {
	t.Helper()
	tk := headless.New(backend)
	s := trace.NewSession(tk, opts...)
	ns := trace.NewNamespace()
	self, err := s.Extern(SelfName, ns)
	if err != nil {
		t.Fatalf("binding %s: %v", SelfName, err)
	}
	return &Tester{
		t:        t,
		backend:  backend,
		tk:       tk,
		session:  s,
		self:     self,
		ns:       ns,
		commands: make(map[string]*toolkit.Command),
		clicks:   make(map[string]int),
	}
}

// Session returns the trace session.
func (t *Tester) Session() *trace.Session {
	return t.session
}

// Toolkit returns the headless toolkit.
func (t *Tester) Toolkit() *headless.Toolkit {
	return t.tk
}

// Self returns the handle of the owner namespace.
func (t *Tester) Self() registry.Handle {
	return t.self
}

// Namespace returns the owner namespace.
func (t *Tester) Namespace() *trace.Namespace {
	return t.ns
}

// Command returns the command called name, creating it on first use. Each
// run is counted; see Clicks.
func (t *Tester) Command(name string) *toolkit.Command {
	if c, ok := t.commands[name]; ok {
		return c
	}
	c := toolkit.NewCommand(name, func(...any) { t.clicks[name]++ })
	t.commands[name] = c
	return c
}

// Clicks returns how many times the named command ran.
func (t *Tester) Clicks(name string) int {
	return t.clicks[name]
}

// Mount realizes d under the root window and packs it.
func (t *Tester) Mount(d widgets.Descriptor) widgets.Widget {
	t.t.Helper()
	w, err := widgets.Mount(t.session, d)
	if err != nil {
		t.t.Fatalf("Mount: %v", err)
	}
	return w
}

// Code ends the trace session and returns its code.
func (t *Tester) Code() string {
	return t.session.Code()
}

// Widget returns the live widget of h.
func (t *Tester) Widget(h registry.Handle) *headless.Widget {
	t.t.Helper()
	obj, err := t.session.Object(h)
	if err != nil {
		t.t.Fatalf("Widget(%v): %v", h, err)
	}
	w, ok := obj.(*headless.Widget)
	if !ok {
		t.t.Fatalf("Widget(%v): %T is not a headless widget", h, obj)
	}
	return w
}

// Find evaluates a finder against the live tree.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{widgets: finder.Evaluate(t.tk.RootWidget()), finder: finder}
}

// Click invokes the command of the first widget matched by finder.
func (t *Tester) Click(finder Finder) {
	t.t.Helper()
	w := t.Find(finder).FirstOrNil()
	if w == nil {
		t.t.Fatalf("Click: no widget for %s", finder.Description())
	}
	if _, err := t.tk.Invoke(w, "invoke", nil, nil); err != nil {
		t.t.Fatalf("Click %s: %v", w.Path, err)
	}
}

// Emit raises signal on the first widget matched by finder.
func (t *Tester) Emit(finder Finder, signal string, args ...any) {
	t.t.Helper()
	w := t.Find(finder).FirstOrNil()
	if w == nil {
		t.t.Fatalf("Emit: no widget for %s", finder.Description())
	}
	if err := t.tk.Emit(w, signal, args...); err != nil {
		t.t.Fatalf("Emit %s on %s: %v", signal, w.Path, err)
	}
}

// Advance runs the toolkit's timers for d.
func (t *Tester) Advance(d time.Duration) {
	t.tk.Advance(d)
}

// Replay runs code against a fresh toolkit of the same backend, with the
// tester's commands and a new owner namespace bound, and returns that
// toolkit.
func (t *Tester) Replay(code string) (*headless.Toolkit, *trace.Namespace) {
	t.t.Helper()
	tk := headless.New(t.backend)
	ns := trace.NewNamespace()
	env := replay.Env{SelfName: ns}
	for name, c := range t.commands {
		env[name] = c
	}
	if _, err := replay.Run(tk, code, env); err != nil {
		t.t.Fatalf("Replay: %v\ncode:\n%s", err, code)
	}
	return tk, ns
}

// AssertReplays checks that replaying code builds the same live tree and
// owner attributes as the tester's toolkit.
func (t *Tester) AssertReplays(code string) {
	t.t.Helper()
	tk, ns := t.Replay(code)
	if diff := cmp.Diff(t.tk.DumpRoot(), tk.DumpRoot()); diff != "" {
		t.t.Errorf("replayed tree differs (-live +replayed):\n%s\ncode:\n%s", diff, code)
	}
	if diff := cmp.Diff(t.ns.Names(), ns.Names()); diff != "" {
		t.t.Errorf("replayed %s attributes differ (-live +replayed):\n%s", SelfName, diff)
	}
}
