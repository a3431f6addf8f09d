// Package headless is an in-memory implementation of toolkit.Toolkit.
//
// It keeps a widget tree with options, packing lists, list/text contents,
// menu entries and signal connections, computes pack geometry with a fixed
// bitmap font, and runs timers from a manually advanced clock. Two backend
// flavours are provided: Plain accepts every option, Themed rejects classic
// styling options with *toolkit.UnsupportedOptionError the way themed widget
// sets do.
//
// A Toolkit is meant to be driven from one goroutine, except for timer
// scheduling and cancellation which are safe for concurrent use.
package headless

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/colornames"

	"github.com/go-drift/tracegen/pkg/layout"
	"github.com/go-drift/tracegen/pkg/toolkit"
)

// Widget is a live headless object: a widget, the root window, or a variable.
type Widget struct {
	Class    string
	Path     string
	Parent   *Widget
	Children []*Widget

	Options toolkit.Options
	Attrs   map[string]any

	// Packed lists the children managed by the packer, in packing order.
	Packed []*Widget
	Pack   layout.PackOptions
	packed bool

	// Content holds list items, text or entry characters.
	Content []string
	// Entries holds menu entries; each starts with a "type" option.
	Entries []toolkit.Options
	// Panes holds children added to a paned window.
	Panes []*Widget
	// Value is the value of a variable, or the last set() of a scrollbar.
	Value any
	// View is the view offset set through xview_moveto/yview_moveto.
	View [2]float64

	Destroyed bool

	counters map[string]int
}

func (w *Widget) String() string {
	if w == nil {
		return "<nil widget>"
	}
	return w.Path
}

// IsPacked reports whether the widget is currently managed by the packer.
func (w *Widget) IsPacked() bool {
	return w.packed
}

// Option returns a configuration option.
func (w *Widget) Option(name string) (any, bool) {
	return w.Options.Get(name)
}

type connection struct {
	receiver *Widget
	slot     string
}

// Toolkit is the headless toolkit.
type Toolkit struct {
	info    toolkit.Info
	root    *Widget
	signals map[*Widget]map[string][]connection

	clock  *Clock
	timerM sync.Mutex
	timers map[toolkit.TimerID]*timer
	nextID toolkit.TimerID
	seq    int64
}

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithVersion sets the backend version reported by Info.
func WithVersion(v string) Option {
	return func(t *Toolkit) { t.info.Version = v }
}

// WithClock makes the toolkit's timers run from c.
func WithClock(c *Clock) Option {
	return func(t *Toolkit) { t.clock = c }
}

// New returns a headless toolkit for the given backend flavour.
func New(backend string, opts ...Option) *Toolkit {
	t := &Toolkit{
		info:    toolkit.Info{Name: backend, Version: "v8.6.12"},
		signals: make(map[*Widget]map[string][]connection),
		timers:  make(map[toolkit.TimerID]*timer),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.clock == nil {
		t.clock = NewClock()
	}
	t.root = &Widget{Class: "Tk", Path: ".", Attrs: map[string]any{}, counters: map[string]int{}}
	return t
}

// Info implements toolkit.Toolkit.
func (t *Toolkit) Info() toolkit.Info {
	return t.info
}

// Root implements toolkit.Toolkit.
func (t *Toolkit) Root() toolkit.Object {
	return t.root
}

// RootWidget returns the root window.
func (t *Toolkit) RootWidget() *Widget {
	return t.root
}

// Clock returns the clock driving the toolkit's timers.
func (t *Toolkit) Clock() *Clock {
	return t.clock
}

// New implements toolkit.Toolkit.
func (t *Toolkit) New(class string, parent toolkit.Object, opts toolkit.Options) (toolkit.Object, error) {
	spec, ok := classes[class]
	if !ok {
		return nil, fmt.Errorf("headless: unknown class %q", class)
	}
	p, err := t.widget(parent)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if !spec.supports(t.info.Name, opt.Name) {
			return nil, &toolkit.UnsupportedOptionError{Backend: t.info.Name, Class: class, Option: opt.Name}
		}
		if err := checkValue(opt); err != nil {
			return nil, err
		}
	}

	w := &Widget{
		Class:    class,
		Parent:   p,
		Attrs:    map[string]any{},
		counters: map[string]int{},
	}
	lower := strings.ToLower(class)
	p.counters[lower]++
	w.Path = childPath(p.Path, lower, p.counters[lower])

	if !spec.widget {
		if v, ok := opts.Get("value"); ok {
			w.Value = v
		} else {
			w.Value = zeroValue(class)
		}
		opts = opts.Without("value")
	}
	w.Options = opts.Clone()
	p.Children = append(p.Children, w)
	return w, nil
}

func childPath(parent, class string, n int) string {
	name := "!" + class
	if n > 1 {
		name = fmt.Sprintf("!%s%d", class, n)
	}
	if parent == "." {
		return "." + name
	}
	return parent + "." + name
}

func zeroValue(class string) any {
	switch class {
	case "BooleanVar":
		return false
	case "IntVar":
		return 0
	case "DoubleVar":
		return 0.0
	default:
		return ""
	}
}

func checkValue(opt toolkit.Option) error {
	for _, name := range colourOptions {
		if opt.Name != name {
			continue
		}
		s, ok := opt.Value.(string)
		if !ok {
			return fmt.Errorf("headless: %s must be a colour name, got %T", opt.Name, opt.Value)
		}
		if !validColour(s) {
			return fmt.Errorf("headless: unknown color name %q", s)
		}
	}
	return nil
}

func validColour(s string) bool {
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 3 && len(hex) != 6 && len(hex) != 12 {
			return false
		}
		for _, c := range hex {
			if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
				return false
			}
		}
		return true
	}
	_, ok := colornames.Map[strings.ToLower(s)]
	return ok
}

func (t *Toolkit) widget(obj toolkit.Object) (*Widget, error) {
	if obj == nil {
		return t.root, nil
	}
	w, ok := obj.(*Widget)
	if !ok {
		return nil, fmt.Errorf("headless: %T is not a headless object", obj)
	}
	if w.Destroyed {
		return nil, fmt.Errorf("headless: %s has been destroyed", w.Path)
	}
	return w, nil
}

// Attr implements toolkit.Toolkit.
func (t *Toolkit) Attr(obj toolkit.Object, name string) (any, error) {
	w, err := t.widget(obj)
	if err != nil {
		return nil, err
	}
	v, ok := w.Attrs[name]
	if !ok {
		return nil, fmt.Errorf("headless: %s has no attribute %q", w.Path, name)
	}
	return v, nil
}

// SetAttr implements toolkit.Toolkit.
func (t *Toolkit) SetAttr(obj toolkit.Object, name string, value any) error {
	w, err := t.widget(obj)
	if err != nil {
		return err
	}
	w.Attrs[name] = value
	return nil
}

// Item implements toolkit.Toolkit.
func (t *Toolkit) Item(obj toolkit.Object, key string) (any, error) {
	w, err := t.widget(obj)
	if err != nil {
		return nil, err
	}
	v, ok := w.Options.Get(key)
	if !ok {
		return nil, fmt.Errorf("headless: %s: unknown option \"-%s\"", w.Path, key)
	}
	return v, nil
}

// SetItem implements toolkit.Toolkit.
func (t *Toolkit) SetItem(obj toolkit.Object, key string, value any) error {
	w, err := t.widget(obj)
	if err != nil {
		return err
	}
	opt := toolkit.Option{Name: key, Value: value}
	if !classes[w.Class].supports(t.info.Name, key) {
		return &toolkit.UnsupportedOptionError{Backend: t.info.Name, Class: w.Class, Option: key}
	}
	if err := checkValue(opt); err != nil {
		return err
	}
	w.Options = w.Options.With(key, value)
	return nil
}

// Connect implements toolkit.Toolkit.
func (t *Toolkit) Connect(sender toolkit.Object, signal string, receiver toolkit.Object, slot string) error {
	s, err := t.widget(sender)
	if err != nil {
		return err
	}
	r, err := t.widget(receiver)
	if err != nil {
		return err
	}
	bySignal := t.signals[s]
	if bySignal == nil {
		bySignal = make(map[string][]connection)
		t.signals[s] = bySignal
	}
	bySignal[signal] = append(bySignal[signal], connection{receiver: r, slot: slot})
	return nil
}

// Emit delivers a signal from sender to every connected slot, in connection
// order.
func (t *Toolkit) Emit(sender *Widget, signal string, args ...any) error {
	for _, c := range t.signals[sender][signal] {
		if c.receiver.Destroyed {
			continue
		}
		if _, err := t.Invoke(c.receiver, c.slot, args, nil); err != nil {
			return err
		}
	}
	return nil
}

// Connections returns "signal->receiver.slot" strings for sender, for tests
// and dumps.
func (t *Toolkit) Connections(sender *Widget) []string {
	var out []string
	for signal, conns := range t.signals[sender] {
		for _, c := range conns {
			out = append(out, fmt.Sprintf("%s->%s.%s", signal, c.receiver.Path, c.slot))
		}
	}
	slices.Sort(out)
	return out
}

func (t *Toolkit) now() time.Duration {
	return t.clock.Elapsed()
}
