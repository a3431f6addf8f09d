// Package toolkit defines the capability surface tracegen expects from a UI
// toolkit: widget construction with keyword options, attribute and item
// access, method invocation, signal connection and a timer primitive.
//
// Toolkit objects are opaque. Callers never compare them by value; the trace
// layer assigns each one a registry handle at construction time.
package toolkit

import (
	"fmt"
	"time"
)

// Object is an opaque reference to a live toolkit object.
type Object any

// Info identifies a toolkit backend, e.g. {Name: "themed", Version: "v8.6.12"}.
type Info struct {
	Name    string
	Version string
}

func (i Info) String() string {
	if i.Version == "" {
		return i.Name
	}
	return i.Name + "@" + i.Version
}

// TimerID identifies a scheduled timer callback.
type TimerID int64

// Scheduler is the periodic timer primitive of a toolkit's event loop.
// Callbacks run on the goroutine that owns the event loop.
type Scheduler interface {
	// After schedules fn to run once after d.
	After(d time.Duration, fn func()) TimerID
	// CancelTimer cancels a pending timer. It reports whether the timer was
	// still pending; cancelling a fired or unknown timer is a no-op.
	CancelTimer(id TimerID) bool
}

// Toolkit is the UI toolkit collaborator.
type Toolkit interface {
	Scheduler

	// Info describes the backend.
	Info() Info
	// Root returns the toolkit's root window.
	Root() Object
	// New constructs a widget or variable of the given class under parent.
	// Backends that do not support an option fail with
	// *UnsupportedOptionError.
	New(class string, parent Object, opts Options) (Object, error)
	// Attr and SetAttr access object attributes (window title and the like).
	Attr(obj Object, name string) (any, error)
	SetAttr(obj Object, name string, value any) error
	// Item and SetItem access configuration options (obj["text"]).
	Item(obj Object, key string) (any, error)
	SetItem(obj Object, key string, value any) error
	// Invoke calls a method on obj.
	Invoke(obj Object, method string, args []any, kw Options) (any, error)
	// Connect makes signal emissions of sender call slot on receiver.
	Connect(sender Object, signal string, receiver Object, slot string) error
}

// Attributes is implemented by objects that keep their own attributes
// instead of delegating to the toolkit.
type Attributes interface {
	Attr(name string) (any, error)
	SetAttr(name string, value any) error
}

// UnsupportedOptionError is the structured signal a backend raises when a
// construction option is not supported.
type UnsupportedOptionError struct {
	Backend string
	Class   string
	Option  string
}

func (e *UnsupportedOptionError) Error() string {
	return fmt.Sprintf("%s: unknown option \"-%s\" for %s", e.Backend, e.Option, e.Class)
}

// Command is a callback passed as an option value (command=..., on click).
// Generated code refers to it by Name, which must be bound when replaying.
type Command struct {
	Name string
	Fn   func(args ...any)
}

// NewCommand returns a named command.
func NewCommand(name string, fn func(args ...any)) *Command {
	return &Command{Name: name, Fn: fn}
}

// Run calls the command's function if set.
func (c *Command) Run(args ...any) {
	if c != nil && c.Fn != nil {
		c.Fn(args...)
	}
}

func (c *Command) String() string {
	if c == nil {
		return "<nil command>"
	}
	return c.Name
}
