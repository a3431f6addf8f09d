// Package errors provides structured error handling for tracegen.
//
// Errors produced by the registry, the capability shim, the trace session and
// the dispatch queue are classified by [Kind] and wrapped in [TraceError] so
// callers can match on the sentinel values with the standard errors.Is.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindCapability indicates a backend rejected a construction option.
	KindCapability
	// KindUnresolved indicates a handle or value that was never registered.
	KindUnresolved
	// KindNameSpace indicates the name suffix search ran out of candidates.
	KindNameSpace
	// KindDispatch indicates a cross-goroutine dispatch failure.
	KindDispatch
	// KindLayout indicates a layout container misuse.
	KindLayout
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindReplay indicates a failure while parsing or executing generated code.
	KindReplay
)

func (k Kind) String() string {
	switch k {
	case KindCapability:
		return "capability"
	case KindUnresolved:
		return "unresolved"
	case KindNameSpace:
		return "namespace"
	case KindDispatch:
		return "dispatch"
	case KindLayout:
		return "layout"
	case KindPanic:
		return "panic"
	case KindReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per [Kind] that callers are expected to match.
var (
	// ErrCapabilityMismatch is matched by errors raised when a backend does not
	// support a construction option and no rescue could be applied.
	ErrCapabilityMismatch = stderrors.New("capability mismatch")

	// ErrUnresolvedReference is matched when a handle is queried but was never
	// registered in the current session or arena.
	ErrUnresolvedReference = stderrors.New("unresolved reference")

	// ErrNameSpaceExhausted is matched when no free name could be derived.
	ErrNameSpaceExhausted = stderrors.New("name space exhausted")

	// ErrDispatchNotReady is returned when an operation is dispatched from a
	// foreign goroutine before the poll loop started.
	ErrDispatchNotReady = stderrors.New("dispatch: poll loop not started")

	// ErrChildNotFound is returned when removing a child that is not in the
	// container's list.
	ErrChildNotFound = stderrors.New("child not found")
)

// TraceError represents a structured error raised by a tracegen component.
type TraceError struct {
	// Op is the operation that failed (e.g., "registry.Register").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// New returns a TraceError for op wrapping err.
func New(op string, kind Kind, err error) *TraceError {
	return &TraceError{Op: op, Kind: kind, Err: err}
}

// Errorf returns a TraceError for op whose underlying error is built from
// format. Use %w to keep a sentinel matchable.
func Errorf(op string, kind Kind, format string, args ...any) *TraceError {
	return &TraceError{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *TraceError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *TraceError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first TraceError in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var te *TraceError
	if stderrors.As(err, &te) {
		return te.Kind
	}
	var pe *PanicError
	if stderrors.As(err, &pe) {
		return KindPanic
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "dispatch.drain").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by tracegen components.
type ErrorHandler interface {
	// HandleError is called when an error is reported.
	HandleError(err *TraceError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
