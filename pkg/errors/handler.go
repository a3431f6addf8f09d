package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives every reported error and recovered panic.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler replaces the global handler. nil restores a LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	DefaultHandler = h
	handlerMu.Unlock()
}

func handler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report passes err to the global handler, stamping it if needed.
func Report(err *TraceError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	handler().HandleError(err)
}

// ReportPanic passes err to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	handler().HandlePanic(err)
}

// RecoverError must be deferred directly. A panic in the deferring function
// is reported and stored in *errp as a *PanicError, turning the panicking
// operation into a failed one.
func RecoverError(op string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	pe := &PanicError{Op: op, Value: r, StackTrace: CaptureStack(), Timestamp: time.Now()}
	ReportPanic(pe)
	if errp != nil {
		*errp = pe
	}
}

// CaptureStack formats the stack of its caller's caller, one frame per
// "function\n\tfile:line" pair.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			return sb.String()
		}
	}
}
