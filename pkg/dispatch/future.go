package dispatch

import (
	"context"
	"sync"
)

// Future is the pending result of a dispatched operation. It is resolved
// exactly once, with a value or an error.
type Future struct {
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolve sets the result. Later calls are ignored.
func (f *Future) resolve(value any, err error) {
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.done)
	})
}

// Done is closed once the future is resolved.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Resolved reports whether the result is available.
func (f *Future) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future is resolved or ctx is done.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the result of a resolved future. ok is false while the
// future is pending.
func (f *Future) Result() (value any, err error, ok bool) {
	if !f.Resolved() {
		return nil, nil, false
	}
	return f.value, f.err, true
}
