package dispatch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/tracegen/pkg/toolkit"
)

const (
	timeoutPending int32 = iota
	timeoutFired
	timeoutCancelled
)

// Timeout is a cancellable deferred action.
type Timeout struct {
	sched toolkit.Scheduler
	state atomic.Int32

	mu sync.Mutex
	id toolkit.TimerID
}

// Delay runs fn on the owner goroutine after d unless cancelled first.
func Delay(sched toolkit.Scheduler, d time.Duration, fn func()) *Timeout {
	t := &Timeout{sched: sched}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.id = sched.After(d, func() {
		if t.state.CompareAndSwap(timeoutPending, timeoutFired) {
			fn()
		}
	})
	return t
}

// Cancel prevents the action from running. It reports whether it did;
// cancelling an action that already ran, or was already cancelled, is a
// no-op.
func (t *Timeout) Cancel() bool {
	if !t.state.CompareAndSwap(timeoutPending, timeoutCancelled) {
		return false
	}
	t.mu.Lock()
	id := t.id
	t.mu.Unlock()
	t.sched.CancelTimer(id)
	return true
}

// Fired reports whether the action ran.
func (t *Timeout) Fired() bool {
	return t.state.Load() == timeoutFired
}
