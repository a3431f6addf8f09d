package headless

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-drift/tracegen/pkg/toolkit"
)

// Clock is controllable time for timer callbacks. All methods are safe for
// concurrent use.
type Clock struct {
	mu      sync.Mutex
	elapsed time.Duration
}

// NewClock returns a clock at zero.
func NewClock() *Clock {
	return &Clock{}
}

// Elapsed returns the time since the clock started.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func (c *Clock) set(d time.Duration) {
	c.mu.Lock()
	c.elapsed = d
	c.mu.Unlock()
}

type timer struct {
	id  toolkit.TimerID
	due time.Duration
	seq int64
	fn  func()
}

// After implements toolkit.Scheduler.
func (t *Toolkit) After(d time.Duration, fn func()) toolkit.TimerID {
	t.timerM.Lock()
	defer t.timerM.Unlock()
	t.nextID++
	t.seq++
	t.timers[t.nextID] = &timer{id: t.nextID, due: t.now() + max(d, 0), seq: t.seq, fn: fn}
	return t.nextID
}

// CancelTimer implements toolkit.Scheduler.
func (t *Toolkit) CancelTimer(id toolkit.TimerID) bool {
	t.timerM.Lock()
	defer t.timerM.Unlock()
	if _, ok := t.timers[id]; !ok {
		return false
	}
	delete(t.timers, id)
	return true
}

// PendingTimers returns the number of scheduled timers.
func (t *Toolkit) PendingTimers() int {
	t.timerM.Lock()
	defer t.timerM.Unlock()
	return len(t.timers)
}

// Advance moves the clock forward by d, running every timer that falls due,
// in due order, on the calling goroutine. Timers scheduled by callbacks run
// too if they fall due within the window.
func (t *Toolkit) Advance(d time.Duration) {
	end := t.now() + d
	for {
		next := t.popDue(end)
		if next == nil {
			break
		}
		t.clock.set(next.due)
		next.fn()
	}
	t.clock.set(end)
}

func (t *Toolkit) popDue(end time.Duration) *timer {
	t.timerM.Lock()
	defer t.timerM.Unlock()
	var due []*timer
	for _, tm := range t.timers {
		if tm.due <= end {
			due = append(due, tm)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	delete(t.timers, due[0].id)
	return due[0]
}

// Run is the event loop: it advances the clock in real time until ctx is
// done. It must be called from the goroutine that owns the toolkit.
func (t *Toolkit) Run(ctx context.Context, resolution time.Duration) error {
	if resolution <= 0 {
		resolution = 10 * time.Millisecond
	}
	ticker := time.NewTicker(resolution)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			t.Advance(now.Sub(last))
			last = now
		}
	}
}
