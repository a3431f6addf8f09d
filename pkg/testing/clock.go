package testing

import (
	"sort"
	"sync"
	"time"

	"github.com/go-drift/tracegen/pkg/toolkit"
)

// FakeClock provides controllable time and implements toolkit.Scheduler.
// All methods are safe for concurrent use; callbacks run on the goroutine
// calling Advance.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers map[toolkit.TimerID]*fakeTimer
	nextID toolkit.TimerID
}

type fakeTimer struct {
	id  toolkit.TimerID
	due time.Time
	fn  func()
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{
		now:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		timers: make(map[toolkit.TimerID]*fakeTimer),
	}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After implements toolkit.Scheduler.
func (c *FakeClock) After(d time.Duration, fn func()) toolkit.TimerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	c.timers[c.nextID] = &fakeTimer{id: c.nextID, due: c.now.Add(max(d, 0)), fn: fn}
	return c.nextID
}

// CancelTimer implements toolkit.Scheduler.
func (c *FakeClock) CancelTimer(id toolkit.TimerID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.timers[id]; !ok {
		return false
	}
	delete(c.timers, id)
	return true
}

// Pending returns the number of scheduled timers.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the clock forward by d, running due timers in order.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now.Add(d)
	c.mu.Unlock()
	for {
		tm := c.popDue(end)
		if tm == nil {
			break
		}
		tm.fn()
	}
	c.mu.Lock()
	c.now = end
	c.mu.Unlock()
}

// Set jumps to t without running timers that fall due on the way; they
// run on the next Advance.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *FakeClock) popDue(end time.Time) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var due []*fakeTimer
	for _, tm := range c.timers {
		if !tm.due.After(end) {
			due = append(due, tm)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].id < due[j].id
	})
	delete(c.timers, due[0].id)
	c.now = due[0].due
	return due[0]
}
