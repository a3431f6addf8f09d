// Package dispatch runs operations on the goroutine that owns a toolkit's
// event loop.
//
// The owner starts a [Looper] from inside its event loop. From then on a
// timer fires every poll interval and drains the queue of operations
// submitted by other goroutines, in FIFO order, resolving each [Future]
// exactly once. Callers on the owner goroutine are recognized by the
// context returned from [Looper.Start] and run inline.
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/go-drift/tracegen/pkg/errors"
	"github.com/go-drift/tracegen/pkg/toolkit"
)

// DefaultInterval is the poll interval used when Start is given zero.
const DefaultInterval = time.Second / 20

// Op is an operation run on the owner goroutine. ctx is the owner context,
// so nested calls made by op run inline.
type Op func(ctx context.Context) (any, error)

type task struct {
	op     Op
	future *Future
}

type ownerKey struct{}

// Looper is the dispatch queue of one toolkit event loop.
type Looper struct {
	sched toolkit.Scheduler

	mu       sync.Mutex
	queue    []task
	started  bool
	stopped  bool
	timer    toolkit.TimerID
	interval time.Duration
	owner    context.Context
}

// New returns a looper polling through sched.
func New(sched toolkit.Scheduler) *Looper {
	return &Looper{sched: sched}
}

// Start must be called on the owner goroutine. It drains the queue once,
// schedules the poll timer and returns the owner context: operations
// submitted with it, or with a context derived from it, run inline.
func (l *Looper) Start(ctx context.Context, interval time.Duration) (context.Context, error) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return nil, errors.Errorf("dispatch.Start", errors.KindDispatch, "looper already started")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	l.started = true
	l.interval = interval
	l.owner = context.WithValue(ctx, ownerKey{}, l)
	owner := l.owner
	l.mu.Unlock()

	l.poll()
	return owner, nil
}

// IsOwner reports whether ctx is the owner context of l.
func (l *Looper) IsOwner(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	owner, _ := ctx.Value(ownerKey{}).(*Looper)
	return owner == l
}

// OwnerContext returns the owner context, or nil before Start.
func (l *Looper) OwnerContext() context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner
}

// Submit runs op inline when ctx is the owner context and returns a
// resolved future. Otherwise op is queued for the next poll. Submitting
// from another goroutine before Start fails with ErrDispatchNotReady.
func (l *Looper) Submit(ctx context.Context, op Op) (*Future, error) {
	f := newFuture()
	if l.IsOwner(ctx) {
		f.resolve(run(ctx, op))
		return f, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started {
		return nil, errors.New("dispatch.Submit", errors.KindDispatch, errors.ErrDispatchNotReady)
	}
	if l.stopped {
		return nil, errors.Errorf("dispatch.Submit", errors.KindDispatch, "looper stopped: %w", errors.ErrDispatchNotReady)
	}
	l.queue = append(l.queue, task{op: op, future: f})
	return f, nil
}

// Call submits op and waits for its result. Off-owner callers block until
// the next poll drains the queue or ctx is done.
func (l *Looper) Call(ctx context.Context, op Op) (any, error) {
	f, err := l.Submit(ctx, op)
	if err != nil {
		return nil, err
	}
	return f.Wait(ctx)
}

// Pending returns the number of queued operations.
func (l *Looper) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Stop cancels the poll timer and fails every queued operation. It is
// idempotent.
func (l *Looper) Stop() {
	l.mu.Lock()
	if !l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	l.sched.CancelTimer(l.timer)
	queue := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, t := range queue {
		t.future.resolve(nil, errors.Errorf("dispatch.Stop", errors.KindDispatch, "looper stopped: %w", errors.ErrDispatchNotReady))
	}
}

// poll drains the queue on the owner goroutine and schedules the next
// poll. Operations queued while draining wait for the next tick.
func (l *Looper) poll() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	queue := l.queue
	l.queue = nil
	owner := l.owner
	l.mu.Unlock()

	for _, t := range queue {
		t.future.resolve(run(owner, t.op))
	}

	l.mu.Lock()
	if !l.stopped {
		l.timer = l.sched.After(l.interval, l.poll)
	}
	l.mu.Unlock()
}

// run calls op, turning a panic into a *errors.PanicError.
func run(ctx context.Context, op Op) (value any, err error) {
	defer errors.RecoverError("dispatch.run", &err)
	return op(ctx)
}
