package dispatch

import (
	"context"
	stderrors "errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/tracegen/pkg/errors"
	tracetest "github.com/go-drift/tracegen/pkg/testing"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
)

const tick = 50 * time.Millisecond

func started(t *testing.T) (*Looper, *headless.Toolkit, context.Context) {
	t.Helper()
	tk := headless.New(headless.Plain)
	l := New(tk)
	owner, err := l.Start(context.Background(), tick)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(l.Stop)
	return l, tk, owner
}

func record(order *[]string, name string) Op {
	return func(context.Context) (any, error) {
		*order = append(*order, name)
		return name, nil
	}
}

func TestSubmitBeforeStart(t *testing.T) {
	l := New(headless.New(headless.Plain))
	_, err := l.Submit(context.Background(), record(new([]string), "x"))
	if !stderrors.Is(err, errors.ErrDispatchNotReady) {
		t.Fatalf("err = %v, want ErrDispatchNotReady", err)
	}
	if errors.KindOf(err) != errors.KindDispatch {
		t.Errorf("kind = %v", errors.KindOf(err))
	}
}

func TestStartTwice(t *testing.T) {
	l, _, _ := started(t)
	if _, err := l.Start(context.Background(), tick); err == nil {
		t.Error("second Start should fail")
	}
}

func TestFIFOAndInlineOwner(t *testing.T) {
	l, tk, owner := started(t)
	var order []string

	first, err := l.Submit(context.Background(), record(&order, "first"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.Submit(context.Background(), record(&order, "second"))
	if err != nil {
		t.Fatal(err)
	}
	if l.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", l.Pending())
	}

	v, err := l.Call(owner, record(&order, "inline"))
	if err != nil || v != "inline" {
		t.Fatalf("inline call = %v, %v", v, err)
	}
	if diff := cmp.Diff([]string{"inline"}, order); diff != "" {
		t.Errorf("before tick (-want +got):\n%s", diff)
	}
	if first.Resolved() {
		t.Error("queued op resolved before the tick")
	}

	tk.Advance(tick)
	if diff := cmp.Diff([]string{"inline", "first", "second"}, order); diff != "" {
		t.Errorf("after tick (-want +got):\n%s", diff)
	}
	if v, err, ok := second.Result(); !ok || err != nil || v != "second" {
		t.Errorf("second = %v, %v, %v", v, err, ok)
	}
}

func TestCallFromOtherGoroutine(t *testing.T) {
	l, tk, _ := started(t)
	type result struct {
		v   any
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := l.Call(context.Background(), func(ctx context.Context) (any, error) {
			if !l.IsOwner(ctx) {
				return nil, stderrors.New("op did not get the owner context")
			}
			return 42, nil
		})
		done <- result{v, err}
	}()

	deadline := time.Now().Add(5 * time.Second)
	for l.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("call was never queued")
		}
		time.Sleep(time.Millisecond)
	}
	tk.Advance(tick)

	r := <-done
	if r.err != nil || r.v != 42 {
		t.Errorf("Call = %v, %v", r.v, r.err)
	}
}

func TestNestedCallRunsInline(t *testing.T) {
	l, tk, _ := started(t)
	f, err := l.Submit(context.Background(), func(ctx context.Context) (any, error) {
		return l.Call(ctx, func(context.Context) (any, error) { return "nested", nil })
	})
	if err != nil {
		t.Fatal(err)
	}
	tk.Advance(tick)
	if v, err, _ := f.Result(); v != "nested" || err != nil {
		t.Errorf("nested = %v, %v", v, err)
	}
}

func TestPanicBecomesError(t *testing.T) {
	errors.SetHandler(&errors.LogHandler{Out: io.Discard})
	t.Cleanup(func() { errors.SetHandler(nil) })

	l, tk, _ := started(t)
	f, _ := l.Submit(context.Background(), func(context.Context) (any, error) {
		panic("boom")
	})
	tk.Advance(tick)

	_, err, ok := f.Result()
	if !ok {
		t.Fatal("future not resolved")
	}
	var pe *errors.PanicError
	if !stderrors.As(err, &pe) || pe.Value != "boom" {
		t.Errorf("err = %v, want PanicError(boom)", err)
	}

	// The looper keeps polling after a panic.
	next, _ := l.Submit(context.Background(), record(new([]string), "after"))
	tk.Advance(tick)
	if !next.Resolved() {
		t.Error("looper stopped polling after a panic")
	}
}

func TestWaitHonoursContext(t *testing.T) {
	l, _, _ := started(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Call(ctx, record(new([]string), "never"))
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestStop(t *testing.T) {
	tk := headless.New(headless.Plain)
	l := New(tk)
	if _, err := l.Start(context.Background(), tick); err != nil {
		t.Fatal(err)
	}
	f, _ := l.Submit(context.Background(), record(new([]string), "x"))
	l.Stop()
	l.Stop()

	if _, err, ok := f.Result(); !ok || !stderrors.Is(err, errors.ErrDispatchNotReady) {
		t.Errorf("queued op after Stop = %v, %v", err, ok)
	}
	if tk.PendingTimers() != 0 {
		t.Errorf("poll timer still scheduled")
	}
	if _, err := l.Submit(context.Background(), record(new([]string), "y")); err == nil {
		t.Error("Submit after Stop should fail")
	}
}

func TestTimeout(t *testing.T) {
	tk := headless.New(headless.Plain)
	ran := 0
	fired := Delay(tk, 10*time.Millisecond, func() { ran++ })
	cancelled := Delay(tk, 10*time.Millisecond, func() { ran += 100 })

	if !cancelled.Cancel() {
		t.Error("Cancel of a pending timeout = false")
	}
	if cancelled.Cancel() {
		t.Error("second Cancel = true")
	}
	tk.Advance(20 * time.Millisecond)

	if ran != 1 || !fired.Fired() || cancelled.Fired() {
		t.Errorf("ran = %d, fired = %v, cancelled fired = %v", ran, fired.Fired(), cancelled.Fired())
	}
	if fired.Cancel() {
		t.Error("Cancel after fire should be a no-op")
	}
}

func TestTimeoutCancelRacesFire(t *testing.T) {
	tk := headless.New(headless.Plain)
	const n = 200
	timeouts := make([]*Timeout, n)
	var ran atomic.Int32
	for i := range timeouts {
		timeouts[i] = Delay(tk, 0, func() { ran.Add(1) })
	}

	cancelled := make(chan int, 1)
	go func() {
		c := 0
		for _, to := range timeouts {
			if to.Cancel() {
				c++
			}
		}
		cancelled <- c
	}()
	tk.Advance(time.Millisecond)
	c := <-cancelled
	tk.Advance(time.Millisecond)

	if got := int(ran.Load()) + c; got != n {
		t.Errorf("ran %d + cancelled %d = %d, want %d", ran.Load(), c, got, n)
	}
	for i, to := range timeouts {
		if to.Fired() && to.Cancel() {
			t.Errorf("timeout %d: Cancel after fire = true", i)
		}
	}
	if tk.PendingTimers() != 0 {
		t.Errorf("pending timers = %d, want 0", tk.PendingTimers())
	}
}

func TestLooperOnFakeClock(t *testing.T) {
	clk := tracetest.NewFakeClock()
	l := New(clk)
	if _, err := l.Start(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	defer l.Stop()

	f, err := l.Submit(context.Background(), record(new([]string), "x"))
	if err != nil {
		t.Fatal(err)
	}
	clk.Advance(DefaultInterval - time.Millisecond)
	if f.Resolved() {
		t.Fatal("resolved before the poll interval elapsed")
	}
	clk.Advance(time.Millisecond)
	if v, err, ok := f.Result(); !ok || err != nil || v != "x" {
		t.Errorf("Result = %v, %v, %v", v, err, ok)
	}
	if clk.Pending() != 1 {
		t.Errorf("pending timers = %d, want the next poll", clk.Pending())
	}
}
