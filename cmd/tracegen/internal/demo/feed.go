package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-drift/tracegen/pkg/dispatch"
	"github.com/go-drift/tracegen/pkg/registry"
	"github.com/go-drift/tracegen/pkg/toolkit/headless"
	"github.com/go-drift/tracegen/pkg/trace"
)

// Feed shows each of values on target, in order, from a worker goroutine.
// The worker reaches the session only through a dispatch looper, while the
// calling goroutine runs the toolkit's event loop until the worker is done.
func Feed(ctx context.Context, tk *headless.Toolkit, s *trace.Session, target registry.Handle, values []string, poll time.Duration) error {
	looper := dispatch.New(tk)
	if _, err := looper.Start(ctx, poll); err != nil {
		return err
	}
	defer looper.Stop()

	loopCtx, stop := context.WithCancel(ctx)
	defer stop()
	done := make(chan error, 1)
	go func() {
		defer stop()
		for i, v := range values {
			_, err := looper.Call(loopCtx, func(context.Context) (any, error) {
				return nil, s.SetItem(target, "text", v)
			})
			if err != nil {
				done <- fmt.Errorf("value %d: %w", i, err)
				return
			}
		}
		done <- nil
	}()

	resolution := poll / 2
	if resolution <= 0 {
		resolution = dispatch.DefaultInterval / 2
	}
	if err := tk.Run(loopCtx, resolution); err != nil && ctx.Err() != nil {
		return err
	}
	return <-done
}
