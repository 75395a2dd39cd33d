package parallelisation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type IWaiter interface {
	Wait() error
}

// WaitWithContext waits for the waiter to complete or for the context to be done, whichever happens first.
// The waiter is not interrupted if the context ends first.
func WaitWithContext(ctx context.Context, wg IWaiter) (err error) {
	done := make(chan struct{})
	var g errgroup.Group
	g.SetLimit(1)
	g.Go(func() error {
		defer close(done)
		return wg.Wait()
	})
	select {
	case <-ctx.Done():
		return DetermineContextError(ctx)
	case <-done:
		return g.Wait() // since there is only one this will return when wg does
	}
}

// WaitWithTimeout is similar to WaitWithContext but bounds the wait by a timeout.
func WaitWithTimeout(ctx context.Context, timeout time.Duration, wg IWaiter) error {
	subCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return WaitWithContext(subCtx, wg)
}
