// Package parallel runs an operation over an ordered list of items with a
// bounded number of workers.
package parallel

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of concurrent operations of a replay run
const DefaultWorkers = 4

// ErrShutdown is returned when the liveness token is revoked before all items are processed
var ErrShutdown = errors.New("shutdown in progress")

// Map calls fn for every item with at most workers concurrent calls and
// returns the results in input order. The first failure cancels the context
// given to the calls in flight, stops the dispatch of the remaining items and
// is returned as is; later failures are dropped. Revoking alive or cancelling
// ctx interrupts the run the same way.
func Map[T, R any](ctx context.Context, alive *Alive, items []T, workers int,
	fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if alive != nil {
		go func() {
			select {
			case <-alive.Done():
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	stopped := func(ctx context.Context) bool {
		return ctx.Err() != nil || (alive != nil && !alive.IsAlive())
	}

	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	dispatched := 0
	for i, item := range items {
		if stopped(gctx) {
			break
		}
		i, item := i, item
		g.Go(func() error {
			if stopped(gctx) {
				return context.Canceled
			}
			result, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
		dispatched++
	}
	err := g.Wait()
	if err == nil && dispatched == len(items) {
		return results, nil
	}
	if alive != nil && !alive.IsAlive() && (err == nil || errors.Is(err, context.Canceled)) {
		return nil, ErrShutdown
	}
	if err == nil {
		err = ctx.Err()
	}
	return nil, err
}
