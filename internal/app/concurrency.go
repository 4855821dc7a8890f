package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of a single parallel task.
type Result[T any] struct {
	Value T
	Err   error
}

// ParallelPartialLimit runs fns with at most limit goroutines and
// returns every task's result in input order. Individual failures do
// not cancel the rest; callers inspect each Result and decide what a
// partial failure means.
func ParallelPartialLimit[T any](ctx context.Context, limit int, fns ...func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(fns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, fn := range fns {
		g.Go(func() error {
			v, err := fn(gctx)
			results[i] = Result[T]{Value: v, Err: err}

			return nil
		})
	}

	// Tasks never return errors to the group; Wait only joins.
	_ = g.Wait()

	return results
}
