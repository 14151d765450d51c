// Package concurrency provides ordered fan-out helpers shared by the
// application layer and the adapters.
package concurrency

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ParallelLimit runs fns with at most limit of them in flight and returns
// their results in the order of fns. The first error cancels the context
// passed to the others and is returned. A limit below one means no bound.
//
// Example:
//
//	docs, err := ParallelLimit(ctx, 4,
//	    func(ctx context.Context) (*shell.Rendered, error) { return svc.Render(ctx, "/") },
//	    func(ctx context.Context) (*shell.Rendered, error) { return svc.Render(ctx, "/admin") },
//	)
func ParallelLimit[T any](
	ctx context.Context,
	limit int,
	fns ...func(context.Context) (T, error),
) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]T, len(fns))

	for i, fn := range fns {
		g.Go(func() error {
			result, err := fn(ctx)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, fmt.Errorf("parallel execution failed: %w", err)
	}

	return results, nil
}

// PartialResult holds a result or an error for partial success patterns.
type PartialResult[T any] struct {
	Value T
	Err   error
}

// ParallelPartial runs every fn to completion and collects each outcome,
// in the order of fns. Unlike ParallelLimit a failure cancels nothing.
//
// Example:
//
//	results := ParallelPartial(ctx, probes...)
//	for _, r := range results {
//	    if r.Err != nil {
//	        failed = append(failed, r.Err)
//	    }
//	}
func ParallelPartial[T any](
	ctx context.Context,
	fns ...func(context.Context) (T, error),
) []PartialResult[T] {
	results := make([]PartialResult[T], len(fns))

	var wg sync.WaitGroup

	for i, fn := range fns {
		wg.Go(func() {
			value, err := fn(ctx)
			results[i] = PartialResult[T]{Value: value, Err: err}
		})
	}

	wg.Wait()

	return results
}
