package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// RunOrdered executes fn for every index in [0, n) on the pool and returns
// the results in index order, independent of scheduling. The context is
// checked before each task starts; a task that has started always runs to
// completion. Task errors and panics are joined; cancellation reports
// ctx.Err().
//
// The pool is not closed, so several batches can share it.
func RunOrdered[T any](ctx context.Context, pool *WorkerPool, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		run := func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			res, err := fn(ctx, i)
			if err != nil {
				errs[i] = fmt.Errorf("task %d: %w", i, err)
				return
			}
			results[i] = res
		}
		// Exactly one of the two callbacks releases wg
		submitted := pool.SubmitWithRecovery(func() {
			run()
			wg.Done()
		}, func(err error) {
			errs[i] = fmt.Errorf("task %d: %w", i, err)
			wg.Done()
		})
		if !submitted {
			wg.Done()
			errs[i] = ErrPoolClosed
			break
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}
