// Package offload runs blocking work (disk reads, inference, remote calls) on a bounded set of
// goroutines so that a burst of slow requests cannot pile up unbounded work.
package offload

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool allowing at most size concurrent jobs.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Run executes fn on a worker goroutine and waits for it.
// If ctx ends first Run returns ctx.Err(); fn keeps its slot until it finishes.
// A panic inside fn is returned as an error.
func Run[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)

	go func() {
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("offloaded job panicked: %v", r)}
			}
		}()

		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
