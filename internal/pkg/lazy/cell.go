// Package lazy provides a once-initialized, concurrency-safe value holder.
//
// Unlike sync.Once a failed initialization is not remembered: the error is returned to every
// caller that was waiting on that attempt and the next caller starts a fresh one.
package lazy

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the value held by a Cell.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Cell holds a value that is loaded on first use.
// Concurrent first callers share a single load; once stored the value never changes.
type Cell[T any] struct {
	load  LoadFunc[T]
	group singleflight.Group
	value atomic.Pointer[T]
}

func NewCell[T any](load LoadFunc[T]) *Cell[T] {
	return &Cell[T]{load: load}
}

// Get returns the cached value or runs the loader.
// The loader runs detached from the caller's cancellation so that one aborted request
// does not fail every other request waiting on the same load.
func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	if v := c.value.Load(); v != nil {
		return *v, nil
	}

	res, err, _ := c.group.Do("load", func() (any, error) {
		if v := c.value.Load(); v != nil {
			return *v, nil
		}

		v, err := c.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.value.Store(&v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return res.(T), nil
}

// Loaded reports whether a value has been stored.
func (c *Cell[T]) Loaded() bool {
	return c.value.Load() != nil
}
