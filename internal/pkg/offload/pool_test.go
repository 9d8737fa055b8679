package offload

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsValueAndError(t *testing.T) {
	pool := NewPool(2)

	v, err := Run(context.Background(), pool, func(ctx context.Context) (int, error) {
		return 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	boom := errors.New("boom")
	_, err = Run(context.Background(), pool, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Run(context.Background(), pool, func(ctx context.Context) (struct{}, error) {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return struct{}{}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRun_ContextCancelled(t *testing.T) {
	pool := NewPool(1)
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Run(ctx, pool, func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRun_RecoversPanic(t *testing.T) {
	pool := NewPool(1)

	_, err := Run(context.Background(), pool, func(ctx context.Context) (int, error) {
		panic("bad weights")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad weights")
}
