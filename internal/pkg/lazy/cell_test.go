package lazy

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

type payload struct{ n int }

func TestCell_ConcurrentCallersShareOneLoad(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})

	cell := NewCell(func(ctx context.Context) (*payload, error) {
		loads.Add(1)
		<-release
		return &payload{n: 42}, nil
	})

	const callers = 50
	results := make([]*payload, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := cell.Get(context.Background())
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// give every goroutine a chance to block on the in-flight load
	time.Sleep(50 * time.Millisecond)
	assert.False(t, cell.Loaded())
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	assert.True(t, cell.Loaded())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestCell_FailureIsNotCached(t *testing.T) {
	var attempts atomic.Int32
	fail := errors.New("file missing")

	cell := NewCell(func(ctx context.Context) (int, error) {
		if attempts.Add(1) == 1 {
			return 0, fail
		}
		return 7, nil
	})

	_, err := cell.Get(context.Background())
	require.ErrorIs(t, err, fail)
	assert.False(t, cell.Loaded())

	v, err := cell.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.True(t, cell.Loaded())

	v, err = cell.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestCell_LoadSurvivesCallerCancellation(t *testing.T) {
	cell := NewCell(func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "ok", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := cell.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}
