package concurrent

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapKeepsInputOrder(t *testing.T) {
	items := []int{5, 3, 8, 1, 9, 2}

	results := Map(context.Background(), items, func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	}, 3)

	require.Len(t, results, len(items))
	for i, r := range results {
		assert.NoError(t, r.Error)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, items[i]*2, r.Value)
	}
}

func TestExecuteBoundsConcurrency(t *testing.T) {
	const limit = 2
	var inFlight, peak int64
	var mu sync.Mutex
	ready := make(chan struct{})

	tasks := make([]Task[struct{}], 8)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) (struct{}, error) {
			n := atomic.AddInt64(&inFlight, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			<-ready
			atomic.AddInt64(&inFlight, -1)
			return struct{}{}, nil
		}
	}

	done := make(chan []Result[struct{}])
	go func() { done <- Execute(context.Background(), tasks, limit) }()

	close(ready)
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int64(limit))
}

func TestExecuteCollectsAllErrors(t *testing.T) {
	boom := errors.New("boom")
	tasks := []Task[int]{
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) { return 0, boom },
		func(ctx context.Context) (int, error) { return 3, nil },
	}

	results := Execute(context.Background(), tasks, 0)
	require.Len(t, results, 3)

	// A failing task does not stop its siblings.
	assert.Equal(t, 1, results[0].Value)
	assert.ErrorIs(t, results[1].Error, boom)
	assert.Equal(t, 3, results[2].Value)

	assert.ErrorIs(t, FirstError(results), boom)
}

func TestFirstErrorNilWhenAllSucceed(t *testing.T) {
	results := Map(context.Background(), []int{1, 2}, func(ctx context.Context, n int) (int, error) {
		return n, nil
	}, 1)
	assert.NoError(t, FirstError(results))
}
