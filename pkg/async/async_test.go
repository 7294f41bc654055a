package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/menukit/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns function result", func(t *testing.T) {
		t.Parallel()

		future := async.Async(context.Background(), 42, func(_ context.Context, num int) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return fmt.Sprintf("Number: %d", num), nil
		})

		res, err := future.Await()
		require.NoError(t, err)
		assert.Equal(t, "Number: 42", res)
		assert.True(t, future.IsComplete())
	})

	t.Run("propagates errors", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("boom")
		future := async.Async(context.Background(), 1, func(_ context.Context, _ int) (int, error) {
			return 0, expectedErr
		})

		res, err := future.Await()
		assert.ErrorIs(t, err, expectedErr)
		assert.Zero(t, res)
	})

	t.Run("skips function for canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var called atomic.Bool
		future := async.Async(ctx, 1, func(_ context.Context, n int) (int, error) {
			called.Store(true)
			return n, nil
		})

		_, err := future.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called.Load())
	})

	t.Run("many waiters observe the same result", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		future := async.Async(context.Background(), 7, func(_ context.Context, n int) (int, error) {
			<-release
			return n * 2, nil
		})

		var wg sync.WaitGroup
		results := make([]int, 10)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = future.Await()
			}(i)
		}

		close(release)
		wg.Wait()
		for _, r := range results {
			assert.Equal(t, 14, r)
		}
	})
}

func TestFuture_AwaitContext(t *testing.T) {
	t.Parallel()

	t.Run("abandons the wait but not the work", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		future := async.Async(context.Background(), 1, func(_ context.Context, n int) (int, error) {
			<-release
			return n, nil
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := future.AwaitContext(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.False(t, future.IsComplete())

		close(release)
		res, err := future.Await()
		require.NoError(t, err)
		assert.Equal(t, 1, res)
	})

	t.Run("returns result when settled first", func(t *testing.T) {
		t.Parallel()

		future := async.Resolved("ok")
		res, err := future.AwaitContext(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ok", res)
	})
}

func TestFuture_Done(t *testing.T) {
	t.Parallel()

	future := async.Async(context.Background(), 1, func(_ context.Context, n int) (int, error) {
		return n, nil
	})

	select {
	case <-future.Done():
	case <-time.After(time.Second):
		t.Fatal("future did not settle")
	}
	assert.True(t, future.IsComplete())
}
