package publicconfig_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/menukit/pkg/publicconfig"
)

func TestDeduplicator_Run(t *testing.T) {
	t.Parallel()

	t.Run("same future while in flight", func(t *testing.T) {
		t.Parallel()

		d := publicconfig.NewDeduplicator()
		release := make(chan struct{})
		var calls atomic.Int32

		factory := func(context.Context) publicconfig.Result {
			calls.Add(1)
			<-release
			return publicconfig.Result{Key: "viva", Outcome: publicconfig.OutcomeSucceeded}
		}

		f1 := d.Run(context.Background(), "viva", factory)
		f2 := d.Run(context.Background(), "viva", factory)
		other := d.Run(context.Background(), "bistro", factory)

		assert.Same(t, f1, f2)
		assert.NotSame(t, f1, other)
		assert.Equal(t, 2, d.InFlight())

		close(release)
		res, err := f1.Await()
		require.NoError(t, err)
		assert.Equal(t, publicconfig.OutcomeSucceeded, res.Outcome)
		_, _ = other.Await()

		assert.Equal(t, int32(2), calls.Load())
		assert.Zero(t, d.InFlight(), "registration removed once settled")
	})

	t.Run("settled key starts a new fetch", func(t *testing.T) {
		t.Parallel()

		d := publicconfig.NewDeduplicator()
		var calls atomic.Int32
		factory := func(context.Context) publicconfig.Result {
			calls.Add(1)
			return publicconfig.Result{Outcome: publicconfig.OutcomeTransient}
		}

		_, _ = d.Run(context.Background(), "viva", factory).Await()
		_, _ = d.Run(context.Background(), "viva", factory).Await()

		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("factory ignores caller cancellation", func(t *testing.T) {
		t.Parallel()

		d := publicconfig.NewDeduplicator()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var sawErr error
		var mu sync.Mutex
		res, err := d.Run(ctx, "viva", func(ctx context.Context) publicconfig.Result {
			mu.Lock()
			sawErr = ctx.Err()
			mu.Unlock()
			return publicconfig.Result{Outcome: publicconfig.OutcomeSucceeded}
		}).Await()

		require.NoError(t, err)
		assert.Equal(t, publicconfig.OutcomeSucceeded, res.Outcome)
		mu.Lock()
		assert.NoError(t, sawErr)
		mu.Unlock()
	})
}
