package statemachine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/menukit/pkg/statemachine"
)

type state string

type event string

const (
	draft     state = "draft"
	published state = "published"
	archived  state = "archived"

	publish event = "publish"
	archive event = "archive"
	restore event = "restore"
)

func newMachine(t *testing.T, opts ...statemachine.Option[state, event]) *statemachine.Machine[state, event] {
	t.Helper()
	base := []statemachine.Option[state, event]{
		statemachine.WithTransition[state, event](draft, published, publish),
		statemachine.WithTransition[state, event](published, archived, archive),
		statemachine.WithTransitionFromAny[state, event]([]state{published, archived}, draft, restore),
	}
	m, err := statemachine.New(draft, append(base, opts...)...)
	require.NoError(t, err)
	return m
}

func TestMachine_Fire(t *testing.T) {
	t.Parallel()

	t.Run("follows defined transitions", func(t *testing.T) {
		t.Parallel()

		m := newMachine(t)
		require.NoError(t, m.Fire(context.Background(), publish))
		assert.Equal(t, published, m.Current())

		require.NoError(t, m.Fire(context.Background(), archive))
		assert.True(t, m.Is(archived))

		require.NoError(t, m.Fire(context.Background(), restore))
		assert.Equal(t, draft, m.Current())
	})

	t.Run("rejects undefined transitions", func(t *testing.T) {
		t.Parallel()

		m := newMachine(t)
		err := m.Fire(context.Background(), archive)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
		assert.Equal(t, draft, m.Current())
	})

	t.Run("guards can block transitions", func(t *testing.T) {
		t.Parallel()

		m, err := statemachine.New(draft,
			statemachine.WithTransition(draft, published, publish,
				statemachine.WithGuard(func(context.Context, state, event) bool { return false }),
			),
		)
		require.NoError(t, err)

		err = m.Fire(context.Background(), publish)
		assert.True(t, statemachine.IsTransitionRejectedError(err))
		assert.False(t, m.CanFire(context.Background(), publish))
	})

	t.Run("first passing guard wins", func(t *testing.T) {
		t.Parallel()

		m, err := statemachine.New(draft,
			statemachine.WithTransition(draft, archived, publish,
				statemachine.WithGuard(func(context.Context, state, event) bool { return false }),
			),
			statemachine.WithTransition[state, event](draft, published, publish),
		)
		require.NoError(t, err)

		require.NoError(t, m.Fire(context.Background(), publish))
		assert.Equal(t, published, m.Current())
	})

	t.Run("failing action aborts transition", func(t *testing.T) {
		t.Parallel()

		actionErr := errors.New("nope")
		m, err := statemachine.New(draft,
			statemachine.WithTransition(draft, published, publish,
				statemachine.WithAction(func(context.Context, state, state, event) error { return actionErr }),
			),
		)
		require.NoError(t, err)

		err = m.Fire(context.Background(), publish)
		assert.ErrorIs(t, err, actionErr)
		assert.Equal(t, draft, m.Current())
	})

	t.Run("observers see completed transitions", func(t *testing.T) {
		t.Parallel()

		var seen []state
		m := newMachine(t, statemachine.WithObserver(func(_, to state, _ event) {
			seen = append(seen, to)
		}))

		require.NoError(t, m.Fire(context.Background(), publish))
		require.Error(t, m.Fire(context.Background(), publish))
		require.NoError(t, m.Fire(context.Background(), restore))
		assert.Equal(t, []state{published, draft}, seen)
	})
}

func TestMachine_Reset(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	require.NoError(t, m.Fire(context.Background(), publish))
	m.Reset()
	assert.Equal(t, draft, m.Current())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := statemachine.New(draft, statemachine.WithTransitionFromAny[state, event](nil, draft, restore))
	assert.ErrorIs(t, err, statemachine.ErrNoSourceStates)

	_, err = statemachine.New[state, event](draft, statemachine.WithObserver[state, event](nil))
	assert.ErrorIs(t, err, statemachine.ErrNilObserver)

	assert.Panics(t, func() {
		statemachine.MustNew[state, event](draft, statemachine.WithObserver[state, event](nil))
	})
}

func TestMachine_ConcurrentFire(t *testing.T) {
	t.Parallel()

	m := newMachine(t)
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Fire(context.Background(), publish) == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, published, m.Current())
}
