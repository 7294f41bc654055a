package async

import (
	"context"
	"sync"
)

// Future represents the result of an asynchronous computation.
// A Future may be awaited by any number of goroutines; all of them observe
// the same result.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to be done, whichever comes first.
// Abandoning the wait does not stop the underlying computation.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the future settles.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future[U]) settle(res U, err error) {
	f.once.Do(func() {
		f.result = res
		f.err = err
		close(f.done)
	})
}

// Async executes fn in its own goroutine and returns a Future for its result.
// If ctx is already done the function is not invoked and the Future settles
// with the context error.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		// Early exit prevents useless work when the context is pre-canceled
		if err := ctx.Err(); err != nil {
			var zero U
			f.settle(zero, err)
			return
		}

		res, err := fn(ctx, param)
		f.settle(res, err)
	}()

	return f
}

// Resolved returns a Future that has already settled with the given value.
func Resolved[U any](value U) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}
	f.settle(value, nil)
	return f
}
