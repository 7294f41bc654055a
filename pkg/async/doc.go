// Package async provides small generic helpers for running computations
// asynchronously and waiting for their completion.
//
// The central type is Future, the eventual result of an asynchronous
// operation. Async starts a function in its own goroutine and returns a
// *Future immediately; callers wait with Await, with AwaitContext when the
// wait must honour cancellation, or poll with IsComplete. Done exposes the
// completion channel for use in select statements.
//
// A Future is shared state: every goroutine awaiting the same Future observes
// the same result, which is what makes it suitable as the unit of request
// deduplication in pkg/publicconfig.
//
// # Usage
//
//	future := async.Async(ctx, "viva", func(ctx context.Context, slug string) (*Record, error) {
//		return load(ctx, slug)
//	})
//
//	rec, err := future.AwaitContext(ctx)
//
// # Error Handling
//
// The package does not introduce custom error types. Await returns whatever
// the callback returned; AwaitContext returns ctx.Err() when the wait is
// abandoned, without affecting the computation itself.
package async
