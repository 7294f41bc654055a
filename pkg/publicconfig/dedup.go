package publicconfig

import (
	"context"
	"sync"

	"github.com/dmitrymomot/menukit/pkg/async"
)

// Deduplicator collapses concurrent fetches of the same tenant key into one.
type Deduplicator struct {
	mu       sync.Mutex
	inflight map[string]*async.Future[Result]
}

// NewDeduplicator creates an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{inflight: make(map[string]*async.Future[Result])}
}

// Run returns the in-flight future for key, or starts factory and registers
// its future. The registration is removed before the future settles, so a
// call made after completion always starts a new fetch.
//
// The factory runs detached from ctx cancellation: a caller that stops
// waiting does not abort the fetch for the others.
func (d *Deduplicator) Run(ctx context.Context, key string, factory func(context.Context) Result) *async.Future[Result] {
	d.mu.Lock()
	defer d.mu.Unlock()

	if f, ok := d.inflight[key]; ok {
		return f
	}

	var f *async.Future[Result]
	f = async.Async(context.WithoutCancel(ctx), key, func(ctx context.Context, key string) (Result, error) {
		res := factory(ctx)

		d.mu.Lock()
		if d.inflight[key] == f {
			delete(d.inflight, key)
		}
		d.mu.Unlock()

		return res, nil
	})
	d.inflight[key] = f

	return f
}

// InFlight reports how many keys currently have a fetch running.
func (d *Deduplicator) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}
