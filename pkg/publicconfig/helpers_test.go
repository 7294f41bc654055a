package publicconfig_test

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/menukit/pkg/publicconfig"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// stubFetcher counts calls and answers with respond. When gate is set every
// call blocks until it is closed.
type stubFetcher struct {
	calls   atomic.Int32
	gate    chan struct{}
	respond func(key string) (*publicconfig.Response, error)
}

func (f *stubFetcher) Fetch(ctx context.Context, key string) (*publicconfig.Response, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.respond(key)
}

func (f *stubFetcher) Calls() int {
	return int(f.calls.Load())
}

const vivaPayload = `{"tenant":{"id":"t-1","name":"Viva"},"ui":{"langs":["bg","en"],"default":"bg"},"content":{"langs":["bg"],"default":"bg"}}`

func okResponse(string) (*publicconfig.Response, error) {
	return &publicconfig.Response{StatusCode: http.StatusOK, Body: []byte(vivaPayload)}, nil
}

func statusResponse(code int, header http.Header) func(string) (*publicconfig.Response, error) {
	return func(string) (*publicconfig.Response, error) {
		return &publicconfig.Response{StatusCode: code, Header: header}, nil
	}
}
