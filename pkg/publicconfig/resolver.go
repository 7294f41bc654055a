package publicconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/menukit/pkg/logger"
)

const (
	DefaultSuccessTTL  = 5 * time.Minute
	DefaultNotFoundTTL = 5 * time.Minute
	DefaultRetryAfter  = 5 * time.Minute

	defaultPrefetchParallelism = 8

	// maxRetryAfter caps server-announced backoff windows.
	maxRetryAfter = 24 * time.Hour
)

// Fetcher performs the network call for one tenant key. A returned error
// means the endpoint could not be reached at all.
type Fetcher interface {
	Fetch(ctx context.Context, key string) (*Response, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, key string) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, key string) (*Response, error) {
	return f(ctx, key)
}

// Resolver turns tenant keys into configuration records, consulting its
// Store first and deduplicating network calls per key.
// It is safe for concurrent use and is meant to live for the whole process.
type Resolver struct {
	fetcher           Fetcher
	store             Store
	dedup             *Deduplicator
	successTTL        time.Duration
	notFoundTTL       time.Duration
	defaultRetryAfter time.Duration
	storeCapacity     uint64
	now               func() time.Time
	logger            *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStore replaces the default in-memory store.
func WithStore(store Store) Option {
	return func(r *Resolver) {
		if store != nil {
			r.store = store
		}
	}
}

func WithSuccessTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.successTTL = ttl
		}
	}
}

func WithNotFoundTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.notFoundTTL = ttl
		}
	}
}

// WithDefaultRetryAfter sets the backoff used when a 429 carries no usable Retry-After.
func WithDefaultRetryAfter(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.defaultRetryAfter = d
		}
	}
}

// WithClock sets the time source. The default store shares it.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithConfig applies TTLs and the default store capacity from cfg.
func WithConfig(cfg Config) Option {
	return func(r *Resolver) {
		WithSuccessTTL(cfg.SuccessTTL)(r)
		WithNotFoundTTL(cfg.NotFoundTTL)(r)
		WithDefaultRetryAfter(cfg.DefaultRetryAfter)(r)
		r.storeCapacity = cfg.StoreCapacity
	}
}

// NewResolver creates a resolver that fetches through fetcher.
func NewResolver(fetcher Fetcher, opts ...Option) (*Resolver, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}

	r := &Resolver{
		fetcher:           fetcher,
		dedup:             NewDeduplicator(),
		successTTL:        DefaultSuccessTTL,
		notFoundTTL:       DefaultNotFoundTTL,
		defaultRetryAfter: DefaultRetryAfter,
		now:               time.Now,
		logger:            logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.store == nil {
		storeOpts := []MemoryStoreOption{WithStoreClock(r.now)}
		if r.storeCapacity > 0 {
			storeOpts = append(storeOpts, WithCapacity(r.storeCapacity))
		}
		r.store = NewMemoryStore(storeOpts...)
	}
	r.logger = r.logger.With(logger.Component("publicconfig"))

	return r, nil
}

// MustNewResolver is like NewResolver but panics on error.
func MustNewResolver(fetcher Fetcher, opts ...Option) *Resolver {
	r, err := NewResolver(fetcher, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the configuration outcome for key.
//
// A live blocked or not-found entry is reported without a network call, a
// fresh entry is returned as is, and anything else triggers a deduplicated
// fetch. Transient failures are never cached. If ctx ends before the shared
// fetch settles, Resolve returns a transient result while the fetch keeps
// running for other callers.
func (r *Resolver) Resolve(ctx context.Context, key string) Result {
	if key == "" {
		return Result{Key: key, Outcome: OutcomeNotFound, Source: SourceCache, Err: ErrNotFound}
	}

	if entry, ok := r.store.Get(key); ok {
		switch entry.Kind {
		case EntryBlocked:
			return Result{
				Key:     key,
				Outcome: OutcomeBlocked,
				Source:  SourceCache,
				RetryAt: entry.ExpiresAt,
				Err:     &RateLimitError{Until: entry.ExpiresAt},
			}
		case EntryNotFound:
			return Result{Key: key, Outcome: OutcomeNotFound, Source: SourceCache, Err: ErrNotFound}
		case EntryFresh:
			if entry.Record != nil {
				return Result{Key: key, Outcome: OutcomeSucceeded, Record: entry.Record, Source: SourceCache}
			}
		}
	}

	future := r.dedup.Run(ctx, key, func(ctx context.Context) Result {
		return r.fetch(ctx, key)
	})
	res, err := future.AwaitContext(ctx)
	if err != nil {
		return Result{Key: key, Outcome: OutcomeTransient, Source: SourceNetwork, Err: errors.Join(ErrTransient, err)}
	}
	return res
}

// Prefetch resolves several keys concurrently. It fails only when a key
// ends in a transient failure; missing and blocked tenants are not errors.
func (r *Resolver) Prefetch(ctx context.Context, keys ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultPrefetchParallelism)

	for _, key := range keys {
		g.Go(func() error {
			res := r.Resolve(gctx, key)
			if res.Transient() {
				return fmt.Errorf("prefetch %q: %w", key, res.Err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Invalidate forgets any cached outcome for key.
func (r *Resolver) Invalidate(key string) {
	r.store.Delete(key)
}

func (r *Resolver) fetch(ctx context.Context, key string) Result {
	start := r.now()
	log := r.logger.With(logger.Tenant(key))

	resp, err := r.fetcher.Fetch(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "config fetch failed", logger.Error(err), logger.Duration(r.now().Sub(start)))
		return r.transient(key, err)
	}
	if resp == nil {
		return r.transient(key, ErrUnexpectedStatus)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		record, err := ParsePayload(resp.Body)
		if err != nil {
			log.WarnContext(ctx, "config payload rejected", logger.Error(err))
			return r.transient(key, err)
		}
		r.store.PutSuccess(key, record, r.successTTL)
		log.DebugContext(ctx, "config resolved", logger.Outcome(OutcomeSucceeded.String()), logger.Duration(r.now().Sub(start)))
		return Result{Key: key, Outcome: OutcomeSucceeded, Record: record, Source: SourceNetwork}

	case resp.StatusCode == http.StatusNotFound:
		r.store.PutNotFound(key, r.notFoundTTL)
		log.DebugContext(ctx, "tenant not found", logger.Outcome(OutcomeNotFound.String()))
		return Result{Key: key, Outcome: OutcomeNotFound, Source: SourceNetwork, Err: ErrNotFound}

	case resp.StatusCode == http.StatusTooManyRequests:
		now := r.now()
		until := now.Add(r.retryAfter(resp.Header, now))
		r.store.PutBlocked(key, until)
		log.WarnContext(ctx, "config endpoint rate limited", logger.Outcome(OutcomeBlocked.String()), slog.Time("until", until))
		return Result{
			Key:     key,
			Outcome: OutcomeBlocked,
			Source:  SourceNetwork,
			RetryAt: until,
			Err:     &RateLimitError{Until: until},
		}

	default:
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		log.WarnContext(ctx, "config fetch failed", logger.Error(err), logger.Duration(r.now().Sub(start)))
		return r.transient(key, err)
	}
}

func (r *Resolver) transient(key string, err error) Result {
	return Result{Key: key, Outcome: OutcomeTransient, Source: SourceNetwork, Err: errors.Join(ErrTransient, err)}
}

// retryAfter reads Retry-After as delta-seconds or an HTTP date. Missing,
// malformed, zero or past values fall back to the default window.
func (r *Resolver) retryAfter(h http.Header, now time.Time) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return r.defaultRetryAfter
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		switch {
		case secs <= 0:
			return r.defaultRetryAfter
		case secs > int64(maxRetryAfter/time.Second):
			return maxRetryAfter
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return min(d, maxRetryAfter)
		}
	}
	return r.defaultRetryAfter
}
