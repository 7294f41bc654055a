// Package publicconfig resolves the public configuration of a tenant (the
// language declaration of a restaurant's public menu) with caching and
// request deduplication.
//
// A Resolver owns a Store and a Deduplicator and is built once at start-up:
//
//	fetcher, err := publicconfig.NewHTTPFetcher(cfg.BaseURL)
//	if err != nil {
//		return err
//	}
//	resolver := publicconfig.MustNewResolver(fetcher,
//		publicconfig.WithConfig(cfg),
//		publicconfig.WithLogger(log),
//	)
//
//	res := resolver.Resolve(ctx, "viva")
//	switch {
//	case res.Succeeded():
//		// res.Record holds the normalized language sets
//	case res.NotFound():
//		// missing or rate limited, rendered the same way
//	default:
//		// transient, try again on the next visit
//	}
//
// # Caching
//
// Each tenant key holds at most one Entry: fresh (5m), not found (5m) or
// blocked until the end of the window announced by a 429 Retry-After header
// (5m when absent or invalid). Expired entries are dropped lazily on read.
// Network failures, unexpected statuses and malformed bodies are never cached.
//
// # Deduplication
//
// Concurrent Resolve calls for the same key share a single fetch. The fetch
// is not cancelled when a caller gives up; its result still populates the
// store for the next visit.
//
// # Errors
//
// Result.Err carries ErrNotFound, a *RateLimitError (matching ErrRateLimited)
// or an error wrapping ErrTransient. Callers normally branch on Result methods
// instead.
package publicconfig
