package tenant

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithKey adds the tenant key to the context.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, contextKey{}, key)
}

// KeyFromContext retrieves the tenant key from the context.
// Returns "", false if no key is found.
func KeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(contextKey{}).(string)
	return key, ok && key != ""
}

// MustKeyFromContext retrieves the tenant key from the context.
// Panics if no key is found. Use this only in handlers mounted behind
// RequireTenant.
func MustKeyFromContext(ctx context.Context) string {
	key, ok := KeyFromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return key
}

// LoggerExtractor returns a ContextExtractor for the logger that extracts the tenant key from context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if key, ok := KeyFromContext(ctx); ok {
			return slog.String("tenant", key), true
		}
		return slog.Attr{}, false
	}
}
