package publicmenu

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/menukit/pkg/cookie"
	"github.com/dmitrymomot/menukit/pkg/preference"
)

// Option configures a Handler.
type Option func(*Handler)

// WithCookies enables per-visitor language preferences in signed cookies.
func WithCookies(m *cookie.Manager) Option {
	return func(h *Handler) {
		h.cookies = m
	}
}

// WithRedisPreferences keeps preferences in Redis, scoped per visitor.
// The visitor is identified by a signed cookie, so WithCookies is required.
func WithRedisPreferences(store *preference.RedisStore) Option {
	return func(h *Handler) {
		h.redisPrefs = store
	}
}

// WithWaitTimeout bounds how long a page request waits for the gate.
func WithWaitTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.waitTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}
