package preference

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the part of redis.UniversalClient the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisStore shares preferences between replicas. Keys are Key(tenant)
// behind an optional namespace, usually a visitor identifier.
type RedisStore struct {
	client    RedisClient
	namespace string
	ttl       time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL expires preferences d after they were last written. Reads do not
// extend the lifetime. Zero keeps them forever.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		if d >= 0 {
			s.ttl = d
		}
	}
}

// WithNamespace scopes keys, e.g. per visitor: "<namespace>:public.lang.<tenant>".
func WithNamespace(ns string) RedisOption {
	return func(s *RedisStore) {
		s.namespace = ns
	}
}

func NewRedisStore(client RedisClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scoped returns a copy of s using ns as namespace.
func (s *RedisStore) Scoped(ns string) *RedisStore {
	c := *s
	c.namespace = ns
	return &c
}

func (s *RedisStore) Get(ctx context.Context, tenant string) (string, error) {
	if tenant == "" {
		return "", ErrEmptyTenant
	}
	lang, err := s.client.Get(ctx, s.key(tenant)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Join(ErrStoreUnavailable, err)
	}
	return lang, nil
}

func (s *RedisStore) Set(ctx context.Context, tenant, lang string) error {
	if tenant == "" {
		return ErrEmptyTenant
	}
	if err := s.client.Set(ctx, s.key(tenant), lang, s.ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) key(tenant string) string {
	if s.namespace == "" {
		return Key(tenant)
	}
	return s.namespace + ":" + Key(tenant)
}
