package preference

import (
	"context"
	"errors"
	"sync"
)

// KeyPrefix prefixes every stored preference key.
const KeyPrefix = "public.lang."

var (
	ErrEmptyTenant      = errors.New("preference: tenant key is empty")
	ErrStoreUnavailable = errors.New("preference: store unavailable")
)

// Key returns the storage key of tenant's language preference.
func Key(tenant string) string {
	return KeyPrefix + tenant
}

// Store persists the last language a visitor chose for each tenant.
// Get returns an empty string when nothing is stored.
type Store interface {
	Get(ctx context.Context, tenant string) (string, error)
	Set(ctx context.Context, tenant, lang string) error
}

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	langs map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{langs: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, tenant string) (string, error) {
	if tenant == "" {
		return "", ErrEmptyTenant
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.langs[Key(tenant)], nil
}

func (s *MemoryStore) Set(_ context.Context, tenant, lang string) error {
	if tenant == "" {
		return ErrEmptyTenant
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.langs[Key(tenant)] = lang
	return nil
}
