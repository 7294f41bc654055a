package publicconfig

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// EntryKind tags the state cached for a tenant key.
type EntryKind uint8

const (
	EntryFresh EntryKind = iota + 1
	EntryNotFound
	EntryBlocked
)

func (k EntryKind) String() string {
	switch k {
	case EntryFresh:
		return "fresh"
	case EntryNotFound:
		return "not_found"
	case EntryBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Entry is the single cached state of one tenant key.
// Record is set only for EntryFresh.
type Entry struct {
	Kind      EntryKind
	Record    *Record
	ExpiresAt time.Time
}

// Store caches resolution outcomes per tenant key. Expired entries must be
// reported as absent. Every Put replaces whatever was stored for the key.
type Store interface {
	Get(key string) (Entry, bool)
	PutSuccess(key string, record *Record, ttl time.Duration)
	PutNotFound(key string, ttl time.Duration)
	PutBlocked(key string, until time.Time)
	Delete(key string)
	Len() int
}

// MemoryStore is an in-process Store backed by ttlcache. It never runs a
// background sweep: expiry is checked against its clock on read and the
// stale entry is dropped there.
type MemoryStore struct {
	cache *ttlcache.Cache[string, Entry]
	now   func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithStoreClock sets the time source used for expiry checks.
func WithStoreClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCapacity bounds the number of tenant keys kept in memory.
func WithCapacity(capacity uint64) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.cache = ttlcache.New(
			ttlcache.WithDisableTouchOnHit[string, Entry](),
			ttlcache.WithCapacity[string, Entry](capacity),
		)
	}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		cache: ttlcache.New(ttlcache.WithDisableTouchOnHit[string, Entry]()),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the live entry for key.
func (s *MemoryStore) Get(key string) (Entry, bool) {
	item := s.cache.Get(key)
	if item == nil {
		return Entry{}, false
	}
	entry := item.Value()
	if s.now().After(entry.ExpiresAt) {
		s.cache.Delete(key)
		return Entry{}, false
	}
	return entry, true
}

func (s *MemoryStore) PutSuccess(key string, record *Record, ttl time.Duration) {
	s.put(key, Entry{Kind: EntryFresh, Record: record, ExpiresAt: s.now().Add(ttl)})
}

func (s *MemoryStore) PutNotFound(key string, ttl time.Duration) {
	s.put(key, Entry{Kind: EntryNotFound, ExpiresAt: s.now().Add(ttl)})
}

func (s *MemoryStore) PutBlocked(key string, until time.Time) {
	s.put(key, Entry{Kind: EntryBlocked, ExpiresAt: until})
}

func (s *MemoryStore) Delete(key string) {
	s.cache.Delete(key)
}

// Len reports the number of stored keys, including ones not yet evicted.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

func (s *MemoryStore) put(key string, entry Entry) {
	ttl := entry.ExpiresAt.Sub(s.now())
	if ttl < 0 {
		// Already expired: drop any previous state rather than keep it.
		s.cache.Delete(key)
		return
	}
	// ttlcache expires on wall time; pad it so the clock check decides on the boundary.
	s.cache.Set(key, entry, ttl+time.Second)
}
