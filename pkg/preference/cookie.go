package preference

import (
	"context"
	"net/http"
	"sync"

	"github.com/dmitrymomot/menukit/pkg/cookie"
)

// CookieStore keeps preferences in signed cookies of one request/response
// pair. Values written during the request are visible to later reads.
// Create one per request.
type CookieStore struct {
	manager *cookie.Manager
	w       http.ResponseWriter
	r       *http.Request
	opts    []cookie.Option

	mu      sync.Mutex
	written map[string]string
}

func NewCookieStore(m *cookie.Manager, w http.ResponseWriter, r *http.Request, opts ...cookie.Option) *CookieStore {
	return &CookieStore{manager: m, w: w, r: r, opts: opts, written: make(map[string]string)}
}

// Get returns the stored language. Missing or tampered cookies read as empty.
func (s *CookieStore) Get(_ context.Context, tenant string) (string, error) {
	if tenant == "" {
		return "", ErrEmptyTenant
	}

	s.mu.Lock()
	lang, ok := s.written[tenant]
	s.mu.Unlock()
	if ok {
		return lang, nil
	}

	lang, err := s.manager.GetSigned(s.r, Key(tenant))
	if err != nil {
		return "", nil
	}
	return lang, nil
}

func (s *CookieStore) Set(_ context.Context, tenant, lang string) error {
	if tenant == "" {
		return ErrEmptyTenant
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.written[tenant]; ok && prev == lang {
		return nil
	}
	s.written[tenant] = lang
	s.manager.SetSigned(s.w, Key(tenant), lang, s.opts...)
	return nil
}
