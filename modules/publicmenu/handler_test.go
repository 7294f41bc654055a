package publicmenu_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/menukit/modules/publicmenu"
	"github.com/dmitrymomot/menukit/pkg/cookie"
	"github.com/dmitrymomot/menukit/pkg/gate"
	"github.com/dmitrymomot/menukit/pkg/httpserver"
	"github.com/dmitrymomot/menukit/pkg/preference"
	"github.com/dmitrymomot/menukit/pkg/publicconfig"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var payloads = map[string]string{
	// Single language: UI offers bg+en, content only bg.
	"viva": `{"tenant":{"id":"t-1","name":"Viva"},"ui":{"langs":["bg","en"],"default":"bg"},"content":{"langs":["bg"],"default":"bg"}}`,
	"cafe": `{"tenant":{"id":"t-2","name":"Cafe"},"ui":{"langs":["en","bg","ru"],"default":"en"},"content":{"langs":["en","bg","ru"],"default":"en"}}`,
}

func fetcher() publicconfig.FetcherFunc {
	return func(_ context.Context, key string) (*publicconfig.Response, error) {
		switch key {
		case "busy":
			return &publicconfig.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": {"60"}}}, nil
		case "broken":
			return &publicconfig.Response{StatusCode: http.StatusBadGateway}, nil
		}
		body, ok := payloads[key]
		if !ok {
			return &publicconfig.Response{StatusCode: http.StatusNotFound}, nil
		}
		return &publicconfig.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
	}
}

func newRouter(t *testing.T, opts ...publicmenu.Option) http.Handler {
	t.Helper()

	resolver, err := publicconfig.NewResolver(fetcher())
	require.NoError(t, err)
	return newRouterWithResolver(t, resolver, opts...)
}

func newRouterWithResolver(t *testing.T, resolver gate.Resolver, opts ...publicmenu.Option) http.Handler {
	t.Helper()

	catalog, err := publicmenu.DefaultCatalog(nil)
	require.NoError(t, err)

	h, err := publicmenu.NewHandler(resolver, catalog, append([]publicmenu.Option{publicmenu.WithWaitTimeout(2 * time.Second)}, opts...)...)
	require.NoError(t, err)

	return publicmenu.Router(publicmenu.RouterOptions{
		Handler:    h,
		Health:     httpserver.HealthCheckHandler(nil),
		HostSuffix: ".menu.example",
	})
}

func newCookies(t *testing.T) *cookie.Manager {
	t.Helper()
	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	return m
}

func do(t *testing.T, h http.Handler, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, httptest.NewRequest(http.MethodGet, target, nil), cookies...)
}

func postLang(t *testing.T, h http.Handler, slug, lang string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/"+slug+"/lang", strings.NewReader(url.Values{"lang": {lang}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, h, req, cookies...)
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) publicmenu.PageResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page publicmenu.PageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	return page
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	catalog, err := publicmenu.DefaultCatalog(nil)
	require.NoError(t, err)
	resolver := publicconfig.MustNewResolver(fetcher())

	_, err = publicmenu.NewHandler(nil, catalog)
	assert.ErrorIs(t, err, publicmenu.ErrNilResolver)

	_, err = publicmenu.NewHandler(resolver, nil)
	assert.ErrorIs(t, err, publicmenu.ErrNilCatalog)
}

func TestPage_SingleLanguageTenant(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	t.Run("renders without lang parameter", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/viva")
		assert.Equal(t, "bg", rec.Header().Get("Content-Language"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		page := decodePage(t, rec)
		assert.Equal(t, "viva", page.Tenant)
		assert.Equal(t, "Viva", page.Name)
		assert.Equal(t, "Меню на Viva", page.Title)
		assert.Equal(t, "bg", page.Lang)
		assert.Equal(t, "bg", page.DefaultLang)
		assert.Equal(t, []string{"bg"}, page.Langs)
		assert.False(t, page.HasMultipleLangs)
		assert.Equal(t, []string{"bg"}, page.ContentLangs)
	})

	t.Run("drops superfluous lang parameter", func(t *testing.T) {
		t.Parallel()

		rec := get(t, h, "/viva?lang=en&table=4")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/viva?table=4", rec.Header().Get("Location"))
	})

	t.Run("slug is case-sensitive", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusNotFound, get(t, h, "/VIVA").Code)
		assert.Equal(t, "viva", decodePage(t, get(t, h, "/viva")).Tenant)
	})
}

func TestPage_MultiLanguageTenant(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	tests := []struct {
		name     string
		target   string
		location string
	}{
		{"adds default lang", "/cafe", "/cafe?lang=en"},
		{"invalid hint falls back to default", "/cafe?lang=xx", "/cafe?lang=en"},
		{"normalizes regional tag", "/cafe?lang=ru-RU", "/cafe?lang=ru"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := get(t, h, tt.target)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}

	t.Run("renders requested language", func(t *testing.T) {
		t.Parallel()

		page := decodePage(t, get(t, h, "/cafe?lang=ru"))
		assert.Equal(t, "ru", page.Lang)
		assert.Equal(t, "en", page.DefaultLang)
		assert.Equal(t, "Меню Cafe", page.Title)
		assert.Equal(t, []string{"en", "bg", "ru"}, page.Langs)
		assert.True(t, page.HasMultipleLangs)
	})
}

func TestPage_Failures(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	notFound := get(t, h, "/ghost")
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Equal(t, "application/json", notFound.Header().Get("Content-Type"))

	t.Run("rate limited looks like not found", func(t *testing.T) {
		busy := get(t, h, "/busy")
		assert.Equal(t, http.StatusNotFound, busy.Code)
		assert.JSONEq(t, notFound.Body.String(), busy.Body.String())
	})

	t.Run("upstream failure is unavailable", func(t *testing.T) {
		rec := get(t, h, "/broken")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "5", rec.Header().Get("Retry-After"))
	})

	t.Run("malformed slug is not found", func(t *testing.T) {
		rec := get(t, h, "/bad%20slug")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSetLang_CookiePreference(t *testing.T) {
	t.Parallel()
	h := newRouter(t, publicmenu.WithCookies(newCookies(t)))

	rec := postLang(t, h, "cafe", "BG")
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/cafe?lang=bg", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// The stored preference wins when the URL carries no hint.
	rec = get(t, h, "/cafe", cookies...)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cafe?lang=bg", rec.Header().Get("Location"))

	// The URL hint wins over the stored preference.
	page := decodePage(t, get(t, h, "/cafe?lang=ru", cookies...))
	assert.Equal(t, "ru", page.Lang)

	t.Run("unknown language selects default", func(t *testing.T) {
		rec := postLang(t, h, "cafe", "de", cookies...)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/cafe?lang=en", rec.Header().Get("Location"))
	})

	t.Run("single language tenant has no parameter", func(t *testing.T) {
		rec := postLang(t, h, "viva", "en")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/viva", rec.Header().Get("Location"))
	})

	t.Run("missing tenant", func(t *testing.T) {
		rec := postLang(t, h, "ghost", "en")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.data))
	for k := range f.data {
		out = append(out, k)
	}
	return out
}

func TestSetLang_RedisPreference(t *testing.T) {
	t.Parallel()

	client := &fakeRedis{data: make(map[string]string)}
	h := newRouter(t,
		publicmenu.WithCookies(newCookies(t)),
		publicmenu.WithRedisPreferences(preference.NewRedisStore(client)),
	)

	rec := postLang(t, h, "cafe", "ru")
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	var visitor *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "visitor" {
			visitor = c
		}
	}
	require.NotNil(t, visitor, "visitor cookie is issued")

	keys := client.keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "visitor:"))
	assert.True(t, strings.HasSuffix(keys[0], ":"+preference.Key("cafe")))
	assert.Equal(t, "ru", client.data[keys[0]])

	rec = get(t, h, "/cafe", visitor)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cafe?lang=ru", rec.Header().Get("Location"))

	// Another visitor keeps the tenant default.
	rec = get(t, h, "/cafe")
	assert.Equal(t, "/cafe?lang=en", rec.Header().Get("Location"))
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := get(t, newRouter(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// lateResolver answers after delay regardless of the caller's context.
type lateResolver struct {
	next  gate.Resolver
	delay time.Duration
	done  chan struct{}
}

func (r *lateResolver) Resolve(_ context.Context, key string) publicconfig.Result {
	defer close(r.done)
	time.Sleep(r.delay)
	return r.next.Resolve(context.Background(), key)
}

func TestPage_ResolutionAfterWaitTimeout(t *testing.T) {
	t.Parallel()

	late := &lateResolver{
		next:  publicconfig.MustNewResolver(fetcher()),
		delay: 150 * time.Millisecond,
		done:  make(chan struct{}),
	}
	h := newRouterWithResolver(t, late,
		publicmenu.WithCookies(newCookies(t)),
		publicmenu.WithWaitTimeout(50*time.Millisecond),
	)

	rec := get(t, h, "/cafe?lang=bg")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	select {
	case <-late.done:
	case <-time.After(2 * time.Second):
		t.Fatal("resolver did not finish")
	}
	assert.Never(t, func() bool {
		return len(rec.Header().Values("Set-Cookie")) > 0
	}, 100*time.Millisecond, 5*time.Millisecond, "no cookie is written after the response")
}

func TestPage_HostRoutes(t *testing.T) {
	t.Parallel()
	h := newRouter(t, publicmenu.WithCookies(newCookies(t)))

	onHost := func(method, target, host string, body io.Reader) *http.Request {
		req := httptest.NewRequest(method, target, body)
		req.Host = host
		return req
	}

	t.Run("subdomain", func(t *testing.T) {
		t.Parallel()

		page := decodePage(t, do(t, h, onHost(http.MethodGet, "/?lang=ru", "cafe.menu.example", nil)))
		assert.Equal(t, "cafe", page.Tenant)
		assert.Equal(t, "ru", page.Lang)

		rec := do(t, h, onHost(http.MethodGet, "/", "cafe.menu.example", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/?lang=en", rec.Header().Get("Location"))
	})

	t.Run("switch language on subdomain", func(t *testing.T) {
		t.Parallel()

		req := onHost(http.MethodPost, "/lang", "cafe.menu.example", strings.NewReader(url.Values{"lang": {"bg"}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := do(t, h, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?lang=bg", rec.Header().Get("Location"))
	})

	t.Run("tenant header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Tenant", "viva")
		assert.Equal(t, "viva", decodePage(t, do(t, h, req)).Tenant)
	})

	t.Run("tenant query", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "viva", decodePage(t, get(t, h, "/?tenant=viva")).Tenant)
	})

	t.Run("bare host has no tenant", func(t *testing.T) {
		t.Parallel()

		rec := do(t, h, onHost(http.MethodGet, "/", "menu.example", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
