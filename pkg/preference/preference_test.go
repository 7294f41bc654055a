package preference_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/menukit/pkg/cookie"
	"github.com/dmitrymomot/menukit/pkg/preference"
)

func TestKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "public.lang.viva", preference.Key("viva"))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := preference.NewMemoryStore()

	lang, err := s.Get(ctx, "viva")
	require.NoError(t, err)
	assert.Empty(t, lang)

	require.NoError(t, s.Set(ctx, "viva", "bg"))
	require.NoError(t, s.Set(ctx, "bistro", "en"))

	lang, err = s.Get(ctx, "viva")
	require.NoError(t, err)
	assert.Equal(t, "bg", lang)

	assert.ErrorIs(t, s.Set(ctx, "", "bg"), preference.ErrEmptyTenant)
	_, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, preference.ErrEmptyTenant)
}

type mockRedis struct {
	mock.Mock
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

func (m *mockRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return redis.NewStatusResult(args.String(0), args.Error(1))
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	t.Run("get and set with ttl", func(t *testing.T) {
		t.Parallel()

		client := &mockRedis{}
		client.On("Set", mock.Anything, "public.lang.viva", "bg", time.Hour).Return("OK", nil)
		client.On("Get", mock.Anything, "public.lang.viva").Return("bg", nil)

		s := preference.NewRedisStore(client, preference.WithTTL(time.Hour))
		require.NoError(t, s.Set(context.Background(), "viva", "bg"))

		lang, err := s.Get(context.Background(), "viva")
		require.NoError(t, err)
		assert.Equal(t, "bg", lang)
		client.AssertExpectations(t)
		// Reads leave the lifetime set by the last write.
		client.AssertNumberOfCalls(t, "Set", 1)
	})

	t.Run("missing key is empty", func(t *testing.T) {
		t.Parallel()

		client := &mockRedis{}
		client.On("Get", mock.Anything, "public.lang.viva").Return("", redis.Nil)

		lang, err := preference.NewRedisStore(client).Get(context.Background(), "viva")
		require.NoError(t, err)
		assert.Empty(t, lang)
	})

	t.Run("namespaced keys", func(t *testing.T) {
		t.Parallel()

		client := &mockRedis{}
		client.On("Get", mock.Anything, "visitor-1:public.lang.viva").Return("en", nil)

		s := preference.NewRedisStore(client).Scoped("visitor-1")
		lang, err := s.Get(context.Background(), "viva")
		require.NoError(t, err)
		assert.Equal(t, "en", lang)
	})

	t.Run("server errors", func(t *testing.T) {
		t.Parallel()

		client := &mockRedis{}
		client.On("Get", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))
		client.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

		s := preference.NewRedisStore(client)
		_, err := s.Get(context.Background(), "viva")
		assert.ErrorIs(t, err, preference.ErrStoreUnavailable)
		assert.ErrorIs(t, s.Set(context.Background(), "viva", "bg"), preference.ErrStoreUnavailable)
	})
}

func TestCookieStore(t *testing.T) {
	t.Parallel()

	manager, err := cookie.New([]string{"this-is-a-very-long-secret-key-32-chars-long"})
	require.NoError(t, err)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	s := preference.NewCookieStore(manager, rec, httptest.NewRequest(http.MethodGet, "/viva", nil))

	lang, err := s.Get(ctx, "viva")
	require.NoError(t, err)
	assert.Empty(t, lang)

	require.NoError(t, s.Set(ctx, "viva", "bg"))
	require.NoError(t, s.Set(ctx, "viva", "bg"))

	lang, err = s.Get(ctx, "viva")
	require.NoError(t, err)
	assert.Equal(t, "bg", lang, "value written in this request is visible")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1, "repeated identical writes set one cookie")
	assert.Equal(t, "public.lang.viva", cookies[0].Name)

	next := httptest.NewRequest(http.MethodGet, "/viva", nil)
	next.AddCookie(cookies[0])
	lang, err = preference.NewCookieStore(manager, httptest.NewRecorder(), next).Get(ctx, "viva")
	require.NoError(t, err)
	assert.Equal(t, "bg", lang)

	forged := httptest.NewRequest(http.MethodGet, "/viva", nil)
	forged.AddCookie(&http.Cookie{Name: "public.lang.viva", Value: "en"})
	lang, err = preference.NewCookieStore(manager, httptest.NewRecorder(), forged).Get(ctx, "viva")
	require.NoError(t, err)
	assert.Empty(t, lang, "unsigned values are ignored")
}
