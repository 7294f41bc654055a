package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/menukit/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	serve := func(t *testing.T, inbound string) (ctxID, headerID string) {
		t.Helper()
		h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxID = requestid.FromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if inbound != "" {
			req.Header.Set(requestid.Header, inbound)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return ctxID, rec.Header().Get(requestid.Header)
	}

	t.Run("generates when absent", func(t *testing.T) {
		t.Parallel()

		ctxID, headerID := serve(t, "")
		_, err := uuid.Parse(ctxID)
		require.NoError(t, err)
		assert.Equal(t, ctxID, headerID)
	})

	t.Run("reuses valid inbound id", func(t *testing.T) {
		t.Parallel()

		ctxID, headerID := serve(t, "edge-req_42")
		assert.Equal(t, "edge-req_42", ctxID)
		assert.Equal(t, "edge-req_42", headerID)
	})

	for _, bad := range []string{"has space", "semi;colon", "<script>", strings.Repeat("a", 129)} {
		t.Run("replaces invalid "+bad[:min(len(bad), 10)], func(t *testing.T) {
			t.Parallel()

			ctxID, headerID := serve(t, bad)
			assert.NotEqual(t, bad, ctxID)
			_, err := uuid.Parse(ctxID)
			require.NoError(t, err)
			assert.Equal(t, ctxID, headerID)
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(context.Background()))

	ctx := requestid.WithContext(context.Background(), "abc")
	assert.Equal(t, "abc", requestid.FromContext(ctx))
	assert.Equal(t, "abc", requestid.FromContextOrNew(ctx))

	fresh := requestid.FromContextOrNew(context.Background())
	_, err := uuid.Parse(fresh)
	assert.NoError(t, err)

	attr, ok := requestid.LoggerExtractor()(ctx)
	assert.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())

	_, ok = requestid.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}
