package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/menukit/pkg/tenant"
)

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		ctx := tenant.WithKey(context.Background(), "viva")
		key, ok := tenant.KeyFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "viva", key)
		assert.Equal(t, "viva", tenant.MustKeyFromContext(ctx))
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.KeyFromContext(context.Background())
		assert.False(t, ok)

		_, ok = tenant.KeyFromContext(tenant.WithKey(context.Background(), ""))
		assert.False(t, ok)

		assert.Panics(t, func() { tenant.MustKeyFromContext(context.Background()) })
	})

	t.Run("logger extractor", func(t *testing.T) {
		t.Parallel()

		extract := tenant.LoggerExtractor()

		attr, ok := extract(tenant.WithKey(context.Background(), "viva"))
		assert.True(t, ok)
		assert.Equal(t, "tenant", attr.Key)
		assert.Equal(t, "viva", attr.Value.String())

		_, ok = extract(context.Background())
		assert.False(t, ok)
	})
}
