package publicconfig_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/menukit/pkg/i18n"
	"github.com/dmitrymomot/menukit/pkg/publicconfig"
)

func TestParsePayload(t *testing.T) {
	t.Parallel()

	t.Run("normalizes languages and defaults", func(t *testing.T) {
		t.Parallel()

		rec, err := publicconfig.ParsePayload([]byte(`{
			"ui": {"langs": ["EN", "bg-BG", "en-US", ""], "default": "en-GB"},
			"content": {"langs": ["bg", "de"], "default": "fr"}
		}`))
		require.NoError(t, err)

		assert.Equal(t, []string{"en", "bg"}, rec.UILanguages)
		assert.Equal(t, "en", rec.UIDefault)
		assert.Equal(t, []string{"bg", "de"}, rec.ContentLanguages)
		assert.Equal(t, "bg", rec.ContentDefault, "foreign default replaced by first language")
		assert.Empty(t, rec.TenantID)
	})

	t.Run("empty sets fall back to default language", func(t *testing.T) {
		t.Parallel()

		rec, err := publicconfig.ParsePayload([]byte(`{"ui":{"langs":[]},"content":{}}`))
		require.NoError(t, err)

		assert.Equal(t, []string{i18n.DefaultLanguage}, rec.UILanguages)
		assert.Equal(t, i18n.DefaultLanguage, rec.UIDefault)
		assert.Equal(t, []string{i18n.DefaultLanguage}, rec.ContentLanguages)
		assert.Equal(t, i18n.DefaultLanguage, rec.ContentDefault)
	})

	t.Run("tenant attributes", func(t *testing.T) {
		t.Parallel()

		rec, err := publicconfig.ParsePayload([]byte(vivaPayload))
		require.NoError(t, err)
		assert.Equal(t, "t-1", rec.TenantID)
		assert.Equal(t, "Viva", rec.TenantName)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		for _, body := range []string{"", "<html>", `["en"]`, `{"ui":{"langs":"en"}}`} {
			_, err := publicconfig.ParsePayload([]byte(body))
			assert.ErrorIs(t, err, publicconfig.ErrMalformedPayload, body)
		}
	})
}

func TestRecord_Payload(t *testing.T) {
	t.Parallel()

	rec, err := publicconfig.ParsePayload([]byte(vivaPayload))
	require.NoError(t, err)

	body, err := json.Marshal(rec.Payload())
	require.NoError(t, err)
	assert.JSONEq(t, vivaPayload, string(body))

	sets := rec.LanguageSets()
	sets.UI[0] = "xx"
	assert.Equal(t, "bg", rec.UILanguages[0], "language sets are copies")
}
