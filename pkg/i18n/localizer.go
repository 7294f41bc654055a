package i18n

import (
	"context"
	"sync"
)

// Localizer is the active localization runtime of one visitor: it binds a
// Catalog to the language currently applied.
type Localizer struct {
	catalog *Catalog
	mu      sync.RWMutex
	lang    string
}

// NewLocalizer creates a localizer with no language applied yet.
func NewLocalizer(catalog *Catalog) *Localizer {
	return &Localizer{catalog: catalog}
}

// Apply makes lang the active language once the catalog is available.
// A language without shipped translations is still applied; lookups then
// fall back to keys so the page always renders in some language.
func (l *Localizer) Apply(ctx context.Context, lang string) error {
	norm := NormalizeLang(lang)
	if norm == "" {
		return ErrInvalidLanguage
	}
	if err := l.catalog.Load(ctx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	l.lang = norm
	l.mu.Unlock()
	return nil
}

// Language returns the applied language, or an empty string before the first Apply.
func (l *Localizer) Language() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lang
}

// T translates key in the applied language.
func (l *Localizer) T(key string, args ...string) string {
	lang := l.Language()
	if lang == "" {
		lang = DefaultLanguage
	}
	return l.catalog.T(lang, key, args...)
}
