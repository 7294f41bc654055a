package i18n

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/menukit/pkg/logger"
)

// Catalog holds the translations of every language the site ships.
// It loads lazily from its adapter on first use and is safe for concurrent use.
type Catalog struct {
	adapter TranslationAdapter
	logger  *slog.Logger

	loadMu       sync.Mutex
	mu           sync.RWMutex
	loaded       bool
	translations map[string]map[string]any
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithCatalogLogger sets the logger used for load diagnostics.
func WithCatalogLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalog creates a catalog backed by adapter. Nothing is loaded until
// Load, Apply on a Localizer, or T is called.
func NewCatalog(adapter TranslationAdapter, opts ...CatalogOption) (*Catalog, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}
	c := &Catalog{
		adapter: adapter,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Load fetches translations from the adapter once. Concurrent callers wait
// for the first load; a failed load is retried on the next call.
func (c *Catalog) Load(ctx context.Context) error {
	if c.isLoaded() {
		return nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if c.isLoaded() {
		return nil
	}

	raw, err := c.adapter.Load(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load translations", logger.Error(err))
		return errors.Join(ErrCatalogLoad, err)
	}

	translations := make(map[string]map[string]any, len(raw))
	for lang, tr := range raw {
		norm := NormalizeLang(lang)
		if norm == "" || tr == nil {
			return fmt.Errorf("%w: invalid language entry %q", ErrCatalogLoad, lang)
		}
		translations[norm] = tr
	}

	c.mu.Lock()
	c.translations = translations
	c.loaded = true
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "translations loaded", slog.Any("languages", c.Languages()))
	return nil
}

func (c *Catalog) isLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Languages returns the sorted list of loaded languages.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	langs := make([]string, 0, len(c.translations))
	for lang := range c.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Has reports whether translations for lang are loaded.
func (c *Catalog) Has(lang string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.translations[lang]
	return ok
}

// T translates key for lang, substituting %{name} placeholders from
// key/value pairs in args. Missing translations fall back to the key.
//
//	// "menu.title": "Menu of %{name}"
//	c.T("en", "menu.title", "name", "Viva") // "Menu of Viva"
func (c *Catalog) T(lang, key string, args ...string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	langMap, ok := c.translations[lang]
	if !ok {
		return sprintf(key, args)
	}
	val, ok := lookup(langMap, key)
	if !ok {
		return sprintf(key, args)
	}
	switch v := val.(type) {
	case string:
		return sprintf(v, args)
	case fmt.Stringer:
		return sprintf(v.String(), args)
	default:
		return sprintf(key, args)
	}
}

// lookup traverses nested maps using dot-separated keys.
func lookup(m map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	current := m
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// sprintf replaces %{name} placeholders; unknown placeholders are kept.
func sprintf(tmpl string, args []string) string {
	if len(args) < 2 {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		params[args[i]] = args[i+1]
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}
