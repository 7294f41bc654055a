package publicmenu

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/menukit/pkg/cookie"
	"github.com/dmitrymomot/menukit/pkg/gate"
	"github.com/dmitrymomot/menukit/pkg/i18n"
	"github.com/dmitrymomot/menukit/pkg/logger"
	"github.com/dmitrymomot/menukit/pkg/preference"
	"github.com/dmitrymomot/menukit/pkg/tenant"
)

const (
	defaultWaitTimeout = 10 * time.Second
	visitorCookie      = "visitor"
	langField          = "lang"
)

// Handler serves the public page of a tenant. Every request runs its own
// gate: resolve the tenant, negotiate the language, apply it, then render.
type Handler struct {
	resolver    gate.Resolver
	catalog     *i18n.Catalog
	cookies     *cookie.Manager
	redisPrefs  *preference.RedisStore
	waitTimeout time.Duration
	logger      *slog.Logger
}

// NewHandler creates a Handler resolving tenants through resolver and
// translating with catalog.
func NewHandler(resolver gate.Resolver, catalog *i18n.Catalog, opts ...Option) (*Handler, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	if catalog == nil {
		return nil, ErrNilCatalog
	}

	h := &Handler{
		resolver:    resolver,
		catalog:     catalog,
		waitTimeout: defaultWaitTimeout,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(logger.Component("publicmenu"))
	return h, nil
}

// PageResponse is the JSON body of a rendered page.
type PageResponse struct {
	Tenant           string   `json:"tenant"`
	Name             string   `json:"name,omitempty"`
	Title            string   `json:"title"`
	Lang             string   `json:"lang"`
	DefaultLang      string   `json:"default_lang"`
	Langs            []string `json:"langs"`
	HasMultipleLangs bool     `json:"has_multiple_langs"`
	ContentLangs     []string `json:"content_langs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// visit is one request's view of the gate.
type visit struct {
	gate      *gate.Gate
	localizer *i18n.Localizer
	snap      gate.Snapshot
}

// Page handles GET /{slug}.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.KeyFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.waitTimeout)
	defer cancel()

	v, err := h.open(ctx, w, r, key, r.URL.Query().Get(i18n.DefaultQueryParam))
	if v != nil {
		defer v.gate.Close()
	}
	if !h.usable(ctx, w, v, err) {
		return
	}

	if target, changed := i18n.RewriteLangParam(r.URL, i18n.DefaultQueryParam, negotiated(v.snap)); changed {
		http.Redirect(w, r, target.String(), http.StatusFound)
		return
	}

	ctx = i18n.SetLocale(ctx, v.snap.Lang)
	h.logger.DebugContext(ctx, "rendering page")

	rec := v.snap.Record
	title := v.localizer.T("menu.untitled")
	if rec.TenantName != "" {
		title = v.localizer.T("menu.title", "name", rec.TenantName)
	}

	w.Header().Set("Content-Language", v.snap.Lang)
	w.Header().Set("Vary", "Cookie")
	h.writeJSON(w, http.StatusOK, PageResponse{
		Tenant:           key,
		Name:             rec.TenantName,
		Title:            title,
		Lang:             v.snap.Lang,
		DefaultLang:      v.snap.DefaultLang,
		Langs:            v.snap.Langs,
		HasMultipleLangs: v.snap.HasMultipleLangs,
		ContentLangs:     rec.ContentLanguages,
	})
}

// SetLang handles POST /{slug}/lang: switches the visitor's language and
// redirects to the canonical page URL.
func (h *Handler) SetLang(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.KeyFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.waitTimeout)
	defer cancel()

	// The requested code doubles as the hint so the preference is written
	// while resolving and SetPublicLang has nothing left to persist.
	code := r.FormValue(langField)
	v, err := h.open(ctx, w, r, key, code)
	if v != nil {
		defer v.gate.Close()
	}
	if !h.usable(ctx, w, v, err) {
		return
	}

	n, err := v.gate.SetPublicLang(ctx, code)
	if err != nil {
		h.unavailable(ctx, w, err)
		return
	}
	if _, err := v.gate.Wait(ctx); err != nil {
		h.unavailable(ctx, w, err)
		return
	}

	target, _ := i18n.RewriteLangParam(&url.URL{Path: pagePath(r, key)}, i18n.DefaultQueryParam, n)
	http.Redirect(w, r, target.String(), http.StatusSeeOther)
}

// open runs a gate for key and waits for it to settle. A gate that did not
// settle is closed before open returns, so its preference store never touches
// w once the caller starts writing the response.
func (h *Handler) open(ctx context.Context, w http.ResponseWriter, r *http.Request, key, hint string) (*visit, error) {
	loc := i18n.NewLocalizer(h.catalog)
	g, err := gate.New(h.resolver,
		gate.WithPreferences(h.preferences(w, r)),
		gate.WithLocalizer(loc),
		gate.WithLogger(h.logger),
	)
	if err != nil {
		return nil, err
	}

	g.SetTenant(ctx, key, hint)
	snap, err := g.Wait(ctx)
	if err != nil {
		g.Close()
	}
	return &visit{gate: g, localizer: loc, snap: snap}, err
}

// usable writes the error response for a visit that cannot render and
// reports whether the caller may continue.
func (h *Handler) usable(ctx context.Context, w http.ResponseWriter, v *visit, err error) bool {
	switch {
	case v == nil:
		h.logger.ErrorContext(ctx, "failed to start gate", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError)
		return false
	case v.snap.NotFound:
		h.writeError(w, http.StatusNotFound)
		return false
	case err != nil:
		h.unavailable(ctx, w, err)
		return false
	case v.snap.Error:
		h.unavailable(ctx, w, v.snap.Err)
		return false
	case !v.snap.CanFetch:
		h.unavailable(ctx, w, gate.ErrNotReady)
		return false
	}
	return true
}

func (h *Handler) unavailable(ctx context.Context, w http.ResponseWriter, err error) {
	level := slog.LevelError
	if errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	h.logger.Log(ctx, level, "page unavailable", logger.Error(err))
	w.Header().Set("Retry-After", "5")
	h.writeError(w, http.StatusServiceUnavailable)
}

// preferences picks where the visitor's language is kept: Redis scoped to a
// visitor cookie, the signed cookie itself, or nowhere.
func (h *Handler) preferences(w http.ResponseWriter, r *http.Request) preference.Store {
	switch {
	case h.cookies == nil:
		return preference.NewMemoryStore()
	case h.redisPrefs != nil:
		return h.redisPrefs.Scoped(visitorCookie + ":" + h.visitorID(w, r))
	default:
		return preference.NewCookieStore(h.cookies, w, r)
	}
}

func (h *Handler) visitorID(w http.ResponseWriter, r *http.Request) string {
	if id, err := h.cookies.GetSigned(r, visitorCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	h.cookies.SetSigned(w, visitorCookie, id)
	return id
}

// pagePath is "/{slug}" on path routes and "/" when the tenant came from the
// host, a header or the query.
func pagePath(r *http.Request, key string) string {
	if chi.URLParam(r, "slug") == "" {
		return "/"
	}
	return "/" + key
}

func negotiated(s gate.Snapshot) i18n.Negotiated {
	return i18n.Negotiated{
		Active:        s.Lang,
		Allowed:       s.Langs,
		ServerDefault: s.DefaultLang,
		HasChoice:     s.HasMultipleLangs,
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int) {
	h.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", logger.Error(err))
	}
}
