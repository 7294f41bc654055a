package publicmenu

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/menukit/pkg/requestid"
	"github.com/dmitrymomot/menukit/pkg/tenant"
)

// RouterOptions configures the public site router.
type RouterOptions struct {
	Handler *Handler
	// Health is mounted at /healthz when set.
	Health http.Handler
	// Middlewares run before routing, after request ID assignment.
	Middlewares []func(http.Handler) http.Handler
	// HostSuffix enables tenant subdomains, e.g. ".menu.example" serves
	// viva.menu.example at /.
	HostSuffix string
}

// Router creates the public site router:
//
//	GET  /healthz
//	GET  /            tenant from subdomain, X-Tenant header or ?tenant=
//	POST /lang
//	GET  /{slug}
//	POST /{slug}/lang
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.Recoverer)
	r.Use(opts.Middlewares...)

	if opts.Health != nil {
		r.Method(http.MethodGet, "/healthz", opts.Health)
	}

	h := opts.Handler
	r.Group(func(r chi.Router) {
		r.Use(
			tenant.Middleware(tenant.NewPathResolver(1), tenant.WithLogger(h.logger)),
			tenant.RequireTenant(nil),
		)
		r.Get("/{slug}", h.Page)
		r.Post("/{slug}/lang", h.SetLang)
	})

	hostResolvers := []tenant.Resolver{tenant.NewHeaderResolver(""), tenant.NewQueryResolver("")}
	if opts.HostSuffix != "" {
		hostResolvers = append([]tenant.Resolver{tenant.NewSubdomainResolver(opts.HostSuffix)}, hostResolvers...)
	}
	r.Group(func(r chi.Router) {
		r.Use(
			tenant.Middleware(tenant.NewCompositeResolver(hostResolvers...), tenant.WithLogger(h.logger)),
			tenant.RequireTenant(nil),
		)
		r.Get("/", h.Page)
		r.Post("/lang", h.SetLang)
	})

	return r
}
