// Package tenant identifies the tenant (restaurant) a public request targets.
//
// A tenant is addressed by its key: a short case-sensitive slug such as
// "viva". Keys are opaque; "Viva" and "viva" name different tenants. Only
// SubdomainResolver folds case, since host names are case-insensitive.
// Resolvers extract the raw key from a request (path segment, subdomain,
// header or query parameter), ParseKey normalizes and validates it, and
// Middleware stores the result in the request context where handlers and
// log records pick it up.
//
//	r.Use(tenant.Middleware(tenant.NewPathResolver(1),
//		tenant.WithSkipPaths("/healthz"),
//	))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		key, ok := tenant.KeyFromContext(r.Context())
//		...
//	}
//
// Malformed keys are answered with the same 404 response as unknown tenants.
// LoggerExtractor adds a "tenant" attribute to every record logged with a
// request context.
package tenant
