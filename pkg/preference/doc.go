// Package preference remembers the language a visitor last chose for each
// tenant, under the key "public.lang.<tenant>".
//
// Three stores are provided: MemoryStore for tests and single-process use,
// RedisStore for replicas sharing state, and CookieStore which keeps the value
// with the visitor in a signed cookie.
//
//	prefs := preference.NewCookieStore(cookies, w, r, cookie.WithMaxAge(365*24*3600))
//	stored, _ := prefs.Get(ctx, "viva")
//	_ = prefs.Set(ctx, "viva", "bg")
//
// An empty string from Get means no preference. Failures to persist are
// reported but never block rendering; the gate treats them as best effort.
package preference
