// Package publicmenu is the public site of a restaurant tenant.
//
// GET /{slug} resolves the tenant configuration, negotiates the language from
// the lang query parameter and the visitor's stored preference, and answers:
//
//   - 404 when the tenant does not exist or is rate limited upstream;
//   - 503 when the configuration could not be fetched;
//   - 302 to the canonical URL when the lang parameter is missing, stale or
//     superfluous for a single-language tenant;
//   - 200 with the page state and a translated title otherwise.
//
// POST /{slug}/lang switches the language, persists it and redirects (303)
// to the canonical page. Preferences live in signed cookies, or in Redis
// keyed by a visitor cookie when WithRedisPreferences is set.
package publicmenu
