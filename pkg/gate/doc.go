// Package gate decides when a public menu page may render.
//
// A Gate follows one visitor's current tenant key through resolution
// (pkg/publicconfig), language negotiation (pkg/i18n) and language
// application, and exposes the result as a Snapshot:
//
//	g, _ := gate.New(resolver,
//		gate.WithPreferences(prefs),
//		gate.WithLocalizer(localizer),
//	)
//	g.SetTenant(ctx, "viva", r.URL.Query().Get("lang"))
//	snap, err := g.Wait(ctx)
//	switch {
//	case snap.NotFound:
//		// missing or rate limited tenant
//	case snap.Error:
//		// transient failure, offer a retry
//	case snap.CanFetch:
//		// render in snap.Lang and load the menu
//	}
//
// # State
//
// The gate state is Pending, Ready, NotFound or Error, driven by a
// statemachine.Machine. Every SetTenant call resets it to Pending before
// returning, so a ready state is never visible for the wrong tenant. Results
// that arrive for a key that was replaced in the meantime are discarded.
//
// Derive is the pure function behind Snapshot; CanFetch is true only when
// the tenant resolved, is not masked as not found, and its negotiated
// language has been applied to the localizer.
//
// SetPublicLang switches the language of a ready gate without resolving the
// tenant again, persisting the choice to the preference store.
package gate
