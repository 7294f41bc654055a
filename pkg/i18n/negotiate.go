package i18n

import (
	"slices"
	"strings"
)

// LanguageSets is the language declaration of one tenant as served by the
// configuration endpoint.
type LanguageSets struct {
	UI             []string
	UIDefault      string
	Content        []string
	ContentDefault string
}

// Negotiated is the outcome of language negotiation for one tenant visit.
type Negotiated struct {
	// Active is the language to apply. Always an element of Allowed.
	Active string
	// Allowed is the ordered set of languages a visitor may pick from.
	Allowed []string
	// ServerDefault is the tenant's default language within Allowed.
	ServerDefault string
	// HasChoice is true when more than one language is allowed.
	HasChoice bool
}

// Allows reports whether code, once normalized, is an allowed language.
func (n Negotiated) Allows(code string) bool {
	return slices.Contains(n.Allowed, NormalizeLang(code))
}

// Select normalizes code and returns it when allowed, otherwise the server default.
func (n Negotiated) Select(code string) string {
	if c := NormalizeLang(code); c != "" && slices.Contains(n.Allowed, c) {
		return c
	}
	return n.ServerDefault
}

// WithActive returns a copy of n with Active re-selected from code.
// Used for user-initiated switches that must not re-fetch configuration.
func (n Negotiated) WithActive(code string) Negotiated {
	n.Allowed = slices.Clone(n.Allowed)
	n.Active = n.Select(code)
	return n
}

// Negotiate computes the active language for a tenant.
//
// Allowed languages are the intersection of UI and content languages (in UI
// order), falling back to content languages, then UI languages, then
// DefaultLanguage. The candidate is the URL hint when the tenant offers a
// choice, else the stored preference, else the server default; a candidate
// that is not allowed resolves to the server default.
func Negotiate(sets LanguageSets, hint, stored string) Negotiated {
	ui := NormalizeLangs(sets.UI)
	content := NormalizeLangs(sets.Content)

	allowed := intersect(ui, content)
	switch {
	case len(allowed) > 0:
	case len(content) > 0:
		allowed = content
	case len(ui) > 0:
		allowed = ui
	default:
		allowed = []string{DefaultLanguage}
	}

	n := Negotiated{
		Allowed:       allowed,
		ServerDefault: serverDefault(allowed, NormalizeLang(sets.UIDefault), NormalizeLang(sets.ContentDefault)),
		HasChoice:     len(allowed) > 1,
	}

	var candidate string
	switch {
	case n.HasChoice && strings.TrimSpace(hint) != "":
		candidate = hint
	case strings.TrimSpace(stored) != "":
		candidate = stored
	default:
		candidate = n.ServerDefault
	}
	n.Active = n.Select(candidate)

	return n
}

// serverDefault prefers the UI default, then the content default, then the
// first allowed language. Agreeing defaults collapse to the first case.
func serverDefault(allowed []string, uiDefault, contentDefault string) string {
	for _, d := range []string{uiDefault, contentDefault} {
		if d != "" && slices.Contains(allowed, d) {
			return d
		}
	}
	return allowed[0]
}

func intersect(a, b []string) []string {
	out := make([]string, 0, len(a))
	for _, v := range a {
		if slices.Contains(b, v) {
			out = append(out, v)
		}
	}
	return out
}
