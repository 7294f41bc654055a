package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the language used when a tenant declares no usable languages.
const DefaultLanguage = "en"

// maxLangCodeLength is the maximum accepted raw language code length.
const maxLangCodeLength = 35 // RFC 5646 recommends 35 characters max

// NormalizeLang case-folds a language code and strips everything but the
// base subtag, so "de-DE", "DE" and "de_de" all become "de".
// It returns an empty string for empty, oversized or malformed input.
func NormalizeLang(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > maxLangCodeLength {
		return ""
	}

	if tag, err := language.Parse(code); err == nil {
		// Only trust the base when it was spelled out, not inferred from a region
		if base, conf := tag.Base(); conf == language.Exact {
			return base.String()
		}
	}

	// x/text rejects well-formed but unregistered subtags; fall back to a plain split
	code = strings.ToLower(code)
	if idx := strings.IndexAny(code, "-_"); idx >= 0 {
		code = code[:idx]
	}
	if len(code) < 2 || len(code) > 8 {
		return ""
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return ""
		}
	}
	return code
}

// NormalizeLangs normalizes every code, dropping empty and duplicate results
// while keeping first-seen order.
func NormalizeLangs(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		n := NormalizeLang(c)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
