// Package i18n decides which language a public menu visitor sees and
// provides the localization runtime that renders it.
//
// # Negotiation
//
// Negotiate is a pure function over a tenant's declared UI and content
// languages, an optional URL hint and an optional stored preference:
//
//	n := i18n.Negotiate(i18n.LanguageSets{
//		UI: []string{"bg", "en"}, UIDefault: "bg",
//		Content: []string{"bg"}, ContentDefault: "bg",
//	}, r.URL.Query().Get("lang"), stored)
//	// n.Active == "bg", n.Allowed == ["bg"], n.HasChoice == false
//
// Allowed languages are the intersection of both sets; when it is empty the
// content set, then the UI set, then DefaultLanguage is used. The URL hint is
// only consulted when the visitor has a choice. All codes are normalized with
// NormalizeLang ("de-DE" becomes "de"), backed by golang.org/x/text/language.
//
// RewriteLangParam keeps the URL in line with the outcome: the language
// parameter is present only for tenants with more than one language.
//
// # Runtime
//
// A Catalog loads translations once from a TranslationAdapter (MapAdapter,
// or FSAdapter over YAML/JSON files in any fs.FS). A Localizer is the
// per-visitor runtime: Apply waits for the catalog and then switches the
// active language, after which T renders keys in that language.
//
//	catalog, _ := i18n.NewCatalog(i18n.NewFSAdapter(os.DirFS("translations"), "."))
//	loc := i18n.NewLocalizer(catalog)
//	if err := loc.Apply(ctx, n.Active); err != nil {
//		// handle error
//	}
//	title := loc.T("menu.title", "name", "Viva")
package i18n
