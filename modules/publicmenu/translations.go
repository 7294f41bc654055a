package publicmenu

import (
	"embed"
	"log/slog"

	"github.com/dmitrymomot/menukit/pkg/i18n"
)

//go:embed translations/*.yaml
var translationsFS embed.FS

// DefaultCatalog returns a catalog over the translations shipped with the
// module. It is used when no translations directory is configured.
func DefaultCatalog(log *slog.Logger) (*i18n.Catalog, error) {
	return i18n.NewCatalog(
		i18n.NewFSAdapter(translationsFS, "translations"),
		i18n.WithCatalogLogger(log),
	)
}
