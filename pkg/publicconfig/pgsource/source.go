// Package pgsource serves tenant configuration straight from the restaurants
// table, for deployments where the public site runs next to the admin database.
package pgsource

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/menukit/pkg/pg"
	"github.com/dmitrymomot/menukit/pkg/publicconfig"
)

// Migrations holds the schema the queries below rely on.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations passed to pg.Migrate.
const MigrationsDir = "migrations"

const selectConfig = `SELECT id::text, name, ui_languages, ui_default, content_languages, content_default
FROM restaurants
WHERE slug = $1 AND published`

var ErrQueryFailed = errors.New("pgsource: config query failed")

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Source implements publicconfig.Fetcher over Postgres. A missing or
// unpublished restaurant is reported as a 404 so the resolver caches it the
// same way as the HTTP endpoint.
type Source struct {
	db Querier
}

// New creates a source reading through db.
func New(db Querier) *Source {
	return &Source{db: db}
}

var _ publicconfig.Fetcher = (*Source)(nil)

func (s *Source) Fetch(ctx context.Context, key string) (*publicconfig.Response, error) {
	var (
		id, name             string
		uiLangs, ctLangs     []string
		uiDefault, ctDefault string
	)
	err := s.db.QueryRow(ctx, selectConfig, key).Scan(&id, &name, &uiLangs, &uiDefault, &ctLangs, &ctDefault)
	if pg.IsNotFoundError(err) {
		return &publicconfig.Response{StatusCode: http.StatusNotFound, Header: http.Header{}}, nil
	}
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	body, err := json.Marshal(publicconfig.Payload{
		Tenant:  &publicconfig.TenantInfo{ID: id, Name: name},
		UI:      publicconfig.LanguageBlock{Langs: uiLangs, Default: uiDefault},
		Content: publicconfig.LanguageBlock{Langs: ctLangs, Default: ctDefault},
	})
	if err != nil {
		return nil, err
	}

	return &publicconfig.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       body,
	}, nil
}
