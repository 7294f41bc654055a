// Command publicsite serves the public pages of restaurant tenants.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/menukit/modules/publicmenu"
	"github.com/dmitrymomot/menukit/pkg/config"
	"github.com/dmitrymomot/menukit/pkg/cookie"
	"github.com/dmitrymomot/menukit/pkg/environment"
	"github.com/dmitrymomot/menukit/pkg/httpserver"
	"github.com/dmitrymomot/menukit/pkg/i18n"
	"github.com/dmitrymomot/menukit/pkg/logger"
	"github.com/dmitrymomot/menukit/pkg/pg"
	"github.com/dmitrymomot/menukit/pkg/preference"
	"github.com/dmitrymomot/menukit/pkg/publicconfig"
	"github.com/dmitrymomot/menukit/pkg/publicconfig/pgsource"
	"github.com/dmitrymomot/menukit/pkg/redis"
	"github.com/dmitrymomot/menukit/pkg/requestid"
	"github.com/dmitrymomot/menukit/pkg/tenant"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("publicsite stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}

	env := environment.Parse(app.AppEnv)
	log := logger.New(
		logger.WithEnvironment(env, app.ServiceName),
		logger.WithContextExtractors(
			environment.LoggerExtractor(),
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
			i18n.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)
	ctx = environment.WithContext(ctx, env)

	var pcCfg publicconfig.Config
	if err := config.Load(&pcCfg); err != nil {
		return err
	}

	var checks []httpserver.Check

	fetcher, closeFetcher, err := newFetcher(ctx, app, pcCfg, log)
	if err != nil {
		return err
	}
	defer closeFetcher()
	if pool, ok := fetcher.(*pooledSource); ok {
		checks = append(checks, httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(pool.pool)})
	}

	resolver, err := publicconfig.NewResolver(fetcher,
		publicconfig.WithConfig(pcCfg),
		publicconfig.WithLogger(log),
	)
	if err != nil {
		return err
	}
	if len(app.PrefetchTenants) > 0 {
		if err := resolver.Prefetch(ctx, app.PrefetchTenants...); err != nil {
			log.WarnContext(ctx, "tenant prefetch incomplete", logger.Error(err))
		}
	}

	catalog, err := newCatalog(app, log)
	if err != nil {
		return err
	}
	if err := catalog.Load(ctx); err != nil {
		return err
	}

	opts := []publicmenu.Option{
		publicmenu.WithLogger(log),
		publicmenu.WithWaitTimeout(app.WaitTimeout),
	}

	var cookieCfg cookie.Config
	if err := config.Load(&cookieCfg); err != nil {
		log.WarnContext(ctx, "cookie secrets not configured, language preferences are not persisted", logger.Error(err))
	} else {
		cookies, err := cookie.NewFromConfig(cookieCfg)
		if err != nil {
			return err
		}
		opts = append(opts, publicmenu.WithCookies(cookies))

		client, err := connectRedis(ctx, log)
		if err != nil {
			return err
		}
		if client != nil {
			defer client.Close()
			checks = append(checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)})
			opts = append(opts, publicmenu.WithRedisPreferences(
				preference.NewRedisStore(client, preference.WithTTL(app.PreferenceTTL)),
			))
		}
	}

	handler, err := publicmenu.NewHandler(resolver, catalog, opts...)
	if err != nil {
		return err
	}

	var srvCfg httpserver.Config
	if err := config.Load(&srvCfg); err != nil {
		return err
	}
	srv := httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(log))

	return srv.Run(ctx, publicmenu.Router(publicmenu.RouterOptions{
		Handler:     handler,
		Health:      httpserver.HealthCheckHandler(log, checks...),
		Middlewares: []func(next http.Handler) http.Handler{environment.Middleware(env)},
		HostSuffix:  app.TenantHostSuffix,
	}))
}

// pooledSource is a Postgres-backed fetcher that owns its pool.
type pooledSource struct {
	*pgsource.Source
	pool *pgxpool.Pool
}

func newFetcher(ctx context.Context, app appConfig, cfg publicconfig.Config, log *slog.Logger) (publicconfig.Fetcher, func(), error) {
	if app.ConfigSource != sourcePostgres {
		f, err := publicconfig.NewHTTPFetcher(cfg.BaseURL, publicconfig.WithFetchTimeout(cfg.FetchTimeout))
		if err != nil {
			return nil, nil, err
		}
		log.InfoContext(ctx, "using http config source", slog.String("base_url", cfg.BaseURL))
		return f, func() {}, nil
	}

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, nil, err
	}
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, nil, err
	}
	if pgCfg.Migrate {
		if err := pg.Migrate(ctx, pool, pgsource.Migrations, pgsource.MigrationsDir, pgCfg, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	log.InfoContext(ctx, "using postgres config source")
	return &pooledSource{Source: pgsource.New(pool), pool: pool}, pool.Close, nil
}

func newCatalog(app appConfig, log *slog.Logger) (*i18n.Catalog, error) {
	if app.TranslationsDir == "" {
		return publicmenu.DefaultCatalog(log)
	}
	return i18n.NewCatalog(
		i18n.NewFSAdapter(os.DirFS(app.TranslationsDir), "."),
		i18n.WithCatalogLogger(log),
	)
}

// connectRedis returns nil when Redis is not configured.
func connectRedis(ctx context.Context, log *slog.Logger) (*goredis.Client, error) {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return nil, nil
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("redis preferences: %w", err)
	}
	log.InfoContext(ctx, "language preferences stored in redis")
	return client, nil
}
