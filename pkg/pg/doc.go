// Package pg bootstraps the PostgreSQL pool used when tenant configuration is
// read straight from the admin database instead of over HTTP.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if cfg.Migrate {
//		if err := pg.Migrate(ctx, pool, pgsource.Migrations, pgsource.MigrationsDir, cfg, log); err != nil {
//			return err
//		}
//	}
//
//	health := pg.Healthcheck(pool)
//
// Connect retries with a linearly growing wait (RetryInterval, 2x, 3x...) and
// stops as soon as ctx is done. Migrate runs goose against the same pool.
package pg
