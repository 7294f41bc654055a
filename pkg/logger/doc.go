// Package logger builds *slog.Logger instances with functional options,
// context-driven attributes and shared attribute helpers.
//
// New wraps a text or JSON handler in LogHandlerDecorator, which runs every
// registered ContextExtractor on each record, so request-scoped values such
// as the tenant slug or the environment end up in logs without being passed
// around:
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Parse(cfg.AppEnv), cfg.ServiceName),
//		logger.WithContextExtractors(tenant.LoggerExtractor(), environment.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "config resolved",
//		logger.Tenant("viva"),
//		logger.Outcome("succeeded"),
//		logger.Duration(time.Since(start)),
//	)
//
// Error and Errors return an empty Attr for nil errors, so they can be passed
// unconditionally. Packages that accept a logger default to Discard.
package logger
