// Package environment carries the deployment environment (development,
// staging, production) through configuration, request contexts and logs.
//
//	env := environment.Parse(cfg.AppEnv)
//	r.Use(environment.Middleware(env))
//	log := logger.New(logger.WithContextExtractors(environment.LoggerExtractor()))
package environment
