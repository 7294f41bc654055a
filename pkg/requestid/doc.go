// Package requestid attaches a correlation ID to every public request and
// carries it to the upstream configuration API.
//
// Middleware accepts a well-formed inbound X-Request-ID or generates a UUID,
// stores it in the request context and echoes it back. LoggerExtractor adds it
// to log records, and FromContextOrNew lets outbound fetches forward it:
//
//	r.Use(requestid.Middleware)
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	req.Header.Set(requestid.Header, requestid.FromContextOrNew(ctx))
package requestid
