// Package observability provides structured logging and tracing
// support for the field selection library.
//
// The Logger interface wraps zap behind a small facade so that library
// packages do not depend on a concrete logging implementation:
//
//	logger, err := observability.NewLogger(observability.LogConfig{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("request processed",
//	    observability.String("method", "GET"),
//	    observability.Int("status", 200),
//	)
//
// Tracing uses the globally registered OpenTelemetry tracer provider;
// the library only creates spans and never configures export.
package observability
