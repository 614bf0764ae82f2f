// Package logger builds the structured loggers used by the web server.
//
// Loggers are plain *slog.Logger values. Two things are added on top of log/slog:
//
//   - context extractors, which copy request-scoped values (request id, user id) from
//     the record's context into every log line
//   - an optional Sentry destination, enabled when a DSN is configured
//
// A TRACE level sits below DEBUG for the per-stage pipeline logs:
//
//	log := logger.New(logger.LevelTrace, requestIDExtractor)
//	log.Log(ctx, logger.LevelTrace, "stage finished", "stage", "main")
//
// Use NewNope in tests or when logging is disabled.
package logger
