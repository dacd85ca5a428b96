// Package logger configures the application's slog-based JSON logging
// and provides context helpers for carrying request-scoped loggers
// through service and store layers.
package logger
