// Package logging builds the collector's slog loggers and carries them
// through context.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// levelFromEnv reads LOG_LEVEL. Unknown or unset values mean info.
func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerOptions() *slog.HandlerOptions {
	level := levelFromEnv()
	return &slog.HandlerOptions{
		Level: level,
		// Source locations only when the level is permissive enough that
		// warnings and errors land in the output anyway.
		AddSource: level <= slog.LevelWarn,
	}
}

// NewLogger creates a JSON logger for production output.
// LOG_LEVEL selects the level: debug, info, warn, error.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, handlerOptions()))
}

// NewTextLogger creates a text logger for local development.
func NewTextLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, handlerOptions()))
}

// WithFields returns a logger carrying the given key-value pairs on every
// record.
func WithFields(logger *slog.Logger, fields map[string]interface{}) *slog.Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

type contextKey string

const loggerContextKey contextKey = "logger"

// WithLogger stores a logger in the context, typically scoped to one
// collection task.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext returns the context's logger, or slog.Default() when none was
// stored.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
