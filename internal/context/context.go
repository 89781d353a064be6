package ctx

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	LoggerContextKey contextKey = "logger"
)

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// GetLoggerFromContext returns the request logger, or the standard logger
// when none was attached.
func GetLoggerFromContext(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(LoggerContextKey).(*logrus.Entry); ok {
		return logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
