package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	orderIDKey   contextKey = "order_id"
	runIDKey     contextKey = "run_id"
	candidateKey contextKey = "candidate"
	requestIDKey contextKey = "request_id"
	loggerKey    contextKey = "logger"
)

// WithOrderID adds the order being repaired to context
func WithOrderID(ctx context.Context, orderID string) context.Context {
	return context.WithValue(ctx, orderIDKey, orderID)
}

// WithRunID adds the warranty run ID to context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithCandidate adds the pool candidate currently probed to context
func WithCandidate(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, candidateKey, username)
}

// WithRequestID adds the HTTP request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithLogger stores a prepared logger in context
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts logger from context with all accumulated fields
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}

	var fields []zap.Field
	for _, key := range []contextKey{requestIDKey, runIDKey, orderIDKey, candidateKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields = append(fields, zap.String(string(key), v))
		}
	}

	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// DurationField returns a zap field for duration in milliseconds
func DurationField(durationMs int64) zap.Field {
	return zap.Int64("duration_ms", durationMs)
}

// CountField returns a zap field for a record count
func CountField(count int) zap.Field {
	return zap.Int("count", count)
}
