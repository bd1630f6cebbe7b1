package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithRequestID stores base annotated with the request id in the context.
func WithRequestID(ctx context.Context, base *zap.Logger, requestID string) context.Context {
	if requestID == "" {
		return ContextWithLogger(ctx, base)
	}
	return ContextWithLogger(ctx, base.With(zap.String("request_id", requestID)))
}

// FromContext extracts a logger from the context.
// Returns zap.NewNop() if no logger is found.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
