package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With attaches fields to the logger carried by ctx. Middleware layers
// call it as the request moves inward (request id, then actor), so a
// handler's From(ctx) already carries the full request identity.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// From returns the logger carried by ctx, falling back to the
// process-wide logger when the context has none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
