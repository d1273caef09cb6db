package middleware

import (
	"context"
	"net/http"

	"github.com/nattapongw/fieldservice/pkg/logger"

	"github.com/google/uuid"
)

type traceIDKey struct{}

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		// inject into context
		ctx := context.WithValue(r.Context(), traceIDKey{}, traceID)
		ctx = logger.With(ctx, "traceID", traceID)

		// propagate back to response
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TraceID returns the id issued by RequestID for this request, or the
// empty string when the middleware is not installed.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}
