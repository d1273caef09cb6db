package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/auth"
	"github.com/nattapongw/fieldservice/internal/transport"
)

// RequireLevel gates a route sub-tree on a minimum permission level.
// It runs after the auth middleware and fails fast before any handler
// or data access.
func RequireLevel(minLevel int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFromContext(r.Context())
			if !ok || actor == nil {
				writeGateError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken))
				return
			}

			if err := auth.RequireLevel(actor, minLevel); err != nil {
				slog.Warn("access denied: insufficient permission level",
					"actor_id", actor.EmployeeID,
					"actor_level", actor.Level(),
					"required_level", minLevel,
					"path", r.URL.Path)
				if appErr, isApp := internal.IsAppError(err); isApp {
					writeGateError(w, appErr)
				} else {
					writeGateError(w, internal.NewInternalError("authorization check failed", err))
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin gates on the top of the level ladder.
func RequireSuperAdmin() func(http.Handler) http.Handler {
	return RequireLevel(auth.LevelSuperAdmin)
}

func writeGateError(w http.ResponseWriter, appErr *internal.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(transport.ErrorResponse{
		Error: appErr.Message,
		Code:  string(appErr.Code),
	})
}
