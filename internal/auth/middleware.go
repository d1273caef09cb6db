package auth

import (
	"log/slog"
	"net/http"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/transport"
	"github.com/nattapongw/fieldservice/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// AuthMiddleware resolves the bearer token into an actor and attaches
// it to the request context. Requests without a valid token and a
// matching active employee never reach a handler.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteErrorCode(w, http.StatusUnauthorized, "missing authorization token", string(internal.ErrCodeInvalidToken))
			return
		}

		actor, err := h.Service.Authenticate(token)
		if err != nil {
			h.Logger.Warn("authentication failed", "error", err)

			switch err {
			case ErrTokenExpired:
				h.WriteErrorCode(w, http.StatusUnauthorized, "token has expired", string(internal.ErrCodeTokenExpired))
			case ErrEmployeeInactive:
				h.WriteErrorCode(w, http.StatusUnauthorized, "employee account is inactive", string(internal.ErrCodeAccountInactive))
			default:
				h.WriteErrorCode(w, http.StatusUnauthorized, "invalid token", string(internal.ErrCodeInvalidToken))
			}
			return
		}

		ctx := ContextWithActor(r.Context(), actor)
		ctx = internal.ContextWithActorID(ctx, actor.EmployeeID)
		ctx = logger.With(ctx, "actor_id", actor.EmployeeID, "actor_level", actor.Level())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Me returns the resolved actor for the presented token; clients use it
// to bootstrap their session after login.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteErrorCode(w, http.StatusUnauthorized, "authentication required", string(internal.ErrCodeInvalidToken))
		return
	}

	h.WriteData(w, http.StatusOK, actor)
}
