package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/pkg/logger"
)

// DataResponse wraps every single-object payload.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ListResponse wraps list payloads together with their pagination
// block.
type ListResponse struct {
	Data       interface{}           `json:"data"`
	Pagination pagination.Descriptor `json:"pagination"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a raw JSON response without the data envelope.
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteData writes a payload inside the data envelope.
func (h *BaseHandler) WriteData(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, DataResponse{Data: data})
}

// WriteList writes a list payload with its pagination block.
func (h *BaseHandler) WriteList(w http.ResponseWriter, status int, data interface{}, desc pagination.Descriptor) {
	h.WriteJSON(w, status, ListResponse{Data: data, Pagination: desc})
}

// WriteError writes an error envelope.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteErrorCode(w, status, message, "")
}

func (h *BaseHandler) WriteErrorCode(w http.ResponseWriter, status int, message, code string) {
	h.Logger.Error("http error", "status", status, "message", message, "code", code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code}); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// HandleServiceError maps a service error onto the error envelope. App
// errors carry their own status; anything else is an opaque 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteErrorCode(w, appErr.StatusCode, appErr.GetDetailedMessage(), string(appErr.Code))
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.WriteErrorCode(w, http.StatusInternalServerError, "internal server error", string(internal.ErrCodeDatabaseError))
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}

// DecodeJSONBody decodes a request body into dst, rejecting malformed
// payloads with a validation error.
func (h *BaseHandler) DecodeJSONBody(r *http.Request, dst interface{}) *internal.AppError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeInvalidPayload)
	}
	return nil
}
