package search

import (
	"context"
	"net/http"

	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GlobalSearch(ctx context.Context, q string) (*Results, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.Service.GlobalSearch(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, results)
}
