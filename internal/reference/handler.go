package reference

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	referenceDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/reference"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GetAllMerchandise(ctx context.Context, params pagination.Params, filters Filters) ([]*referenceDatamodel.Merchandise, pagination.Descriptor, error)
	GetMerchandiseByID(ctx context.Context, id string) (*referenceDatamodel.Merchandise, error)
	GetAllPackageServices(ctx context.Context, params pagination.Params, filters Filters) ([]*referenceDatamodel.PackageService, pagination.Descriptor, error)
	GetPackageServiceByID(ctx context.Context, id string) (*referenceDatamodel.PackageService, error)
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

func parseFilters(r *http.Request) Filters {
	var filters Filters
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filters.IsActive = &active
		}
	}
	return filters
}

func (h *Handler) GetMerchandise(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())

	items, desc, err := h.Service.GetAllMerchandise(r.Context(), params, parseFilters(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, items, desc)
}

func (h *Handler) GetMerchandiseItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.GetMerchandiseByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, item)
}

func (h *Handler) GetPackageServices(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())

	items, desc, err := h.Service.GetAllPackageServices(r.Context(), params, parseFilters(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, items, desc)
}

func (h *Handler) GetPackageService(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.GetPackageServiceByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, item)
}
