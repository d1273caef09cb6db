package site

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/nattapongw/fieldservice/internal/core/pagination"
	siteDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/site"
	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*siteDatamodel.Site, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*siteDatamodel.Site, error)
	Create(ctx context.Context, dto *CreateSiteDTO) (*siteDatamodel.Site, error)
	FindOrCreate(ctx context.Context, dto *CreateSiteDTO) (*siteDatamodel.Site, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*siteDatamodel.Site, error)
	Delete(ctx context.Context, id string) error
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

func (h *Handler) GetSites(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())

	var filters Filters
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filters.IsActive = &active
		}
	}
	filters.Province = r.URL.Query().Get("province")

	sites, desc, err := h.Service.GetAll(r.Context(), params, filters)
	if err != nil {
		h.Logger.Error("GetSites: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, sites, desc)
}

func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	site, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, site)
}

func (h *Handler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var dto CreateSiteDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	site, err := h.Service.Create(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateSite: created", "site_id", site.ID, "code", site.Code)
	h.WriteData(w, http.StatusCreated, site)
}

// FindOrCreateSite resolves a site by code, creating it when absent.
// Fleet imports and bulk ticket intake use it to land on one row per
// code without a preflight lookup.
func (h *Handler) FindOrCreateSite(w http.ResponseWriter, r *http.Request) {
	var dto CreateSiteDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	site, err := h.Service.FindOrCreate(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, site)
}

func (h *Handler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if appErr := h.DecodeJSONBody(r, &patch); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	site, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, site)
}

func (h *Handler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]string{"message": "site deleted"})
}
