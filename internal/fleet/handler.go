package fleet

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	fleetDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/fleet"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*fleetDatamodel.Vehicle, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*fleetDatamodel.Vehicle, error)
	Create(ctx context.Context, dto *CreateVehicleDTO) (*fleetDatamodel.Vehicle, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*fleetDatamodel.Vehicle, error)
	Delete(ctx context.Context, id string) error
	RecordPosition(ctx context.Context, vehicleID string, dto *RecordPositionDTO) (*fleetDatamodel.VehiclePosition, error)
	GetPositions(ctx context.Context, vehicleID string, params pagination.Params) ([]*fleetDatamodel.VehiclePosition, pagination.Descriptor, error)
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

func (h *Handler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())

	var filters Filters
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filters.IsActive = &active
		}
	}
	filters.AssigneeID = r.URL.Query().Get("assignee_id")

	vehicles, desc, err := h.Service.GetAll(r.Context(), params, filters)
	if err != nil {
		h.Logger.Error("GetVehicles: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, vehicles, desc)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, v)
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var dto CreateVehicleDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	v, err := h.Service.Create(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateVehicle: created", "vehicle_id", v.ID)
	h.WriteData(w, http.StatusCreated, v)
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if appErr := h.DecodeJSONBody(r, &patch); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	v, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, v)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]string{"message": "vehicle deleted"})
}

func (h *Handler) RecordPosition(w http.ResponseWriter, r *http.Request) {
	var dto RecordPositionDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	pos, err := h.Service.RecordPosition(r.Context(), chi.URLParam(r, "id"), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, pos)
}

func (h *Handler) GetPositions(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())

	positions, desc, err := h.Service.GetPositions(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, positions, desc)
}
