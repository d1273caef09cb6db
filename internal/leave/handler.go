package leave

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/nattapongw/fieldservice/internal/auth"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	leaveDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/leave"
	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*leaveDatamodel.LeaveRequest, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*leaveDatamodel.LeaveRequest, error)
	Create(ctx context.Context, actor *auth.Actor, dto *CreateLeaveRequestDTO) (*leaveDatamodel.LeaveRequest, error)
	Update(ctx context.Context, actor *auth.Actor, id string, patch map[string]interface{}) (*leaveDatamodel.LeaveRequest, error)
	Delete(ctx context.Context, actor *auth.Actor, id string) error
	Approve(ctx context.Context, actor *auth.Actor, id string) (*leaveDatamodel.LeaveRequest, error)
	Reject(ctx context.Context, actor *auth.Actor, id, reason string) (*leaveDatamodel.LeaveRequest, error)
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

func (h *Handler) GetLeaveRequests(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())
	filters := Filters{
		Status:     r.URL.Query().Get("status"),
		EmployeeID: r.URL.Query().Get("employee_id"),
	}

	requests, desc, err := h.Service.GetAll(r.Context(), params, filters)
	if err != nil {
		h.Logger.Error("GetLeaveRequests: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, requests, desc)
}

func (h *Handler) GetLeaveRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, req)
}

func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateLeaveRequestDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	req, err := h.Service.Create(r.Context(), actor, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateLeaveRequest: created",
		"leave_request_id", req.ID,
		"employee_id", req.EmployeeID)
	h.WriteData(w, http.StatusCreated, req)
}

func (h *Handler) UpdateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var patch map[string]interface{}
	if appErr := h.DecodeJSONBody(r, &patch); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	req, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, req)
}

func (h *Handler) DeleteLeaveRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]string{"message": "leave request deleted"})
}

func (h *Handler) ApproveLeaveRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	req, err := h.Service.Approve(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("ApproveLeaveRequest: approved", "leave_request_id", req.ID, "decided_by", actor.EmployeeID)
	h.WriteData(w, http.StatusOK, req)
}

func (h *Handler) RejectLeaveRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// reject body is optional; an absent reason is recorded as empty
	var dto RejectLeaveRequestDTO
	if r.Body != nil && r.ContentLength != 0 {
		if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
			h.HandleServiceError(w, appErr)
			return
		}
	}

	req, err := h.Service.Reject(r.Context(), actor, chi.URLParam(r, "id"), dto.Reason)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("RejectLeaveRequest: rejected", "leave_request_id", req.ID, "decided_by", actor.EmployeeID)
	h.WriteData(w, http.StatusOK, req)
}
