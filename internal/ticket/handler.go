package ticket

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/nattapongw/fieldservice/internal/auth"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*ticketDatamodel.Ticket, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*ticketDatamodel.Ticket, error)
	Create(ctx context.Context, actor *auth.Actor, dto *CreateTicketDTO) (*ticketDatamodel.Ticket, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*ticketDatamodel.Ticket, error)
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

func (h *Handler) GetTickets(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())
	filters := Filters{
		Status:     r.URL.Query().Get("status"),
		AssigneeID: r.URL.Query().Get("assignee_id"),
		SiteID:     r.URL.Query().Get("site_id"),
	}

	tickets, desc, err := h.Service.GetAll(r.Context(), params, filters)
	if err != nil {
		h.Logger.Error("GetTickets: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, tickets, desc)
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, t)
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTicketDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	t, err := h.Service.Create(r.Context(), actor, &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateTicket: created", "ticket_id", t.ID, "code", t.Code, "reporter_id", actor.EmployeeID)
	h.WriteData(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if appErr := h.DecodeJSONBody(r, &patch); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	t, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, t)
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]string{"message": "ticket deleted"})
}
