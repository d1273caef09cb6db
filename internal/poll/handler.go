package poll

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/nattapongw/fieldservice/internal/auth"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	pollDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/poll"
	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*pollDatamodel.Poll, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*pollDatamodel.Poll, error)
	Create(ctx context.Context, dto *CreatePollDTO) (*pollDatamodel.Poll, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*pollDatamodel.Poll, error)
	Delete(ctx context.Context, id string) error
	Vote(ctx context.Context, actor *auth.Actor, pollID string, dto *VoteDTO) (*pollDatamodel.PollVote, error)
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

func (h *Handler) GetPolls(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())

	var filters Filters
	if raw := r.URL.Query().Get("is_open"); raw != "" {
		if open, err := strconv.ParseBool(raw); err == nil {
			filters.IsOpen = &open
		}
	}

	polls, desc, err := h.Service.GetAll(r.Context(), params, filters)
	if err != nil {
		h.Logger.Error("GetPolls: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, polls, desc)
}

func (h *Handler) GetPoll(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, p)
}

func (h *Handler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var dto CreatePollDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	p, err := h.Service.Create(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreatePoll: created", "poll_id", p.ID)
	h.WriteData(w, http.StatusCreated, p)
}

func (h *Handler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if appErr := h.DecodeJSONBody(r, &patch); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	p, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, p)
}

func (h *Handler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]string{"message": "poll deleted"})
}

func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto VoteDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	vote, err := h.Service.Vote(r.Context(), actor, chi.URLParam(r, "id"), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Vote: recorded", "poll_id", vote.PollID, "employee_id", actor.EmployeeID)
	h.WriteData(w, http.StatusCreated, vote)
}
