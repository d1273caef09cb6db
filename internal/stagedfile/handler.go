package stagedfile

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	linechatDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/linechat"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*linechatDatamodel.StagedFile, pagination.Descriptor, error)
	Approve(ctx context.Context, id string) (*linechatDatamodel.StagedFile, error)
	Reject(ctx context.Context, id string) (*linechatDatamodel.StagedFile, error)
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

func (h *Handler) GetStagedFiles(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())

	filters := Filters{
		Status:     r.URL.Query().Get("status"),
		EmployeeID: r.URL.Query().Get("employee_id"),
	}

	files, desc, err := h.Service.GetAll(r.Context(), params, filters)
	if err != nil {
		h.Logger.Error("GetStagedFiles: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, files, desc)
}

func (h *Handler) ApproveStagedFile(w http.ResponseWriter, r *http.Request) {
	file, err := h.Service.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, file)
}

func (h *Handler) RejectStagedFile(w http.ResponseWriter, r *http.Request) {
	file, err := h.Service.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, file)
}
