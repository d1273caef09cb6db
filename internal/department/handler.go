package department

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/nattapongw/fieldservice/internal/core/pagination"
	departmentDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/department"
	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*departmentDatamodel.Department, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, dto *CreateDepartmentDTO) (*departmentDatamodel.Department, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*departmentDatamodel.Department, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) ([]SummaryRow, error)
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

func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())

	var filters Filters
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filters.IsActive = &active
		}
	}

	depts, desc, err := h.Service.GetAll(r.Context(), params, filters)
	if err != nil {
		h.Logger.Error("GetDepartments: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, depts, desc)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dept, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, dept)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var dto CreateDepartmentDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	dept, err := h.Service.Create(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateDepartment: created", "department_id", dept.ID, "code", dept.Code)
	h.WriteData(w, http.StatusCreated, dept)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch map[string]interface{}
	if appErr := h.DecodeJSONBody(r, &patch); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	dept, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, dept)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]string{"message": "department deleted"})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.Summary(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, rows)
}

// ExportSummary streams the summary as an xlsx workbook.
func (h *Handler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.Summary(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	buf, err := GenerateSummaryWorkbook(rows)
	if err != nil {
		h.Logger.Error("ExportSummary: workbook generation failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to generate export")
		return
	}

	filename := fmt.Sprintf("department-summary-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
