package employee

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/nattapongw/fieldservice/internal/core/pagination"
	employeeDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/employee"
	"github.com/nattapongw/fieldservice/internal/transport"
)

type ServiceAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*employeeDatamodel.Employee, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, dto *CreateEmployeeDTO) (*employeeDatamodel.Employee, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (*employeeDatamodel.Employee, error)
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

func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r.URL.Query())

	var filters Filters
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filters.IsActive = &active
		}
	}
	filters.DepartmentID = r.URL.Query().Get("department_id")
	filters.RoleID = r.URL.Query().Get("role_id")

	employees, desc, err := h.Service.GetAll(r.Context(), params, filters)
	if err != nil {
		h.Logger.Error("GetEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteList(w, http.StatusOK, employees, desc)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, emp)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if appErr := h.DecodeJSONBody(r, &dto); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	emp, err := h.Service.Create(r.Context(), &dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEmployee: created", "employee_id", emp.ID, "code", emp.Code)
	h.WriteData(w, http.StatusCreated, emp)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if appErr := h.DecodeJSONBody(r, &patch); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	emp, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, emp)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, map[string]string{"message": "employee deleted"})
}
