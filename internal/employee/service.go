package employee

import (
	"context"
	"log/slog"

	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/core/sanitize"
	employeeDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/employee"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*employeeDatamodel.Employee, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, emp *employeeDatamodel.Employee) error
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// auth_subject is the identity-provider mapping and never arrives via
// a resource PATCH.
var writableColumns = sanitize.MustWritableColumns(&employeeDatamodel.Employee{}, "auth_subject")

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*employeeDatamodel.Employee, pagination.Descriptor, error) {
	employees, desc, err := s.repo.GetAll(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return employees, desc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, dto *CreateEmployeeDTO) (*employeeDatamodel.Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp := dto.ToModel()
	if err := s.repo.Create(ctx, emp); err != nil {
		s.logger.Error("failed to create employee", "code", dto.Code, "error", err)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", emp.ID, "code", emp.Code)
	return emp, nil
}

func (s *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (*employeeDatamodel.Employee, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}

	clean := sanitize.Sanitize(patch, writableColumns)
	if len(clean) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	if err := s.repo.Update(ctx, id, clean); err != nil {
		s.logger.Error("failed to update employee", "employee_id", id, "error", err)
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validation.RequireUUID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete employee", "employee_id", id, "error", err)
		return err
	}

	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}
