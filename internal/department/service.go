package department

import (
	"context"
	"log/slog"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/core/sanitize"
	departmentDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*departmentDatamodel.Department, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, dept *departmentDatamodel.Department) error
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) ([]SummaryRow, error)
}

// writableColumns is the allow-list for update payloads, derived from
// the model so schema changes never drift past the sanitizer.
var writableColumns = sanitize.MustWritableColumns(&departmentDatamodel.Department{})

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

func (s *Service) GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*departmentDatamodel.Department, pagination.Descriptor, error) {
	depts, desc, err := s.repo.GetAll(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return depts, desc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*departmentDatamodel.Department, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, dto *CreateDepartmentDTO) (*departmentDatamodel.Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dept := dto.ToModel()
	if err := s.repo.Create(ctx, dept); err != nil {
		s.logger.Error("failed to create department", "code", dto.Code, "error", err)
		return nil, err
	}

	s.logger.Info("department created", "department_id", dept.ID, "code", dept.Code)
	return dept, nil
}

// Update patches the allowed subset of fields. An update that sanitizes
// down to nothing is a no-op and returns the current record.
func (s *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (*departmentDatamodel.Department, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}

	clean := sanitize.Sanitize(patch, writableColumns)
	if len(clean) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	if err := s.repo.Update(ctx, id, clean); err != nil {
		s.logger.Error("failed to update department", "department_id", id, "error", err)
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validation.RequireUUID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete department", "department_id", id, "error", err)
		return err
	}

	s.logger.Info("department deleted", "department_id", id)
	return nil
}

// Summary tallies employees per department, inactive departments included.
func (s *Service) Summary(ctx context.Context) ([]SummaryRow, error) {
	rows, err := s.repo.Summary(ctx)
	if err != nil {
		s.logger.Error("failed to build department summary", "error", err)
		return nil, internal.NewDatabaseError("could not build department summary", err)
	}
	return rows, nil
}
