package reference

import (
	"context"
	"log/slog"

	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	referenceDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/reference"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
)

type Filters struct {
	IsActive *bool
}

type RepositoryAPI interface {
	GetAllMerchandise(ctx context.Context, params pagination.Params, filters Filters) ([]*referenceDatamodel.Merchandise, pagination.Descriptor, error)
	GetMerchandiseByID(ctx context.Context, id string) (*referenceDatamodel.Merchandise, error)
	GetAllPackageServices(ctx context.Context, params pagination.Params, filters Filters) ([]*referenceDatamodel.PackageService, pagination.Descriptor, error)
	GetPackageServiceByID(ctx context.Context, id string) (*referenceDatamodel.PackageService, error)
}

// Service is read-only; reference rows are loaded by the seeder.
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

func (s *Service) GetAllMerchandise(ctx context.Context, params pagination.Params, filters Filters) ([]*referenceDatamodel.Merchandise, pagination.Descriptor, error) {
	items, desc, err := s.repo.GetAllMerchandise(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list merchandise", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return items, desc, nil
}

func (s *Service) GetMerchandiseByID(ctx context.Context, id string) (*referenceDatamodel.Merchandise, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}
	return s.repo.GetMerchandiseByID(ctx, id)
}

func (s *Service) GetAllPackageServices(ctx context.Context, params pagination.Params, filters Filters) ([]*referenceDatamodel.PackageService, pagination.Descriptor, error) {
	items, desc, err := s.repo.GetAllPackageServices(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list package services", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return items, desc, nil
}

func (s *Service) GetPackageServiceByID(ctx context.Context, id string) (*referenceDatamodel.PackageService, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}
	return s.repo.GetPackageServiceByID(ctx, id)
}
