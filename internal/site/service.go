package site

import (
	"context"
	"log/slog"

	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/core/sanitize"
	siteDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/site"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*siteDatamodel.Site, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*siteDatamodel.Site, error)
	Create(ctx context.Context, s *siteDatamodel.Site) error
	FindOrCreate(ctx context.Context, s *siteDatamodel.Site) (*siteDatamodel.Site, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

var writableColumns = sanitize.MustWritableColumns(&siteDatamodel.Site{})

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

func (s *Service) GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*siteDatamodel.Site, pagination.Descriptor, error) {
	sites, desc, err := s.repo.GetAll(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list sites", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return sites, desc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*siteDatamodel.Site, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, dto *CreateSiteDTO) (*siteDatamodel.Site, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	site := dto.ToModel()
	if err := s.repo.Create(ctx, site); err != nil {
		s.logger.Error("failed to create site", "code", dto.Code, "error", err)
		return nil, err
	}

	s.logger.Info("site created", "site_id", site.ID, "code", site.Code)
	return site, nil
}

// FindOrCreate resolves a site by its code, creating it when absent.
// The storage layer upserts, so concurrent callers converge on one row.
func (s *Service) FindOrCreate(ctx context.Context, dto *CreateSiteDTO) (*siteDatamodel.Site, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.repo.FindOrCreate(ctx, dto.ToModel())
}

func (s *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (*siteDatamodel.Site, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}

	clean := sanitize.Sanitize(patch, writableColumns)
	if len(clean) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	if err := s.repo.Update(ctx, id, clean); err != nil {
		s.logger.Error("failed to update site", "site_id", id, "error", err)
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validation.RequireUUID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete site", "site_id", id, "error", err)
		return err
	}

	s.logger.Info("site deleted", "site_id", id)
	return nil
}
