package stagedfile

import (
	"context"
	"log/slog"
	"time"

	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	linechatDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/linechat"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
)

type Filters struct {
	Status     string
	EmployeeID string
}

type RepositoryAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*linechatDatamodel.StagedFile, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*linechatDatamodel.StagedFile, error)
	Review(ctx context.Context, id, status string) (*linechatDatamodel.StagedFile, error)
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service covers the reviewer side of the staged-file lifecycle: the
// bot creates and links files, reviewers approve or reject them here,
// and the background sweeper expires the leftovers.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*linechatDatamodel.StagedFile, pagination.Descriptor, error) {
	files, desc, err := s.repo.GetAll(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list staged files", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return files, desc, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*linechatDatamodel.StagedFile, error) {
	return s.review(ctx, id, linechatDatamodel.FileStatusApproved)
}

func (s *Service) Reject(ctx context.Context, id string) (*linechatDatamodel.StagedFile, error) {
	return s.review(ctx, id, linechatDatamodel.FileStatusRejected)
}

func (s *Service) review(ctx context.Context, id, status string) (*linechatDatamodel.StagedFile, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}

	file, err := s.repo.Review(ctx, id, status)
	if err != nil {
		s.logger.Error("failed to review staged file", "file_id", id, "status", status, "error", err)
		return nil, err
	}

	s.logger.Info("staged file reviewed", "file_id", id, "status", status)
	return file, nil
}

// ExpirePending marks pending files older than ttl as expired and
// returns how many rows moved.
func (s *Service) ExpirePending(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := s.now().Add(-ttl)

	expired, err := s.repo.ExpireOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to expire staged files", "cutoff", cutoff, "error", err)
		return 0, err
	}

	if expired > 0 {
		s.logger.Info("expired staged files", "count", expired, "cutoff", cutoff)
	}
	return expired, nil
}
