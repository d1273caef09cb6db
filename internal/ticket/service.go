package ticket

import (
	"context"
	"log/slog"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/auth"
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/core/sanitize"
	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*ticketDatamodel.Ticket, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*ticketDatamodel.Ticket, error)
	GetByCode(ctx context.Context, code string) (*ticketDatamodel.Ticket, error)
	Create(ctx context.Context, t *ticketDatamodel.Ticket) error
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// code is server-assigned and reporter_id is stamped from the actor.
var writableColumns = sanitize.MustWritableColumns(&ticketDatamodel.Ticket{}, "code", "reporter_id")

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

func (s *Service) GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*ticketDatamodel.Ticket, pagination.Descriptor, error) {
	tickets, desc, err := s.repo.GetAll(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list tickets", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return tickets, desc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*ticketDatamodel.Ticket, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor *auth.Actor, dto *CreateTicketDTO) (*ticketDatamodel.Ticket, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	reporterID := ""
	if actor != nil {
		reporterID = actor.EmployeeID
	}

	t := dto.ToModel(reporterID)
	if err := s.repo.Create(ctx, t); err != nil {
		s.logger.Error("failed to create ticket", "title", dto.Title, "error", err)
		return nil, err
	}

	s.logger.Info("ticket created", "ticket_id", t.ID, "code", t.Code)
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (*ticketDatamodel.Ticket, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}

	clean := sanitize.Sanitize(patch, writableColumns)
	if len(clean) == 0 {
		return s.repo.GetByID(ctx, id)
	}
	if err := validatePatchedEnums(clean); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, clean); err != nil {
		s.logger.Error("failed to update ticket", "ticket_id", id, "error", err)
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validation.RequireUUID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete ticket", "ticket_id", id, "error", err)
		return err
	}

	s.logger.Info("ticket deleted", "ticket_id", id)
	return nil
}

func validatePatchedEnums(patch map[string]interface{}) error {
	if raw, ok := patch["status"]; ok {
		if v, isStr := raw.(string); !isStr || !contains(ticketDatamodel.Statuses(), v) {
			return internal.NewValidationError("status is invalid", internal.ErrCodeInvalidStatus)
		}
	}
	if raw, ok := patch["priority"]; ok {
		if v, isStr := raw.(string); !isStr || !contains(ticketDatamodel.Priorities(), v) {
			return internal.NewValidationError("priority is invalid", internal.ErrCodeInvalidStatus)
		}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
