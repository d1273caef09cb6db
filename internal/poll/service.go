package poll

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/auth"
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	"github.com/nattapongw/fieldservice/internal/core/pagination"
	"github.com/nattapongw/fieldservice/internal/core/sanitize"
	pollDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/poll"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*pollDatamodel.Poll, pagination.Descriptor, error)
	GetByID(ctx context.Context, id string) (*pollDatamodel.Poll, error)
	Create(ctx context.Context, p *pollDatamodel.Poll) error
	Update(ctx context.Context, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	UpsertVote(ctx context.Context, vote *pollDatamodel.PollVote) (*pollDatamodel.PollVote, error)
}

var writableColumns = sanitize.MustWritableColumns(&pollDatamodel.Poll{})

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

func (s *Service) GetAll(ctx context.Context, params pagination.Params, filters Filters) ([]*pollDatamodel.Poll, pagination.Descriptor, error) {
	polls, desc, err := s.repo.GetAll(ctx, params, filters)
	if err != nil {
		s.logger.Error("failed to list polls", "error", err)
		return nil, pagination.Descriptor{}, err
	}
	return polls, desc, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*pollDatamodel.Poll, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, dto *CreatePollDTO) (*pollDatamodel.Poll, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := dto.ToModel()
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create poll", "question", dto.Question, "error", err)
		return nil, err
	}

	s.logger.Info("poll created", "poll_id", p.ID, "choices", len(p.Choices))
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch map[string]interface{}) (*pollDatamodel.Poll, error) {
	if err := validation.RequireUUID(id); err != nil {
		return nil, err
	}

	clean := sanitize.Sanitize(patch, writableColumns)
	if len(clean) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	// choices arrive as raw JSON; re-validate and re-type before writing
	if raw, ok := clean["choices"]; ok {
		choices, err := coerceChoices(raw)
		if err != nil {
			return nil, err
		}
		clean["choices"] = pollDatamodel.ChoiceList(choices)
	}

	if err := s.repo.Update(ctx, id, clean); err != nil {
		s.logger.Error("failed to update poll", "poll_id", id, "error", err)
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validation.RequireUUID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete poll", "poll_id", id, "error", err)
		return err
	}

	s.logger.Info("poll deleted", "poll_id", id)
	return nil
}

// Vote records the actor's answer. The (poll, employee) pair is unique:
// repeating the same choice is idempotent, switching choices is refused.
func (s *Service) Vote(ctx context.Context, actor *auth.Actor, pollID string, dto *VoteDTO) (*pollDatamodel.PollVote, error) {
	if err := validation.RequireUUID(pollID); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !p.AcceptsVotes(s.now()) {
		return nil, internal.NewValidationError("poll is closed", internal.ErrCodePollClosed)
	}
	if !p.Choices.HasChoice(dto.ChoiceID) {
		return nil, internal.NewValidationError("choice does not belong to this poll", internal.ErrCodeInvalidChoice)
	}

	vote, err := s.repo.UpsertVote(ctx, &pollDatamodel.PollVote{
		PollID:     pollID,
		EmployeeID: actor.EmployeeID,
		ChoiceID:   dto.ChoiceID,
	})
	if err != nil {
		s.logger.Error("failed to record vote", "poll_id", pollID, "employee_id", actor.EmployeeID, "error", err)
		return nil, err
	}

	if vote.ChoiceID != dto.ChoiceID {
		return nil, internal.NewValidationError("already voted on this poll", internal.ErrCodeAlreadyVoted)
	}

	s.logger.Info("vote recorded", "poll_id", pollID, "employee_id", actor.EmployeeID, "choice_id", vote.ChoiceID)
	return vote, nil
}

func coerceChoices(raw interface{}) ([]pollDatamodel.Choice, error) {
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, internal.NewValidationError("choices are malformed", internal.ErrCodeInvalidChoice)
	}
	var choices []pollDatamodel.Choice
	if err := json.Unmarshal(buf, &choices); err != nil {
		return nil, internal.NewValidationError("choices are malformed", internal.ErrCodeInvalidChoice)
	}
	if appErr := validateChoices(choices); appErr != nil {
		return nil, appErr
	}
	return choices, nil
}
