package poll

import (
	"time"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	pollDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/poll"
)

type CreatePollDTO struct {
	Question string                 `json:"question"`
	Choices  []pollDatamodel.Choice `json:"choices"`
	IsOpen   *bool                  `json:"is_open"`
	ClosesAt *time.Time             `json:"closes_at"`
}

func (d *CreatePollDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("question", d.Question).Required().MaxLength(500)
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}

	if appErr := validateChoices(d.Choices); appErr != nil {
		return appErr
	}
	return nil
}

func validateChoices(choices []pollDatamodel.Choice) *internal.AppError {
	if len(choices) < 2 {
		return internal.NewValidationError("poll needs at least two choices", internal.ErrCodeInvalidChoice)
	}
	seen := make(map[string]bool, len(choices))
	for _, c := range choices {
		if c.ID == "" || c.Label == "" {
			return internal.NewValidationError("every choice needs an id and a label", internal.ErrCodeInvalidChoice)
		}
		if seen[c.ID] {
			return internal.NewValidationError("choice ids must be unique", internal.ErrCodeInvalidChoice)
		}
		seen[c.ID] = true
	}
	return nil
}

func (d *CreatePollDTO) ToModel() *pollDatamodel.Poll {
	p := &pollDatamodel.Poll{
		Question: d.Question,
		Choices:  pollDatamodel.ChoiceList(d.Choices),
		IsOpen:   true,
		ClosesAt: d.ClosesAt,
	}
	if d.IsOpen != nil {
		p.IsOpen = *d.IsOpen
	}
	return p
}

type VoteDTO struct {
	ChoiceID string `json:"choice_id"`
}

func (d *VoteDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("choice_id", d.ChoiceID).Required()
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type Filters struct {
	IsOpen *bool
}
