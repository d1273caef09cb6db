package ticket

import (
	"fmt"
	"time"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	ticketDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/ticket"
)

type CreateTicketDTO struct {
	Title         string     `json:"title"`
	Detail        string     `json:"detail"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	SiteID        *string    `json:"site_id"`
	AssigneeID    *string    `json:"assignee_id"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

func uuidWhenPresent(name string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		v, ok := value.(*string)
		if !ok || v == nil || *v == "" {
			return nil
		}
		if !validation.IsUUID(*v) {
			return internal.NewValidationFieldError(name, fmt.Sprintf("%s must be a valid id", name), internal.ErrCodeInvalidID)
		}
		return nil
	}
}

func (d *CreateTicketDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("title", d.Title).Required().MaxLength(255)
	validator.Field("detail", d.Detail).MaxLength(4000)
	validator.Field("status", d.Status).OneOf(ticketDatamodel.Statuses()...)
	validator.Field("priority", d.Priority).OneOf(ticketDatamodel.Priorities()...)
	validator.Field("site_id", d.SiteID).Custom(uuidWhenPresent("site_id"))
	validator.Field("assignee_id", d.AssigneeID).Custom(uuidWhenPresent("assignee_id"))

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// ToModel leaves Code empty; the repository assigns it on insert.
func (d *CreateTicketDTO) ToModel(reporterID string) *ticketDatamodel.Ticket {
	t := &ticketDatamodel.Ticket{
		Title:         d.Title,
		Detail:        d.Detail,
		Status:        ticketDatamodel.StatusOpen,
		Priority:      ticketDatamodel.PriorityNormal,
		SiteID:        d.SiteID,
		AssigneeID:    d.AssigneeID,
		ScheduledDate: d.ScheduledDate,
	}
	if d.Status != "" {
		t.Status = d.Status
	}
	if d.Priority != "" {
		t.Priority = d.Priority
	}
	if reporterID != "" {
		t.ReporterID = &reporterID
	}
	return t
}

type Filters struct {
	Status     string
	AssigneeID string
	SiteID     string
}
