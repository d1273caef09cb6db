package leave

import (
	"time"

	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	leaveDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/leave"
)

type CreateLeaveRequestDTO struct {
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	DateFrom   time.Time `json:"date_from"`
	DateTo     time.Time `json:"date_to"`
	Reason     string    `json:"reason"`
}

func (d *CreateLeaveRequestDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("leave_type", d.LeaveType).Required().OneOf(leaveDatamodel.Types()...)
	validator.Field("reason", d.Reason).MaxLength(1000)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}

	if appErr := validation.ValidateDateRange(d.DateFrom, d.DateTo); appErr != nil {
		return appErr
	}
	return nil
}

func (d *CreateLeaveRequestDTO) ToModel() *leaveDatamodel.LeaveRequest {
	return &leaveDatamodel.LeaveRequest{
		EmployeeID: d.EmployeeID,
		LeaveType:  d.LeaveType,
		DateFrom:   d.DateFrom,
		DateTo:     d.DateTo,
		Reason:     d.Reason,
		Status:     leaveDatamodel.StatusPending,
	}
}

type RejectLeaveRequestDTO struct {
	Reason string `json:"reason"`
}

type Filters struct {
	Status     string
	EmployeeID string
}
