package fleet

import (
	"fmt"
	"time"

	"github.com/nattapongw/fieldservice/internal"
	"github.com/nattapongw/fieldservice/internal/core/common/validation"
	fleetDatamodel "github.com/nattapongw/fieldservice/internal/core/datamodel/fleet"
)

type CreateVehicleDTO struct {
	PlateNumber string  `json:"plate_number"`
	Model       string  `json:"model"`
	AssigneeID  *string `json:"assignee_id"`
	IsActive    *bool   `json:"is_active"`
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

func (d *CreateVehicleDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("plate_number", d.PlateNumber).Required().MaxLength(20)
	validator.Field("model", d.Model).MaxLength(100)
	validator.Field("assignee_id", d.AssigneeID).Custom(uuidWhenPresent("assignee_id"))

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (d *CreateVehicleDTO) ToModel() *fleetDatamodel.Vehicle {
	v := &fleetDatamodel.Vehicle{
		PlateNumber: d.PlateNumber,
		Model:       d.Model,
		AssigneeID:  d.AssigneeID,
		IsActive:    true,
	}
	if d.IsActive != nil {
		v.IsActive = *d.IsActive
	}
	return v
}

type RecordPositionDTO struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	SpeedKMH   *float64   `json:"speed_kmh"`
	RecordedAt *time.Time `json:"recorded_at"`
}

func (d *RecordPositionDTO) Validate() error {
	if d.Latitude < -90 || d.Latitude > 90 {
		return internal.NewValidationFieldError("latitude", "latitude must be between -90 and 90", internal.ErrCodeValidationFailed)
	}
	if d.Longitude < -180 || d.Longitude > 180 {
		return internal.NewValidationFieldError("longitude", "longitude must be between -180 and 180", internal.ErrCodeValidationFailed)
	}
	if d.SpeedKMH != nil && *d.SpeedKMH < 0 {
		return internal.NewValidationFieldError("speed_kmh", "speed_kmh must not be negative", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ToModel stamps recorded_at with now when the device omitted it.
func (d *RecordPositionDTO) ToModel(vehicleID string, now time.Time) *fleetDatamodel.VehiclePosition {
	pos := &fleetDatamodel.VehiclePosition{
		VehicleID:  vehicleID,
		Latitude:   d.Latitude,
		Longitude:  d.Longitude,
		SpeedKMH:   d.SpeedKMH,
		RecordedAt: now,
	}
	if d.RecordedAt != nil {
		pos.RecordedAt = *d.RecordedAt
	}
	return pos
}

type Filters struct {
	IsActive   *bool
	AssigneeID string
}
