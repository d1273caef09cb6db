package fleet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	PlateNumber string    `json:"plate_number" gorm:"column:plate_number;uniqueIndex;not null"`
	Model       string    `json:"model" gorm:"column:model"`
	AssigneeID  *string   `json:"assignee_id,omitempty" gorm:"column:assignee_id;type:uuid"`
	IsActive    bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// VehiclePosition rows are append-only; there is no update path.
type VehiclePosition struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	VehicleID  string    `json:"vehicle_id" gorm:"column:vehicle_id;type:uuid;not null;index"`
	Latitude   float64   `json:"latitude" gorm:"column:latitude;not null"`
	Longitude  float64   `json:"longitude" gorm:"column:longitude;not null"`
	SpeedKMH   *float64  `json:"speed_kmh,omitempty" gorm:"column:speed_kmh"`
	RecordedAt time.Time `json:"recorded_at" gorm:"column:recorded_at;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (VehiclePosition) TableName() string {
	return "vehicle_positions"
}

func (p *VehiclePosition) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
