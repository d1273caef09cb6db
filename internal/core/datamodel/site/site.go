package site

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Site struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Code      string    `json:"code" gorm:"column:code;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	Province  string    `json:"province" gorm:"column:province"`
	Address   string    `json:"address" gorm:"column:address"`
	Latitude  *float64  `json:"latitude,omitempty" gorm:"column:latitude"`
	Longitude *float64  `json:"longitude,omitempty" gorm:"column:longitude"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Site) TableName() string {
	return "sites"
}

func (s *Site) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
