package department

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Department struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Code      string    `json:"code" gorm:"column:code;uniqueIndex;not null"`
	NameTH    string    `json:"name_th" gorm:"column:name_th;not null"`
	NameEN    string    `json:"name_en" gorm:"column:name_en"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
