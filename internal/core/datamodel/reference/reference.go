package reference

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reference data is read-only over HTTP; rows are maintained by the
// seeder and by operators working directly against the database.

type Merchandise struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Code      string    `json:"code" gorm:"column:code;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	Unit      string    `json:"unit" gorm:"column:unit"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Merchandise) TableName() string {
	return "merchandise"
}

func (m *Merchandise) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type PackageService struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Code      string    `json:"code" gorm:"column:code;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	PriceTHB  *float64  `json:"price_thb,omitempty" gorm:"column:price_thb"`
	IsActive  bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (PackageService) TableName() string {
	return "package_services"
}

func (p *PackageService) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
