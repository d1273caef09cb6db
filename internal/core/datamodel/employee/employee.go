package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role carries the numeric permission level used by every gate. Levels
// are ordered; a higher level implies everything below it.
type Role struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Code      string    `json:"code" gorm:"column:code;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	Level     int       `json:"level" gorm:"column:level;not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type Employee struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	Code         string    `json:"code" gorm:"column:code;uniqueIndex;not null"`
	AuthSubject  *string   `json:"-" gorm:"column:auth_subject;uniqueIndex"`
	FullName     string    `json:"full_name" gorm:"column:full_name;not null"`
	Nickname     string    `json:"nickname" gorm:"column:nickname"`
	Email        string    `json:"email" gorm:"column:email"`
	Phone        string    `json:"phone" gorm:"column:phone"`
	RoleID       *string   `json:"role_id,omitempty" gorm:"column:role_id;type:uuid"`
	DepartmentID *string   `json:"department_id,omitempty" gorm:"column:department_id;type:uuid"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
