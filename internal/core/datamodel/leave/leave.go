package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeSick     = "sick"
	TypePersonal = "personal"
	TypeVacation = "vacation"
	TypeOther    = "other"
)

func Statuses() []string {
	return []string{StatusPending, StatusApproved, StatusRejected}
}

func Types() []string {
	return []string{TypeSick, TypePersonal, TypeVacation, TypeOther}
}

type LeaveRequest struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid"`
	EmployeeID   string     `json:"employee_id" gorm:"column:employee_id;type:uuid;not null"`
	LeaveType    string     `json:"leave_type" gorm:"column:leave_type;not null"`
	DateFrom     time.Time  `json:"date_from" gorm:"column:date_from;type:date;not null"`
	DateTo       time.Time  `json:"date_to" gorm:"column:date_to;type:date;not null"`
	Reason       string     `json:"reason" gorm:"column:reason"`
	Status       string     `json:"status" gorm:"column:status;default:pending"`
	DecidedBy    *string    `json:"decided_by,omitempty" gorm:"column:decided_by;type:uuid"`
	DecidedAt    *time.Time `json:"decided_at,omitempty" gorm:"column:decided_at"`
	RejectReason string     `json:"reject_reason,omitempty" gorm:"column:reject_reason"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (l *LeaveRequest) IsDecided() bool {
	return l.Status != StatusPending
}
