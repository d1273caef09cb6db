package ticket

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusOpen       = "open"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

func Statuses() []string {
	return []string{StatusOpen, StatusAssigned, StatusInProgress, StatusDone, StatusCancelled}
}

func Priorities() []string {
	return []string{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}
}

// Ticket codes are server-assigned as PDE-<n> from the ticket_counters
// row; clients never choose them.
type Ticket struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid"`
	Code          string     `json:"code" gorm:"column:code;uniqueIndex;not null"`
	Title         string     `json:"title" gorm:"column:title;not null"`
	Detail        string     `json:"detail" gorm:"column:detail"`
	Status        string     `json:"status" gorm:"column:status;default:open"`
	Priority      string     `json:"priority" gorm:"column:priority;default:normal"`
	SiteID        *string    `json:"site_id,omitempty" gorm:"column:site_id;type:uuid"`
	AssigneeID    *string    `json:"assignee_id,omitempty" gorm:"column:assignee_id;type:uuid"`
	ReporterID    *string    `json:"reporter_id,omitempty" gorm:"column:reporter_id;type:uuid"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty" gorm:"column:scheduled_date;type:date"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Ticket) IsOpenForWork() bool {
	switch t.Status {
	case StatusOpen, StatusAssigned, StatusInProgress:
		return true
	}
	return false
}

// Counter is the single-row allocator behind ticket code numbers.
type Counter struct {
	ID    int   `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}

func (Counter) TableName() string {
	return "ticket_counters"
}
