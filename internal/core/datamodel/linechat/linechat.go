package linechat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Staged file lifecycle. Files arrive pending, move to linked when tied
// to a ticket, then approved or rejected by a reviewer; the sweeper
// expires pending files that were never linked.
const (
	FileStatusPending  = "pending"
	FileStatusLinked   = "linked"
	FileStatusApproved = "approved"
	FileStatusRejected = "rejected"
	FileStatusExpired  = "expired"
)

func FileStatuses() []string {
	return []string{FileStatusPending, FileStatusLinked, FileStatusApproved, FileStatusRejected, FileStatusExpired}
}

// LineAccount maps a chat platform user to an employee. Rows are
// provisioned by an admin or the seeder, never by the bot; a follow
// event only refreshes profile fields on an existing row. The active
// ticket pointer is the only conversational state and lives here, not
// in process memory.
type LineAccount struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	LineUserID     string    `json:"line_user_id" gorm:"column:line_user_id;uniqueIndex;not null"`
	EmployeeID     *string   `json:"employee_id,omitempty" gorm:"column:employee_id;type:uuid"`
	DisplayName    string    `json:"display_name" gorm:"column:display_name"`
	PictureURL     string    `json:"picture_url,omitempty" gorm:"column:picture_url"`
	IsFollowing    bool      `json:"is_following" gorm:"column:is_following;default:true"`
	ActiveTicketID *string   `json:"active_ticket_id,omitempty" gorm:"column:active_ticket_id;type:uuid"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (LineAccount) TableName() string {
	return "line_accounts"
}

func (a *LineAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *LineAccount) IsLinked() bool {
	return a.EmployeeID != nil && *a.EmployeeID != ""
}

// StagedFile is an upload waiting to be tied to a ticket. The message
// id is unique so webhook redeliveries cannot duplicate a file.
type StagedFile struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid"`
	EmployeeID    string     `json:"employee_id" gorm:"column:employee_id;type:uuid;not null;index"`
	FileURL       string     `json:"file_url" gorm:"column:file_url;not null"`
	ContentType   string     `json:"content_type" gorm:"column:content_type"`
	Status        string     `json:"status" gorm:"column:status;default:pending;index"`
	TicketID      *string    `json:"ticket_id,omitempty" gorm:"column:ticket_id;type:uuid"`
	Selected      bool       `json:"selected" gorm:"column:selected;default:false"`
	LineMessageID *string    `json:"-" gorm:"column:line_message_id;uniqueIndex"`
	LinkedAt      *time.Time `json:"linked_at,omitempty" gorm:"column:linked_at"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (StagedFile) TableName() string {
	return "staged_files"
}

func (f *StagedFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
