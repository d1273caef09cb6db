package poll

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ChoiceList is stored as a jsonb column in postgres and plain text in
// the sqlite used by repository tests.
type ChoiceList []Choice

func (c ChoiceList) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ChoiceList) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	}
	return fmt.Errorf("unsupported choice list type %T", value)
}

func (c ChoiceList) HasChoice(choiceID string) bool {
	for _, choice := range c {
		if choice.ID == choiceID {
			return true
		}
	}
	return false
}

type Poll struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid"`
	Question  string     `json:"question" gorm:"column:question;not null"`
	Choices   ChoiceList `json:"choices" gorm:"column:choices;type:jsonb"`
	IsOpen    bool       `json:"is_open" gorm:"column:is_open;default:true"`
	ClosesAt  *time.Time `json:"closes_at,omitempty" gorm:"column:closes_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Poll) TableName() string {
	return "polls"
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// AcceptsVotes considers both the open flag and the optional deadline.
func (p *Poll) AcceptsVotes(now time.Time) bool {
	if !p.IsOpen {
		return false
	}
	if p.ClosesAt != nil && now.After(*p.ClosesAt) {
		return false
	}
	return true
}

// PollVote holds one employee's answer; (poll_id, employee_id) is
// unique so re-voting replaces nothing and conflicts upsert instead.
type PollVote struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	PollID     string    `json:"poll_id" gorm:"column:poll_id;type:uuid;not null;uniqueIndex:idx_poll_votes_poll_employee"`
	EmployeeID string    `json:"employee_id" gorm:"column:employee_id;type:uuid;not null;uniqueIndex:idx_poll_votes_poll_employee"`
	ChoiceID   string    `json:"choice_id" gorm:"column:choice_id;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (PollVote) TableName() string {
	return "poll_votes"
}

func (v *PollVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
