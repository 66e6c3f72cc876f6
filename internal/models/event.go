package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ScheduleDay is one day of an event programme
type ScheduleDay struct {
	Day        string   `json:"day"`
	Activities []string `json:"activities"`
}

// Schedule is the free-form day-by-day programme of an event,
// stored as a JSON column
type Schedule []ScheduleDay

func (s Schedule) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *Schedule) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported schedule column type %T", value)
	}
}

// Event represents a single celebration (wedding, birthday, ...) with its
// shareable invitation. Slug is nil until assigned and unique once it is.
type Event struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	Owner        *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Slug         *string   `gorm:"uniqueIndex;size:120" json:"slug,omitempty"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Date         time.Time `json:"date"`
	Location     string    `gorm:"size:255" json:"location"`
	PartyNameOne string    `gorm:"size:100" json:"party_name_one"`
	PartyNameTwo string    `gorm:"size:100" json:"party_name_two"`
	TemplateID   *uint     `gorm:"index" json:"template_id,omitempty"`
	Template     *Template `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Schedule     Schedule  `gorm:"type:jsonb" json:"schedule,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Event model
func (Event) TableName() string {
	return "events"
}
