package models

import (
	"time"
)

// GuestStatus tracks how far a guest has gotten with their invitation
type GuestStatus string

const (
	GuestStatusInvited   GuestStatus = "invited"
	GuestStatusOpened    GuestStatus = "opened"
	GuestStatusAttending GuestStatus = "attending"
	GuestStatusDeclined  GuestStatus = "declined"
)

// Guest represents one invited person of one event. Token is the legacy
// single-segment invitation identifier; ShortCode is the current human-typable
// one. Both are unique across all guests, not per event.
type Guest struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	EventID     uint        `gorm:"not null;index" json:"event_id"`
	Event       *Event      `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Name        string      `gorm:"size:150;not null" json:"name"`
	Phone       string      `gorm:"size:30" json:"phone,omitempty"`
	Email       string      `gorm:"size:255" json:"email,omitempty"`
	Token       string      `gorm:"uniqueIndex;not null;size:64" json:"token"`
	ShortCode   *string     `gorm:"uniqueIndex;size:10" json:"short_code,omitempty"`
	Status      GuestStatus `gorm:"size:20;default:invited;index" json:"status"`
	PlusOnes    int         `gorm:"default:0" json:"plus_ones"`
	Note        string      `gorm:"type:text" json:"note,omitempty"`
	OpenedAt    *time.Time  `json:"opened_at,omitempty"`
	RespondedAt *time.Time  `json:"responded_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the table name for Guest model
func (Guest) TableName() string {
	return "guests"
}
