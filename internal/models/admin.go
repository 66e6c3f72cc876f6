package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSONB for PostgreSQL JSON support
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, isStr := value.(string); isStr {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, &j)
}

// AdminUser represents an administrator with special permissions
type AdminUser struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role        string    `gorm:"size:20;not null" json:"role"` // SUPER_ADMIN, MODERATOR
	Permissions JSONB     `gorm:"type:jsonb" json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// AdminLog records an admin action for auditing
type AdminLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	AdminID    uint       `gorm:"not null;index" json:"admin_id"`
	Admin      *AdminUser `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Action     string     `gorm:"size:50;not null" json:"action"`
	TargetType string     `gorm:"size:30" json:"target_type"`
	TargetID   uint       `json:"target_id"`
	Details    string     `gorm:"type:text" json:"details,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}

// PlatformStats is a periodic snapshot of platform-wide counters
type PlatformStats struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	TotalUsers        int64     `json:"total_users"`
	TotalEvents       int64     `json:"total_events"`
	TotalGuests       int64     `json:"total_guests"`
	OpenedInvitations int64     `json:"opened_invitations"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
}

func (PlatformStats) TableName() string {
	return "platform_stats"
}
