package models

import (
	"time"
)

// Template is a global animated-presentation template that events reference
type Template struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:150;not null" json:"name"`
	Animation  string    `gorm:"size:50;not null" json:"animation"` // fade, slide, floral, ...
	PreviewURL string    `gorm:"size:500" json:"preview_url"`
	Active     bool      `gorm:"default:true;index" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Template model
func (Template) TableName() string {
	return "templates"
}

// Asset is a branding or media asset record. The bytes themselves live in
// external storage under Key; this table only tracks metadata.
type Asset struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;not null;size:64" json:"key"`
	Kind        string    `gorm:"size:30;not null;index" json:"kind"` // logo, music, gallery
	Name        string    `gorm:"size:255" json:"name"`
	URL         string    `gorm:"size:500" json:"url"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	UploadedBy  uint      `gorm:"index" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Asset model
func (Asset) TableName() string {
	return "assets"
}
