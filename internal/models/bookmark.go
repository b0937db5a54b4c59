package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bookmark is a timeline event an investigator marked for the report.
// Bookmarks are persisted with their own identity; the displayed event
// list is matched against them by time tolerance plus exact summary,
// since events themselves have no stable key.
type Bookmark struct {
	gorm.Model
	UUID      string `json:"uuid" gorm:"uniqueIndex"`
	SessionID uint   `json:"session_id" gorm:"not null;index"`
	OwnerID   string `json:"owner_id" gorm:"not null;index"`

	FromTime   float64 `json:"from_time" gorm:"not null"`
	ToTime     float64 `json:"to_time" gorm:"not null"`
	Summary    string  `json:"summary" gorm:"type:text"`
	Confidence float64 `json:"confidence"`

	Session EvidenceSession `json:"-" gorm:"foreignKey:SessionID"`
}

// BeforeCreate generates a UUID before creating a new bookmark
func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the Bookmark model
func (Bookmark) TableName() string {
	return "bookmarks"
}
