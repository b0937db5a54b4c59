package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStatus represents where an evidence session is in its lifecycle
type SessionStatus string

const (
	SessionStatusIdle      SessionStatus = "idle"
	SessionStatusUploading SessionStatus = "uploading"
	SessionStatusAnalyzing SessionStatus = "analyzing"
	SessionStatusReady     SessionStatus = "ready"
	SessionStatusError     SessionStatus = "error"
)

// EvidenceSession is the unit of work for one video under investigation.
// Status only moves forward through the lifecycle except via explicit
// reset to idle. StorageKey is set if and only if Fingerprint is set.
type EvidenceSession struct {
	gorm.Model
	UUID       string        `json:"uuid" gorm:"uniqueIndex"`
	OwnerID    string        `json:"owner_id" gorm:"not null;index"`
	CaseNumber string        `json:"case_number" gorm:"index"`
	Status     SessionStatus `json:"status" gorm:"default:idle"`

	// Video evidence fields. These always describe durably stored
	// evidence; an upload in flight lives in the Pending fields until it
	// completes, so a failed replacement never destroys the last good
	// binding.
	VideoName      string `json:"video_name"`
	VideoReference string `json:"video_reference"`
	Fingerprint    string `json:"fingerprint" gorm:"index"` // lowercase sha256 hex
	StorageKey     string `json:"storage_key"`              // fingerprint + fixed extension

	// Staged replacement while Status is uploading
	PendingName      string `json:"pending_name,omitempty"`
	PendingReference string `json:"pending_reference,omitempty"`

	// Cumulative findings across every turn in this session
	Events TimelineEvents `json:"events" gorm:"type:json"`

	Turns     []Turn     `json:"turns,omitempty" gorm:"foreignKey:SessionID"`
	Bookmarks []Bookmark `json:"bookmarks,omitempty" gorm:"foreignKey:SessionID"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *EvidenceSession) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == "" {
		s.UUID = uuid.New().String()
	}
	if s.Status == "" {
		s.Status = SessionStatusIdle
	}
	return nil
}

// HasDurableVideo reports whether the session's file is already stored
// at its content-addressed key. The presence of a storage key is the
// single source of truth for "already durable" (upload-once invariant).
func (s *EvidenceSession) HasDurableVideo() bool {
	return s.StorageKey != ""
}

// TableName returns the table name for the EvidenceSession model
func (EvidenceSession) TableName() string {
	return "evidence_sessions"
}
