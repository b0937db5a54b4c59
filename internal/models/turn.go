package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TurnRole identifies which side of the conversation produced a turn
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// TurnState is the tagged lifecycle of an assistant turn. A pending
// turn is an optimistic placeholder resolved in place by UUID, never
// by list position.
type TurnState string

const (
	TurnStatePending  TurnState = "pending"
	TurnStateResolved TurnState = "resolved"
	TurnStateFailed   TurnState = "failed"
)

// Turn is one exchange entry in a session's conversation log. Turns
// are immutable once out of the pending state; exactly one turn moves
// from pending to resolved (or failed) per submitted prompt.
type Turn struct {
	gorm.Model
	UUID      string    `json:"uuid" gorm:"uniqueIndex"`
	// The partial unique index admits at most one pending turn per
	// session, so the single-pending rule holds under concurrent writes.
	SessionID uint      `json:"session_id" gorm:"not null;index;index:idx_turns_one_pending,unique,where:state = 'pending'"`
	Role      TurnRole  `json:"role" gorm:"not null"`
	State     TurnState `json:"state" gorm:"default:resolved"`
	Text      string    `json:"text" gorm:"type:text"`

	// Findings attached when the turn resolved with analysis results
	Findings *TurnFindings `json:"findings,omitempty" gorm:"type:json"`

	Session EvidenceSession `json:"-" gorm:"foreignKey:SessionID"`
}

// TurnFindings is the batch of normalized events one prompt produced
type TurnFindings struct {
	Summary string         `json:"summary"`
	Events  TimelineEvents `json:"events"`
}

// Value implements driver.Valuer for TurnFindings
func (f *TurnFindings) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner for TurnFindings
func (f *TurnFindings) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for TurnFindings")
	}

	return json.Unmarshal(bytes, f)
}

// BeforeCreate generates a UUID before creating a new turn
func (t *Turn) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.New().String()
	}
	return nil
}

// IsPending reports whether the turn is an unresolved placeholder
func (t *Turn) IsPending() bool {
	return t.State == TurnStatePending
}

// TableName returns the table name for the Turn model
func (Turn) TableName() string {
	return "turns"
}
