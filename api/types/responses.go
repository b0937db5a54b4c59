package types

import (
	"time"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/casetrail/evidence-api/internal/services/reports"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// Session is the wire representation of an evidence session
type Session struct {
	UUID        string                `json:"uuid"`
	CaseNumber  string                `json:"case_number,omitempty"`
	Status      models.SessionStatus  `json:"status"`
	VideoName   string                `json:"video_name,omitempty"`
	Fingerprint string                `json:"fingerprint,omitempty"`
	Events      models.TimelineEvents `json:"events"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// NewSession maps a model onto the wire representation
func NewSession(m *models.EvidenceSession) Session {
	events := m.Events
	if events == nil {
		events = models.TimelineEvents{}
	}
	return Session{
		UUID:        m.UUID,
		CaseNumber:  m.CaseNumber,
		Status:      m.Status,
		VideoName:   m.VideoName,
		Fingerprint: m.Fingerprint,
		Events:      events,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SingleSessionResponse for getting one session
type SingleSessionResponse struct {
	BaseResponse
	Session Session `json:"session"`
}

// SessionsResponse for session lists
type SessionsResponse struct {
	BaseResponse
	Sessions []Session `json:"sessions"`
	Count    int       `json:"count"`
}

// Turn is the wire representation of a conversation turn
type Turn struct {
	UUID      string               `json:"uuid"`
	Role      models.TurnRole      `json:"role"`
	State     models.TurnState     `json:"state"`
	Text      string               `json:"text"`
	Findings  *models.TurnFindings `json:"findings,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewTurn maps a model onto the wire representation
func NewTurn(m *models.Turn) Turn {
	return Turn{
		UUID:      m.UUID,
		Role:      m.Role,
		State:     m.State,
		Text:      m.Text,
		Findings:  m.Findings,
		CreatedAt: m.CreatedAt,
	}
}

// SingleTurnResponse for a resolved prompt
type SingleTurnResponse struct {
	BaseResponse
	Turn    Turn    `json:"turn"`
	Session Session `json:"session"`
}

// TurnsResponse for the conversation log
type TurnsResponse struct {
	BaseResponse
	Turns []Turn `json:"turns"`
	Count int    `json:"count"`
}

// Bookmark is the wire representation of a saved event
type Bookmark struct {
	UUID       string  `json:"uuid"`
	FromTime   float64 `json:"from_time"`
	ToTime     float64 `json:"to_time"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
}

// NewBookmark maps a model onto the wire representation
func NewBookmark(m *models.Bookmark) Bookmark {
	return Bookmark{
		UUID:       m.UUID,
		FromTime:   m.FromTime,
		ToTime:     m.ToTime,
		Summary:    m.Summary,
		Confidence: m.Confidence,
	}
}

// BookmarksResponse carries the saved set and the reconciled view.
// Saved maps display indexes in the session's event list to the
// bookmark UUIDs that cover them.
type BookmarksResponse struct {
	BaseResponse
	Bookmarks []Bookmark     `json:"bookmarks"`
	Saved     map[int]string `json:"saved"`
	Count     int            `json:"count"`
}

// ToggleResponse for a bookmark toggle
type ToggleResponse struct {
	BaseResponse
	Index    int       `json:"index"`
	Saved    bool      `json:"saved"`
	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ReportResponse for a compiled report
type ReportResponse struct {
	BaseResponse
	Report *reports.Report `json:"report"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	BaseResponse
	Version  string                 `json:"version,omitempty"`
	Services map[string]interface{} `json:"services,omitempty"`
}
