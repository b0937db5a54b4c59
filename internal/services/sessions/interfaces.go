package sessions

import (
	"context"
	"io"

	"github.com/casetrail/evidence-api/internal/models"
)

// AttachedVideo is a file submitted alongside a prompt. Open must
// yield a fresh reader on each call: the file is consumed once for
// fingerprinting and once for upload.
type AttachedVideo struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// ProgressFunc receives fractional fingerprinting progress in [0,1]
type ProgressFunc func(fraction float64)

// Repository defines the interface for session data access
type Repository interface {
	CreateSession(ctx context.Context, session *models.EvidenceSession) error
	GetSessionByUUID(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error)
	ListSessions(ctx context.Context, ownerID string) ([]models.EvidenceSession, error)
	UpdateSession(ctx context.Context, session *models.EvidenceSession) error

	// DeleteSession removes the session together with its turns and
	// bookmarks (bookmarks die with their session)
	DeleteSession(ctx context.Context, session *models.EvidenceSession) error

	// ClearConversation removes all turns for a session
	ClearConversation(ctx context.Context, sessionID uint) error
}

// Service defines the interface for session lifecycle logic
type Service interface {
	CreateSession(ctx context.Context, ownerID, caseNumber string) (*models.EvidenceSession, error)
	GetSessionByUUID(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error)
	ListSessions(ctx context.Context, ownerID string) ([]models.EvidenceSession, error)
	DeleteSession(ctx context.Context, ownerID, uuid string) error

	// ResetSession returns a session to idle, clearing its findings and
	// conversation log
	ResetSession(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error)

	// AttachEvidence fingerprints and uploads a newly attached file,
	// driving idle/ready/error -> uploading -> analyzing. The upload is
	// content-addressed: byte-identical files share one stored object.
	AttachEvidence(ctx context.Context, session *models.EvidenceSession, video AttachedVideo, progress ProgressFunc) error

	// BeginFollowUp drives ready/error -> analyzing against evidence
	// that is already durable (no re-hash, no re-upload)
	BeginFollowUp(ctx context.Context, session *models.EvidenceSession) error

	// CompleteAnalysis appends a findings batch and marks the session ready
	CompleteAnalysis(ctx context.Context, session *models.EvidenceSession, events models.TimelineEvents) error

	// FailAnalysis moves the session to error, preserving prior data
	FailAnalysis(ctx context.Context, session *models.EvidenceSession, reason string) error
}
