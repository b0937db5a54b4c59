package conversation

import (
	"context"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/casetrail/evidence-api/internal/services/sessions"
)

// PromptSubmission is one investigator prompt, optionally carrying a
// newly attached video file. When Video is nil the session's existing
// durable evidence is analyzed instead.
type PromptSubmission struct {
	Text     string
	Video    *sessions.AttachedVideo
	Progress sessions.ProgressFunc
}

// Repository defines the interface for turn data access
type Repository interface {
	// AppendExchange inserts a user turn and its pending assistant
	// placeholder in one transaction. Either both exist or neither does.
	// Returns ErrPendingExchange while the session already has a pending
	// assistant turn, even under concurrent submissions.
	AppendExchange(ctx context.Context, user, assistant *models.Turn) error

	// ResolveTurn moves the identified pending turn to resolved,
	// attaching its findings. The turn is addressed by UUID, never by
	// list position.
	ResolveTurn(ctx context.Context, turnUUID string, findings *models.TurnFindings) (*models.Turn, error)

	// FailTurn moves the identified pending turn to failed
	FailTurn(ctx context.Context, turnUUID string, reason string) (*models.Turn, error)

	// ListTurns returns the session's turns oldest first
	ListTurns(ctx context.Context, sessionID uint) ([]models.Turn, error)
}

// Service defines the interface for the prompt pipeline
type Service interface {
	// SubmitPrompt runs a prompt end to end: validates evidence,
	// appends the user turn and a pending assistant turn, drives the
	// session through upload and analysis, and resolves the assistant
	// turn with normalized findings. The returned turn is the resolved
	// (or failed) assistant turn.
	SubmitPrompt(ctx context.Context, ownerID, sessionUUID string, submission PromptSubmission) (*models.Turn, error)

	// ListTurns returns the conversation log oldest first
	ListTurns(ctx context.Context, ownerID, sessionUUID string) ([]models.Turn, error)
}
