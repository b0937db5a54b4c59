package conversation

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/casetrail/evidence-api/internal/services/inference"
	"github.com/casetrail/evidence-api/internal/services/sessions"
	apperrors "github.com/casetrail/evidence-api/pkg/errors"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	sessions   sessions.Service
	analyzer   inference.Analyzer
}

// NewService creates a new conversation service
func NewService(repository Repository, sessionService sessions.Service, analyzer inference.Analyzer) Service {
	return &ServiceImpl{
		repository: repository,
		sessions:   sessionService,
		analyzer:   analyzer,
	}
}

// SubmitPrompt runs a prompt end to end. Validation happens before any
// state is written, so a rejected submission leaves the session, the
// conversation log, and the stored evidence exactly as they were.
func (s *ServiceImpl) SubmitPrompt(ctx context.Context, ownerID, sessionUUID string, submission PromptSubmission) (*models.Turn, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(submission.Text) == "" {
		return nil, apperrors.MissingFieldError("prompt")
	}
	if submission.Video == nil && !session.HasDurableVideo() {
		return nil, apperrors.MissingEvidence()
	}

	userTurn := &models.Turn{
		SessionID: session.ID,
		Role:      models.TurnRoleUser,
		State:     models.TurnStateResolved,
		Text:      submission.Text,
	}
	assistantTurn := &models.Turn{
		SessionID: session.ID,
		Role:      models.TurnRoleAssistant,
		State:     models.TurnStatePending,
	}
	// The append itself enforces the one-pending-turn rule, so racing
	// submissions cannot each leave a placeholder behind.
	if err := s.repository.AppendExchange(ctx, userTurn, assistantTurn); err != nil {
		if errors.Is(err, ErrPendingExchange) {
			return nil, apperrors.New(apperrors.ErrCodeConflict, "a prompt is already being analyzed for this session")
		}
		return nil, apperrors.PersistenceFailure("turn append", err)
	}

	if submission.Video != nil {
		err = s.sessions.AttachEvidence(ctx, session, *submission.Video, submission.Progress)
	} else {
		err = s.sessions.BeginFollowUp(ctx, session)
	}
	if err != nil {
		return s.settleFailed(ctx, assistantTurn.UUID, err)
	}

	result, err := s.analyzer.Analyze(ctx, inference.AnalysisRequest{
		EvidenceReference: session.VideoReference,
		EvidenceName:      session.VideoName,
		Prompt:            submission.Text,
	})
	if err != nil {
		if failErr := s.sessions.FailAnalysis(ctx, session, "analysis failed"); failErr != nil {
			log.Printf("[WARN] Session %s failure not recorded: %v", session.UUID, failErr)
		}
		return s.settleFailed(ctx, assistantTurn.UUID, err)
	}

	if err := s.sessions.CompleteAnalysis(ctx, session, result.Events); err != nil {
		return s.settleFailed(ctx, assistantTurn.UUID, err)
	}

	resolved, err := s.repository.ResolveTurn(ctx, assistantTurn.UUID, &models.TurnFindings{
		Summary: result.Summary,
		Events:  result.Events,
	})
	if err != nil {
		return nil, apperrors.PersistenceFailure("turn resolve", err)
	}

	log.Printf("[INFO] Session %s prompt resolved with %d findings", session.UUID, len(result.Events))
	return resolved, nil
}

// settleFailed records the pipeline error on the pending assistant
// turn and propagates the original error
func (s *ServiceImpl) settleFailed(ctx context.Context, turnUUID string, cause error) (*models.Turn, error) {
	if _, failErr := s.repository.FailTurn(ctx, turnUUID, cause.Error()); failErr != nil {
		log.Printf("[WARN] Turn %s failure not recorded: %v", turnUUID, failErr)
	}
	return nil, cause
}

// ListTurns returns the conversation log oldest first
func (s *ServiceImpl) ListTurns(ctx context.Context, ownerID, sessionUUID string) ([]models.Turn, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}
	return s.repository.ListTurns(ctx, session.ID)
}
