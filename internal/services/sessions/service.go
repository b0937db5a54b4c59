package sessions

import (
	"context"
	"fmt"
	"log"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/casetrail/evidence-api/internal/services/storage"
	apperrors "github.com/casetrail/evidence-api/pkg/errors"
	"github.com/casetrail/evidence-api/pkg/fingerprint"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	storage    storage.Backend
	hasher     *fingerprint.Generator
}

// NewService creates a new session service
func NewService(repository Repository, backend storage.Backend, hasher *fingerprint.Generator) Service {
	return &ServiceImpl{
		repository: repository,
		storage:    backend,
		hasher:     hasher,
	}
}

// CreateSession creates a new idle session for an owner
func (s *ServiceImpl) CreateSession(ctx context.Context, ownerID, caseNumber string) (*models.EvidenceSession, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner is required")
	}

	session := &models.EvidenceSession{
		OwnerID:    ownerID,
		CaseNumber: caseNumber,
		Status:     models.SessionStatusIdle,
		Events:     models.TimelineEvents{},
	}

	if err := s.repository.CreateSession(ctx, session); err != nil {
		return nil, apperrors.PersistenceFailure("session create", err)
	}
	return session, nil
}

// GetSessionByUUID retrieves a session scoped to its owner
func (s *ServiceImpl) GetSessionByUUID(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error) {
	return s.repository.GetSessionByUUID(ctx, ownerID, uuid)
}

// ListSessions retrieves all sessions for an owner
func (s *ServiceImpl) ListSessions(ctx context.Context, ownerID string) ([]models.EvidenceSession, error) {
	return s.repository.ListSessions(ctx, ownerID)
}

// DeleteSession removes a session with its turns and bookmarks
func (s *ServiceImpl) DeleteSession(ctx context.Context, ownerID, uuid string) error {
	session, err := s.repository.GetSessionByUUID(ctx, ownerID, uuid)
	if err != nil {
		return err
	}
	if err := s.repository.DeleteSession(ctx, session); err != nil {
		return apperrors.PersistenceFailure("session delete", err)
	}
	return nil
}

// ResetSession returns a session to idle, clearing findings and turns
func (s *ServiceImpl) ResetSession(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error) {
	session, err := s.repository.GetSessionByUUID(ctx, ownerID, uuid)
	if err != nil {
		return nil, err
	}

	next, err := Apply(*session, Reset{})
	if err != nil {
		return nil, err
	}

	if err := s.repository.ClearConversation(ctx, session.ID); err != nil {
		return nil, apperrors.PersistenceFailure("conversation clear", err)
	}

	*session = next
	if err := s.repository.UpdateSession(ctx, session); err != nil {
		return nil, apperrors.PersistenceFailure("session update", err)
	}

	log.Printf("[INFO] Session %s reset to idle", session.UUID)
	return session, nil
}

// AttachEvidence fingerprints and uploads a newly attached file.
// The stages are resumable: a failure leaves the session in error with
// everything already completed still recorded, and resubmission only
// re-attempts the failed stage.
func (s *ServiceImpl) AttachEvidence(ctx context.Context, session *models.EvidenceSession, video AttachedVideo, progress ProgressFunc) error {
	next, err := Apply(*session, AttachVideo{Name: video.Name})
	if err != nil {
		return err
	}
	*session = next
	if err := s.repository.UpdateSession(ctx, session); err != nil {
		return apperrors.PersistenceFailure("session update", err)
	}

	// Stage 1: fingerprint. The digest identifies the file's bytes, so
	// identical content always maps to one stored object.
	reader, err := video.Open()
	if err != nil {
		s.markFailed(ctx, session, "evidence file unreadable")
		return apperrors.ReadError(err)
	}
	digest, err := s.hasher.Sum(ctx, reader, video.Size, fingerprint.ProgressFunc(progress))
	reader.Close()
	if err != nil {
		s.markFailed(ctx, session, "fingerprinting failed")
		return err
	}

	storageKey := fingerprint.StorageKey(digest)
	log.Printf("[INFO] Session %s evidence fingerprint %s", session.UUID, digest)

	// Stage 2: upload. Put is idempotent on the content-addressed key;
	// re-uploading known bytes returns the existing reference.
	durableRef, err := s.uploadStored(ctx, storageKey, video)
	if err != nil {
		s.markFailed(ctx, session, "upload failed")
		return apperrors.UploadFailure(err)
	}

	next, err = Apply(*session, UploadComplete{
		Fingerprint: digest,
		StorageKey:  storageKey,
		DurableRef:  durableRef,
	})
	if err != nil {
		return err
	}
	*session = next
	if err := s.repository.UpdateSession(ctx, session); err != nil {
		return apperrors.PersistenceFailure("session update", err)
	}

	return nil
}

// uploadStored writes the video bytes unless the key already exists
func (s *ServiceImpl) uploadStored(ctx context.Context, storageKey string, video AttachedVideo) (string, error) {
	reader, err := video.Open()
	if err != nil {
		return "", err
	}
	defer reader.Close()
	return s.storage.Put(ctx, storageKey, reader)
}

// BeginFollowUp drives ready/error -> analyzing without re-uploading
func (s *ServiceImpl) BeginFollowUp(ctx context.Context, session *models.EvidenceSession) error {
	next, err := Apply(*session, FollowUp{})
	if err != nil {
		return err
	}
	*session = next
	if err := s.repository.UpdateSession(ctx, session); err != nil {
		return apperrors.PersistenceFailure("session update", err)
	}
	return nil
}

// CompleteAnalysis appends a findings batch and marks the session ready
func (s *ServiceImpl) CompleteAnalysis(ctx context.Context, session *models.EvidenceSession, events models.TimelineEvents) error {
	next, err := Apply(*session, AnalysisComplete{Events: events})
	if err != nil {
		return err
	}
	*session = next
	if err := s.repository.UpdateSession(ctx, session); err != nil {
		return apperrors.PersistenceFailure("session update", err)
	}
	return nil
}

// FailAnalysis moves the session to error, preserving prior data
func (s *ServiceImpl) FailAnalysis(ctx context.Context, session *models.EvidenceSession, reason string) error {
	s.markFailed(ctx, session, reason)
	return nil
}

func (s *ServiceImpl) markFailed(ctx context.Context, session *models.EvidenceSession, reason string) {
	next, err := Apply(*session, AnalysisFailed{Reason: reason})
	if err != nil {
		log.Printf("[WARN] Session %s cannot transition to error: %v", session.UUID, err)
		return
	}
	*session = next
	if err := s.repository.UpdateSession(ctx, session); err != nil {
		log.Printf("[WARN] Failed to persist error status for session %s: %v", session.UUID, err)
	}
	log.Printf("[WARN] Session %s moved to error: %s", session.UUID, reason)
}
