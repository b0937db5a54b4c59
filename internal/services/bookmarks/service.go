package bookmarks

import (
	"context"
	"log"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/casetrail/evidence-api/internal/services/sessions"
	apperrors "github.com/casetrail/evidence-api/pkg/errors"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	sessions   sessions.Service
	tolerance  float64
}

// NewService creates a new bookmark service. tolerance <= 0 selects
// the default start-time tolerance.
func NewService(repository Repository, sessionService sessions.Service, tolerance float64) Service {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &ServiceImpl{
		repository: repository,
		sessions:   sessionService,
		tolerance:  tolerance,
	}
}

// ListSaved returns the session's bookmarks with the reconciled view
func (s *ServiceImpl) ListSaved(ctx context.Context, ownerID, sessionUUID string) ([]models.Bookmark, View, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, View{}, err
	}

	marks, err := s.repository.ListBookmarks(ctx, session.ID)
	if err != nil {
		return nil, View{}, apperrors.PersistenceFailure("bookmark list", err)
	}

	return marks, Reconcile(session.UUID, session.Events, marks, s.tolerance), nil
}

// Toggle saves or removes the bookmark covering one displayed event.
// The store is written first and the response reflects what the store
// now holds, so a failed write cannot leave the caller believing an
// event is saved when it is not.
func (s *ServiceImpl) Toggle(ctx context.Context, ownerID, sessionUUID string, index int) (*ToggleResult, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(session.Events) {
		return nil, apperrors.ValidationError("index", "no timeline event at this position")
	}

	marks, err := s.repository.ListBookmarks(ctx, session.ID)
	if err != nil {
		return nil, apperrors.PersistenceFailure("bookmark list", err)
	}

	view := Reconcile(session.UUID, session.Events, marks, s.tolerance)
	if uuid, saved := view.Index[index]; saved {
		if err := s.repository.DeleteBookmarkByUUID(ctx, session.ID, uuid); err != nil {
			return nil, apperrors.PersistenceFailure("bookmark delete", err)
		}
		log.Printf("[INFO] Session %s bookmark %s removed", session.UUID, uuid)
		return &ToggleResult{Saved: false, Index: index}, nil
	}

	event := session.Events[index]
	mark := &models.Bookmark{
		SessionID:  session.ID,
		OwnerID:    ownerID,
		FromTime:   event.FromTime,
		ToTime:     event.ToTime,
		Summary:    event.Summary,
		Confidence: event.Confidence,
	}
	if err := s.repository.CreateBookmark(ctx, mark); err != nil {
		return nil, apperrors.PersistenceFailure("bookmark create", err)
	}

	log.Printf("[INFO] Session %s bookmark %s saved for event %d", session.UUID, mark.UUID, index)
	return &ToggleResult{Saved: true, Bookmark: mark, Index: index}, nil
}
