package reports

import (
	"context"
	"time"

	"github.com/casetrail/evidence-api/internal/services/bookmarks"
	"github.com/casetrail/evidence-api/internal/services/sessions"
	apperrors "github.com/casetrail/evidence-api/pkg/errors"
)

// Service defines the interface for report compilation
type Service interface {
	// CompileReport builds the report for a session's current bookmark
	// set. The generation timestamp is the only wall-clock content.
	CompileReport(ctx context.Context, ownerID, sessionUUID string) (*Report, error)
}

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	sessions  sessions.Service
	bookmarks bookmarks.Repository
	now       func() time.Time
}

// NewService creates a new report service. now may be nil, selecting
// time.Now.
func NewService(sessionService sessions.Service, bookmarkRepo bookmarks.Repository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &ServiceImpl{
		sessions:  sessionService,
		bookmarks: bookmarkRepo,
		now:       now,
	}
}

// CompileReport builds the report for a session's current bookmark set
func (s *ServiceImpl) CompileReport(ctx context.Context, ownerID, sessionUUID string) (*Report, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}

	marks, err := s.bookmarks.ListBookmarks(ctx, session.ID)
	if err != nil {
		return nil, apperrors.PersistenceFailure("bookmark list", err)
	}

	return Compile(session.VideoName, session.CaseNumber, marks, s.now().UTC()), nil
}
