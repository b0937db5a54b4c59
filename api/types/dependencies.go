package types

import (
	"github.com/casetrail/evidence-api/internal/database"
	"github.com/casetrail/evidence-api/internal/services/bookmarks"
	"github.com/casetrail/evidence-api/internal/services/conversation"
	"github.com/casetrail/evidence-api/internal/services/identity"
	"github.com/casetrail/evidence-api/internal/services/reports"
	"github.com/casetrail/evidence-api/internal/services/sessions"
	"github.com/casetrail/evidence-api/internal/services/storage"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                  *database.DB
	Storage             storage.Backend
	SessionService      sessions.Service
	ConversationService conversation.Service
	BookmarkService     bookmarks.Service
	ReportService       reports.Service
	IdentityService     *identity.Service
}
