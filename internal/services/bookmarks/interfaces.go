package bookmarks

import (
	"context"

	"github.com/casetrail/evidence-api/internal/models"
)

// ToggleResult describes the outcome of toggling one displayed event
type ToggleResult struct {
	// Saved is true when the toggle created a bookmark, false when it
	// removed one
	Saved bool

	// Bookmark is the created bookmark; nil after a removal
	Bookmark *models.Bookmark

	// Index echoes the display index the toggle acted on
	Index int
}

// Repository defines the interface for bookmark data access
type Repository interface {
	CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error

	// ListBookmarks returns a session's bookmarks oldest first, so
	// reconciliation sees them in creation order
	ListBookmarks(ctx context.Context, sessionID uint) ([]models.Bookmark, error)

	DeleteBookmarkByUUID(ctx context.Context, sessionID uint, uuid string) error
}

// Service defines the interface for saved-event logic
type Service interface {
	// ListSaved returns the session's bookmarks together with the
	// reconciled view against its current timeline
	ListSaved(ctx context.Context, ownerID, sessionUUID string) ([]models.Bookmark, View, error)

	// Toggle saves the event at the given display index, or removes
	// the bookmark already covering it. The store is mutated first;
	// a failed write leaves the saved set unchanged.
	Toggle(ctx context.Context, ownerID, sessionUUID string, index int) (*ToggleResult, error)
}
