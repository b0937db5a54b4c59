package bookmarks

import (
	"context"
	"errors"
	"fmt"

	"github.com/casetrail/evidence-api/internal/models"
	"gorm.io/gorm"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new bookmark repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateBookmark creates a new bookmark in the database
func (r *RepositoryImpl) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	if err := r.db.WithContext(ctx).Create(bookmark).Error; err != nil {
		return fmt.Errorf("creating bookmark: %w", err)
	}
	return nil
}

// ListBookmarks returns a session's bookmarks oldest first
func (r *RepositoryImpl) ListBookmarks(ctx context.Context, sessionID uint) ([]models.Bookmark, error) {
	var marks []models.Bookmark
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&marks).Error; err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	return marks, nil
}

// DeleteBookmarkByUUID removes a bookmark scoped to its session
func (r *RepositoryImpl) DeleteBookmarkByUUID(ctx context.Context, sessionID uint, uuid string) error {
	result := r.db.WithContext(ctx).
		Where("session_id = ? AND uuid = ?", sessionID, uuid).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		return fmt.Errorf("deleting bookmark: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("bookmark not found")
	}
	return nil
}
