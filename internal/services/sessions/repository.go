package sessions

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

// NewRepository creates a new session repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateSession creates a new session in the database
func (r *RepositoryImpl) CreateSession(ctx context.Context, session *models.EvidenceSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSessionByUUID retrieves a session scoped to its owner
func (r *RepositoryImpl) GetSessionByUUID(ctx context.Context, ownerID, uuid string) (*models.EvidenceSession, error) {
	var session models.EvidenceSession
	if err := r.db.WithContext(ctx).
		Where("uuid = ? AND owner_id = ?", uuid, ownerID).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &session, nil
}

// ListSessions retrieves all sessions for an owner, newest first
func (r *RepositoryImpl) ListSessions(ctx context.Context, ownerID string) ([]models.EvidenceSession, error) {
	var sessions []models.EvidenceSession
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// UpdateSession updates an existing session
func (r *RepositoryImpl) UpdateSession(ctx context.Context, session *models.EvidenceSession) error {
	result := r.db.WithContext(ctx).Save(session)
	if result.Error != nil {
		return fmt.Errorf("updating session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("session not found")
	}
	return nil
}

// DeleteSession removes a session with its turns and bookmarks
func (r *RepositoryImpl) DeleteSession(ctx context.Context, session *models.EvidenceSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.Bookmark{}).Error; err != nil {
			return fmt.Errorf("deleting session bookmarks: %w", err)
		}
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.Turn{}).Error; err != nil {
			return fmt.Errorf("deleting session turns: %w", err)
		}
		if err := tx.Delete(session).Error; err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
		return nil
	})
}

// ClearConversation removes all turns for a session
func (r *RepositoryImpl) ClearConversation(ctx context.Context, sessionID uint) error {
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.Turn{}).Error; err != nil {
		return fmt.Errorf("clearing conversation: %w", err)
	}
	return nil
}
