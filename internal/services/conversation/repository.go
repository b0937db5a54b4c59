package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casetrail/evidence-api/internal/models"
	"gorm.io/gorm"
)

// ErrPendingExchange reports that the session already holds a pending
// assistant turn, so a new exchange cannot be appended yet.
var ErrPendingExchange = errors.New("session already has a pending turn")

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new turn repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// AppendExchange inserts a user turn and its pending assistant
// placeholder in one transaction. The partial unique index on pending
// turns makes the insert itself the gate: two racing submissions cannot
// both commit a placeholder, the loser gets ErrPendingExchange.
func (r *RepositoryImpl) AppendExchange(ctx context.Context, user, assistant *models.Turn) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("creating user turn: %w", err)
		}
		if err := tx.Create(assistant).Error; err != nil {
			return fmt.Errorf("creating assistant turn: %w", err)
		}
		return nil
	})
	if err != nil && isPendingConflict(err) {
		return ErrPendingExchange
	}
	return err
}

// isPendingConflict matches a violation of the one-pending-turn index
func isPendingConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: turns.session_id")
}

// ResolveTurn moves the identified pending turn to resolved
func (r *RepositoryImpl) ResolveTurn(ctx context.Context, turnUUID string, findings *models.TurnFindings) (*models.Turn, error) {
	return r.settleTurn(ctx, turnUUID, func(turn *models.Turn) {
		turn.State = models.TurnStateResolved
		turn.Findings = findings
		if findings != nil {
			turn.Text = findings.Summary
		}
	})
}

// FailTurn moves the identified pending turn to failed
func (r *RepositoryImpl) FailTurn(ctx context.Context, turnUUID string, reason string) (*models.Turn, error) {
	return r.settleTurn(ctx, turnUUID, func(turn *models.Turn) {
		turn.State = models.TurnStateFailed
		turn.Text = reason
	})
}

// settleTurn applies a terminal state to a pending turn by UUID
func (r *RepositoryImpl) settleTurn(ctx context.Context, turnUUID string, mutate func(*models.Turn)) (*models.Turn, error) {
	var turn models.Turn
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", turnUUID).First(&turn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("turn not found")
			}
			return fmt.Errorf("getting turn: %w", err)
		}
		if !turn.IsPending() {
			return fmt.Errorf("turn %s is not pending", turnUUID)
		}
		mutate(&turn)
		if err := tx.Save(&turn).Error; err != nil {
			return fmt.Errorf("updating turn: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// ListTurns returns the session's turns oldest first
func (r *RepositoryImpl) ListTurns(ctx context.Context, sessionID uint) ([]models.Turn, error) {
	var turns []models.Turn
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&turns).Error; err != nil {
		return nil, fmt.Errorf("listing turns: %w", err)
	}
	return turns, nil
}
