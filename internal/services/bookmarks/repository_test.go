package bookmarks

import (
	"context"
	"testing"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.EvidenceSession{}, &models.Turn{}, &models.Bookmark{})
	require.NoError(t, err)

	return db
}

func TestRepositoryImpl_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	marks := []models.Bookmark{
		{SessionID: 1, OwnerID: "investigator-1", FromTime: 45, ToTime: 50, Summary: "Door closes", Confidence: 0.81},
		{SessionID: 1, OwnerID: "investigator-1", FromTime: 12, ToTime: 18, Summary: "Person enters lobby", Confidence: 0.92},
		{SessionID: 2, OwnerID: "investigator-1", FromTime: 3, ToTime: 4, Summary: "Other session", Confidence: 0.5},
	}
	for i := range marks {
		require.NoError(t, repo.CreateBookmark(ctx, &marks[i]))
		assert.NotEmpty(t, marks[i].UUID)
	}

	listed, err := repo.ListBookmarks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	// creation order, not time order
	assert.Equal(t, "Door closes", listed[0].Summary)
	assert.Equal(t, "Person enters lobby", listed[1].Summary)
}

func TestRepositoryImpl_DeleteBookmarkByUUID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mark := &models.Bookmark{SessionID: 1, OwnerID: "investigator-1", FromTime: 12, Summary: "Person enters lobby"}
	require.NoError(t, repo.CreateBookmark(ctx, mark))

	t.Run("wrong session leaves the bookmark", func(t *testing.T) {
		err := repo.DeleteBookmarkByUUID(ctx, 99, mark.UUID)
		assert.Error(t, err)

		listed, err := repo.ListBookmarks(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("matching session removes it", func(t *testing.T) {
		require.NoError(t, repo.DeleteBookmarkByUUID(ctx, 1, mark.UUID))

		listed, err := repo.ListBookmarks(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("missing bookmark errors", func(t *testing.T) {
		err := repo.DeleteBookmarkByUUID(ctx, 1, "no-such-mark")
		assert.Error(t, err)
	})
}
