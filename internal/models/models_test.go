package models

import (
	"testing"

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

	require.NoError(t, db.AutoMigrate(&EvidenceSession{}, &Turn{}, &Bookmark{}))
	return db
}

func TestEvidenceSession_BeforeCreate(t *testing.T) {
	db := setupTestDB(t)

	session := &EvidenceSession{OwnerID: "investigator-1", CaseNumber: "CASE-042"}
	require.NoError(t, db.Create(session).Error)

	assert.NotEmpty(t, session.UUID)
	assert.Equal(t, SessionStatusIdle, session.Status)
}

func TestEvidenceSession_HasDurableVideo(t *testing.T) {
	session := &EvidenceSession{}
	assert.False(t, session.HasDurableVideo())

	session.Fingerprint = "abc123"
	session.StorageKey = "abc123.mp4"
	assert.True(t, session.HasDurableVideo())
}

func TestTimelineEvents_RoundTrip(t *testing.T) {
	db := setupTestDB(t)

	session := &EvidenceSession{
		OwnerID: "investigator-1",
		Events: TimelineEvents{
			{FromTime: 10, ToTime: 12, Summary: "Person enters frame", Confidence: 0.92},
			{FromTime: 45, ToTime: 50, Summary: "Vehicle departs", Confidence: 0.81},
		},
	}
	require.NoError(t, db.Create(session).Error)

	var loaded EvidenceSession
	require.NoError(t, db.First(&loaded, session.ID).Error)

	require.Len(t, loaded.Events, 2)
	assert.Equal(t, "Person enters frame", loaded.Events[0].Summary)
	assert.Equal(t, 45.0, loaded.Events[1].FromTime)
}

func TestTurn_FindingsRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	session := &EvidenceSession{OwnerID: "investigator-1"}
	require.NoError(t, db.Create(session).Error)

	turn := &Turn{
		SessionID: session.ID,
		Role:      TurnRoleAssistant,
		State:     TurnStateResolved,
		Text:      "Two events detected.",
		Findings: &TurnFindings{
			Summary: "Two events detected.",
			Events: TimelineEvents{
				{FromTime: 3, ToTime: 8, Summary: "Door opens", Confidence: 0.95},
			},
		},
	}
	require.NoError(t, db.Create(turn).Error)
	assert.NotEmpty(t, turn.UUID)

	var loaded Turn
	require.NoError(t, db.First(&loaded, turn.ID).Error)
	require.NotNil(t, loaded.Findings)
	require.Len(t, loaded.Findings.Events, 1)
	assert.Equal(t, "Door opens", loaded.Findings.Events[0].Summary)
}

func TestTurn_IsPending(t *testing.T) {
	turn := &Turn{State: TurnStatePending}
	assert.True(t, turn.IsPending())

	turn.State = TurnStateResolved
	assert.False(t, turn.IsPending())
}

func TestBookmark_BeforeCreate(t *testing.T) {
	db := setupTestDB(t)

	session := &EvidenceSession{OwnerID: "investigator-1"}
	require.NoError(t, db.Create(session).Error)

	bookmark := &Bookmark{
		SessionID: session.ID,
		OwnerID:   "investigator-1",
		FromTime:  10,
		ToTime:    12,
		Summary:   "Person enters frame",
	}
	require.NoError(t, db.Create(bookmark).Error)
	assert.Len(t, bookmark.UUID, 36)
}
