package bookmarks

import (
	"testing"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_MatchesWithinTolerance(t *testing.T) {
	events := models.TimelineEvents{
		{FromTime: 12.0, ToTime: 18.0, Summary: "Person enters lobby", Confidence: 0.92},
		{FromTime: 45.0, ToTime: 50.0, Summary: "Door closes", Confidence: 0.81},
	}
	marks := []models.Bookmark{
		{UUID: "mark-1", FromTime: 12.05, Summary: "Person enters lobby"},
	}

	view := Reconcile("session-1", events, marks, DefaultTolerance)

	require.Len(t, view.Index, 1)
	assert.Equal(t, "mark-1", view.Index[0])
}

func TestReconcile_RejectsOutsideTolerance(t *testing.T) {
	events := models.TimelineEvents{
		{FromTime: 12.0, Summary: "Person enters lobby"},
	}
	marks := []models.Bookmark{
		{UUID: "mark-1", FromTime: 12.2, Summary: "Person enters lobby"},
	}

	view := Reconcile("session-1", events, marks, DefaultTolerance)
	assert.Empty(t, view.Index)
}

func TestReconcile_SummaryMustBeExact(t *testing.T) {
	events := models.TimelineEvents{
		{FromTime: 12.0, Summary: "Person enters lobby"},
	}
	marks := []models.Bookmark{
		{UUID: "mark-1", FromTime: 12.0, Summary: "person enters lobby"},
	}

	view := Reconcile("session-1", events, marks, DefaultTolerance)
	assert.Empty(t, view.Index, "summary comparison is case sensitive")
}

func TestReconcile_FirstBookmarkWins(t *testing.T) {
	events := models.TimelineEvents{
		{FromTime: 12.0, Summary: "Person enters lobby"},
	}
	marks := []models.Bookmark{
		{UUID: "older", FromTime: 12.0, Summary: "Person enters lobby"},
		{UUID: "newer", FromTime: 12.0, Summary: "Person enters lobby"},
	}

	view := Reconcile("session-1", events, marks, DefaultTolerance)
	assert.Equal(t, "older", view.Index[0])
}

func TestReconcile_BookmarkCoversOneEventOnly(t *testing.T) {
	// duplicate findings with identical time and summary cannot be
	// told apart; the earlier index claims the bookmark
	events := models.TimelineEvents{
		{FromTime: 12.0, Summary: "Person enters lobby"},
		{FromTime: 12.0, Summary: "Person enters lobby"},
	}
	marks := []models.Bookmark{
		{UUID: "mark-1", FromTime: 12.0, Summary: "Person enters lobby"},
	}

	view := Reconcile("session-1", events, marks, DefaultTolerance)
	require.Len(t, view.Index, 1)
	assert.Equal(t, "mark-1", view.Index[0])
	_, secondCovered := view.Index[1]
	assert.False(t, secondCovered)
}

func TestReconcile_EachEventGetsOwnBookmark(t *testing.T) {
	events := models.TimelineEvents{
		{FromTime: 12.0, Summary: "Person enters lobby"},
		{FromTime: 12.0, Summary: "Person enters lobby"},
	}
	marks := []models.Bookmark{
		{UUID: "mark-1", FromTime: 12.0, Summary: "Person enters lobby"},
		{UUID: "mark-2", FromTime: 12.0, Summary: "Person enters lobby"},
	}

	view := Reconcile("session-1", events, marks, DefaultTolerance)
	assert.Equal(t, "mark-1", view.Index[0])
	assert.Equal(t, "mark-2", view.Index[1])
}

func TestReconcile_ZeroToleranceFallsBackToDefault(t *testing.T) {
	events := models.TimelineEvents{
		{FromTime: 12.0, Summary: "Person enters lobby"},
	}
	marks := []models.Bookmark{
		{UUID: "mark-1", FromTime: 12.05, Summary: "Person enters lobby"},
	}

	view := Reconcile("session-1", events, marks, 0)
	assert.Equal(t, "mark-1", view.Index[0])
}

func TestView_For(t *testing.T) {
	view := View{SessionUUID: "session-1", Index: map[int]string{0: "mark-1"}}

	index, ok := view.For("session-1")
	require.True(t, ok)
	assert.Equal(t, "mark-1", index[0])

	// results computed for another session are discarded
	_, ok = view.For("session-2")
	assert.False(t, ok)
}
