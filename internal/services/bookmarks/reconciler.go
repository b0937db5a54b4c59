package bookmarks

import (
	"math"

	"github.com/casetrail/evidence-api/internal/models"
)

// DefaultTolerance is the start-time slack, in seconds, allowed when
// matching a displayed event against a stored bookmark. Storage and
// transport round fractional seconds differently, so exact float
// equality would miss legitimate matches.
const DefaultTolerance = 0.1

// View maps displayed event indexes to the UUIDs of the bookmarks
// that cover them. It remembers which session it was computed for so
// results arriving after the investigator switched sessions can be
// discarded instead of applied to the wrong timeline.
type View struct {
	SessionUUID string
	Index       map[int]string
}

// For returns the index map when the view belongs to the given
// session, and reports false otherwise.
func (v View) For(sessionUUID string) (map[int]string, bool) {
	if v.SessionUUID != sessionUUID {
		return nil, false
	}
	return v.Index, true
}

// Reconcile matches each displayed event against the stored bookmarks.
// A bookmark covers an event when its start time is within tolerance
// of the event's and the summaries are byte-identical. The first
// matching bookmark (ascending creation order) wins; each bookmark
// covers at most one event.
//
// Two findings with the same start time and summary cannot be told
// apart, so the earlier index claims the bookmark.
func Reconcile(sessionUUID string, events models.TimelineEvents, marks []models.Bookmark, tolerance float64) View {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	index := make(map[int]string)
	claimed := make(map[string]bool)

	for i, event := range events {
		for _, mark := range marks {
			if claimed[mark.UUID] {
				continue
			}
			if math.Abs(event.FromTime-mark.FromTime) < tolerance && event.Summary == mark.Summary {
				index[i] = mark.UUID
				claimed[mark.UUID] = true
				break
			}
		}
	}

	return View{SessionUUID: sessionUUID, Index: index}
}
