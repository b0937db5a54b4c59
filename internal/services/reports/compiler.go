package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/casetrail/evidence-api/pkg/timecode"
)

// Clarity buckets a finding's confidence into a reviewer-facing label
type Clarity string

const (
	ClarityHigh     Clarity = "high"
	ClarityModerate Clarity = "moderate"
	ClarityLow      Clarity = "low"
)

// ClarityFor maps a confidence value to its clarity bucket
func ClarityFor(confidence float64) Clarity {
	switch {
	case confidence > 0.9:
		return ClarityHigh
	case confidence > 0.7:
		return ClarityModerate
	default:
		return ClarityLow
	}
}

// Row is one findings-log entry in a compiled report
type Row struct {
	Timecode   string  `json:"timecode"`
	EndTime    string  `json:"end_time"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"`
	Clarity    Clarity `json:"clarity"`
}

// Report is the compiled narrative and findings log for one session
type Report struct {
	CaseNumber   string    `json:"case_number,omitempty"`
	EvidenceName string    `json:"evidence_name"`
	GeneratedAt  time.Time `json:"generated_at"`
	Narrative    string    `json:"narrative"`
	Rows         []Row     `json:"rows"`
}

// Compile builds a report from a bookmark set. The output depends only
// on its inputs: identical bookmarks, evidence name, and timestamp
// produce byte-identical narrative and rows.
func Compile(evidenceName, caseNumber string, marks []models.Bookmark, generatedAt time.Time) *Report {
	sorted := make([]models.Bookmark, len(marks))
	copy(sorted, marks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FromTime < sorted[j].FromTime
	})

	rows := make([]Row, 0, len(sorted))
	for _, mark := range sorted {
		rows = append(rows, Row{
			Timecode:   timecode.Format(mark.FromTime),
			EndTime:    timecode.Format(mark.ToTime),
			Summary:    mark.Summary,
			Confidence: mark.Confidence,
			Clarity:    ClarityFor(mark.Confidence),
		})
	}

	return &Report{
		CaseNumber:   caseNumber,
		EvidenceName: evidenceName,
		GeneratedAt:  generatedAt,
		Narrative:    narrative(evidenceName, rows),
		Rows:         rows,
	}
}

func narrative(evidenceName string, rows []Row) string {
	var b strings.Builder

	if len(rows) == 0 {
		fmt.Fprintf(&b, "Review of evidence file %q produced no bookmarked findings.", evidenceName)
		return b.String()
	}

	noun := "findings"
	if len(rows) == 1 {
		noun = "finding"
	}
	fmt.Fprintf(&b, "Review of evidence file %q produced %d bookmarked %s.", evidenceName, len(rows), noun)

	for _, row := range rows {
		fmt.Fprintf(&b, " At %s: %s.", row.Timecode, strings.TrimRight(row.Summary, "."))
	}

	return b.String()
}
