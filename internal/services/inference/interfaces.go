package inference

import (
	"context"

	"github.com/casetrail/evidence-api/internal/models"
)

// AnalysisRequest describes one inference call against stored evidence
type AnalysisRequest struct {
	EvidenceReference string
	EvidenceName      string
	Prompt            string
	Model             string // optional override of the configured model
}

// AnalysisResult is a normalized findings batch
type AnalysisResult struct {
	Summary string
	Events  models.TimelineEvents
}

// Analyzer defines the interface for the video analysis collaborator
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
}
