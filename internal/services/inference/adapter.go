package inference

import (
	"encoding/json"
	"strings"

	"github.com/casetrail/evidence-api/internal/models"
	"github.com/casetrail/evidence-api/pkg/timecode"
)

// The model is prompted for a strict schema but treated as untrusted:
// field names drift between runs and models, so each concept is looked
// up through a synonym list in priority order. Changing the tolerance
// lists here must never require touching the session state machine.
var (
	startKeys      = []string{"startTime", "start_time", "start", "from", "begin"}
	endKeys        = []string{"endTime", "end_time", "end", "to", "finish"}
	summaryKeys    = []string{"summary", "description", "text", "label"}
	confidenceKeys = []string{"confidence", "score", "probability"}
)

// defaultSummary is used when a finding carries no description at all
const defaultSummary = "Event Detected"

// defaultConfidence is the fallback when the model omits a confidence
const defaultConfidence = 0.95

// rawResponse is the loosely-typed shape of a findings payload
type rawResponse struct {
	Findings []map[string]interface{} `json:"findings"`
	Summary  string                   `json:"summary"`
	Events   []map[string]interface{} `json:"events"` // synonym some models prefer
}

// parseFindings decodes a findings payload and normalizes every entry.
// Returns ok=false only when the payload is not JSON at all; a decoded
// payload with zero findings is a valid empty result.
func parseFindings(payload string) (string, models.TimelineEvents, bool) {
	payload = stripCodeFence(payload)

	var raw rawResponse
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return "", nil, false
	}

	entries := raw.Findings
	if entries == nil {
		entries = raw.Events
	}

	events := make(models.TimelineEvents, 0, len(entries))
	for _, entry := range entries {
		events = append(events, normalizeFinding(entry))
	}

	return raw.Summary, events, true
}

// normalizeFinding maps one untrusted finding object onto a TimelineEvent
func normalizeFinding(entry map[string]interface{}) models.TimelineEvent {
	from := timecode.Normalize(lookup(entry, startKeys))
	to := timecode.Normalize(lookup(entry, endKeys))

	if from < 0 {
		from = 0
	}
	if to < from {
		to = from
	}

	summary := defaultSummary
	if v := lookup(entry, summaryKeys); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			summary = strings.TrimSpace(s)
		}
	}

	confidence := defaultConfidence
	if v := lookup(entry, confidenceKeys); v != nil {
		if f, ok := toFloat(v); ok {
			confidence = f
		}
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return models.TimelineEvent{
		FromTime:   from,
		ToTime:     to,
		Summary:    summary,
		Confidence: confidence,
	}
}

// lookup returns the first present key from the priority list
func lookup(entry map[string]interface{}, keys []string) interface{} {
	for _, key := range keys {
		if v, ok := entry[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case int:
		return float64(f), true
	case string:
		n := timecode.Normalize(f)
		if n == 0 && strings.TrimSpace(f) != "0" {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// stripCodeFence removes a markdown fence the model sometimes wraps
// JSON responses in
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
