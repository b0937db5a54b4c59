package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// TimelineEvent is one time-ranged finding produced by analysis.
// Events carry no identity beyond structural equality of their time
// range and summary, which is why saved-event matching is fuzzy rather
// than a key lookup.
type TimelineEvent struct {
	FromTime   float64 `json:"from_time"` // seconds, 0 <= FromTime <= ToTime
	ToTime     float64 `json:"to_time"`
	Summary    string  `json:"summary"`
	Confidence float64 `json:"confidence"` // [0,1]
}

// TimelineEvents is an ordered, append-only event list stored as JSON
type TimelineEvents []TimelineEvent

// Value implements driver.Valuer for TimelineEvents
func (e TimelineEvents) Value() (driver.Value, error) {
	if e == nil {
		return json.Marshal(TimelineEvents{})
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner for TimelineEvents
func (e *TimelineEvents) Scan(value interface{}) error {
	if value == nil {
		*e = TimelineEvents{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported type for TimelineEvents")
	}

	return json.Unmarshal(bytes, e)
}
