// Package timecode converts the time representations that appear in
// inference responses into canonical seconds, and formats seconds back
// into display timecodes.
package timecode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Normalize converts a heterogeneous time value into seconds.
//
// Numeric values pass through unchanged. Strings are split on ":" and
// interpreted as HH:MM:SS (3 parts), MM:SS (2 parts), or plain seconds
// (1 part). Anything malformed yields 0 rather than an error: the
// values come from an untrusted inference response and a bad timestamp
// must not poison the whole findings batch.
func Normalize(value interface{}) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		return normalizeString(v)
	default:
		return 0
	}
}

func normalizeString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 3:
		h, okH := parsePart(parts[0])
		m, okM := parsePart(parts[1])
		sec, okS := parsePart(parts[2])
		if !okH || !okM || !okS {
			return 0
		}
		return h*3600 + m*60 + sec
	case 2:
		m, okM := parsePart(parts[0])
		sec, okS := parsePart(parts[1])
		if !okM || !okS {
			return 0
		}
		return m*60 + sec
	case 1:
		sec, ok := parsePart(parts[0])
		if !ok {
			return 0
		}
		return sec
	default:
		return 0
	}
}

func parsePart(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Format renders seconds as MM:SS, or HH:MM:SS when the value reaches
// a full hour. Negative input is clamped to zero.
func Format(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
