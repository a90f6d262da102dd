package assistant

import (
	"strings"
	"time"
)

// dueLayouts are tried in order; the model is told to emit the first one.
var dueLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseDueDate parses a due date string from an action descriptor. Exact
// layouts first, then best-effort ISO forms. Returns false when nothing
// matches; an unparseable date never fails the surrounding action.
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	// "2025-06-01 14:30:00Z"-style strings with a space instead of T
	if t, err := time.Parse(time.RFC3339, strings.Replace(s, " ", "T", 1)); err == nil {
		return t, true
	}

	return time.Time{}, false
}
