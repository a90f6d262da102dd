package tasks

import (
	"strings"
	"time"
)

const (
	// MaxTitleLen is enforced on every write path, including assistant-created tasks.
	MaxTitleLen = 200

	// DefaultDescription marks tasks created through the assistant without an
	// explicit description.
	DefaultDescription = "Created via assistant"

	DefaultCategory = "other"
	DefaultPriority = "medium"
)

type Task struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Fields carries a partial set of task attributes. A nil pointer means the
// field was not supplied and must stay untouched on update.
type Fields struct {
	Title       *string
	Description *string
	Completed   *bool
	DueAt       *time.Time
	Category    *string
	Priority    *string
}

var categories = map[string]bool{
	"work":     true,
	"personal": true,
	"shopping": true,
	"health":   true,
	"finance":  true,
	"other":    true,
}

var priorities = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
	"urgent": true,
}

// NormalizeCategory lowercases and validates a category code. Anything outside
// the known set falls back to "other".
func NormalizeCategory(s string) string {
	c := strings.ToLower(strings.TrimSpace(s))
	if categories[c] {
		return c
	}
	return DefaultCategory
}

// NormalizePriority lowercases and validates a priority code. Anything outside
// the known set falls back to "medium".
func NormalizePriority(s string) string {
	p := strings.ToLower(strings.TrimSpace(s))
	if priorities[p] {
		return p
	}
	return DefaultPriority
}

// ClampTitle trims whitespace and cuts the title to MaxTitleLen characters.
func ClampTitle(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > MaxTitleLen {
		return string(r[:MaxTitleLen])
	}
	return s
}
