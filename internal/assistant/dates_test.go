package assistant

import (
	"testing"
	"time"
)

func TestParseDueDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-01 14:30", time.Date(2025, 6, 1, 14, 30, 0, 0, time.Local)},
		{"2025-06-01T14:30", time.Date(2025, 6, 1, 14, 30, 0, 0, time.Local)},
		{"2025-06-01 14:30:45", time.Date(2025, 6, 1, 14, 30, 45, 0, time.Local)},
		{"2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)},
		{"06/15/2025 09:00", time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)},
		{"06/15/2025", time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)},
		{"  2025-06-01 14:30  ", time.Date(2025, 6, 1, 14, 30, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		got, ok := ParseDueDate(tc.in)
		if !ok {
			t.Errorf("ParseDueDate(%q): no date", tc.in)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDueDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDueDateRFC3339(t *testing.T) {
	got, ok := ParseDueDate("2025-06-01T14:30:00Z")
	if !ok {
		t.Fatal("no date")
	}
	want := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// space instead of T still resolves
	got, ok = ParseDueDate("2025-06-01 14:30:00Z")
	if !ok {
		t.Fatal("no date for space-separated RFC3339")
	}
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseDueDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "next blursday", "tomorrow", "2025-13-45", "14:30"} {
		if _, ok := ParseDueDate(in); ok {
			t.Errorf("ParseDueDate(%q): expected no date", in)
		}
	}
}
