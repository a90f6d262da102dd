package tasks

import (
	"strings"
	"testing"
)

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"work", "work"},
		{"Shopping", "shopping"},
		{"  HEALTH  ", "health"},
		{"finance", "finance"},
		{"chores", "other"},
		{"", "other"},
	}
	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"low", "low"},
		{"URGENT", "urgent"},
		{" High ", "high"},
		{"asap", "medium"},
		{"", "medium"},
	}
	for _, tc := range cases {
		if got := NormalizePriority(tc.in); got != tc.want {
			t.Errorf("NormalizePriority(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClampTitle(t *testing.T) {
	if got := ClampTitle("  Buy milk  "); got != "Buy milk" {
		t.Fatalf("got %q", got)
	}

	long := strings.Repeat("é", 250)
	got := ClampTitle(long)
	if n := len([]rune(got)); n != 200 {
		t.Fatalf("clamped to %d runes, want 200", n)
	}
	if !strings.HasPrefix(long, got) {
		t.Fatal("clamp must be a prefix of the original")
	}

	if got := ClampTitle("short"); got != "short" {
		t.Fatalf("got %q", got)
	}
}
