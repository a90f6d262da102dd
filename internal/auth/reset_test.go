package auth

import (
	"strings"
	"testing"
)

func TestGenerateResetTokenIsURLSafeAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tok, err := generateResetToken()
		if err != nil {
			t.Fatalf("generateResetToken: %v", err)
		}
		if tok == "" {
			t.Fatal("empty token")
		}
		if strings.ContainsAny(tok, "+/=") {
			t.Fatalf("token not URL-safe: %q", tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = true
	}
}

func TestHashResetTokenIsStable(t *testing.T) {
	a := hashResetToken("some-token")
	b := hashResetToken("some-token")
	if a != b {
		t.Fatal("hash must be deterministic")
	}
	if a == hashResetToken("other-token") {
		t.Fatal("distinct tokens must hash differently")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %d chars", len(a))
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name@example.com"}
	invalid := []string{"", "plain", "@no-local.com", "user@", "user@nodot"}

	for _, e := range valid {
		if !validEmail(e) {
			t.Errorf("validEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if validEmail(e) {
			t.Errorf("validEmail(%q) = true, want false", e)
		}
	}
}
