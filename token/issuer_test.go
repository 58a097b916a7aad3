package token

import (
	"encoding/base64"
	"testing"
)

func TestNewIssuerRejectsNonPositiveLength(t *testing.T) {
	for _, n := range []int{0, -1, -48} {
		if _, err := NewIssuer(n); err == nil {
			t.Fatalf("expected error for length %d", n)
		}
	}
}

func TestIssueProducesExactEntropyWidth(t *testing.T) {
	for _, n := range []int{1, 16, 32, 48} {
		issuer, err := NewIssuer(n)
		if err != nil {
			t.Fatalf("new issuer(%d): %v", n, err)
		}

		tok, err := issuer.Issue()
		if err != nil {
			t.Fatalf("issue(%d): %v", n, err)
		}

		raw, err := base64.RawURLEncoding.DecodeString(tok)
		if err != nil {
			t.Fatalf("token %q is not base64url: %v", tok, err)
		}
		if len(raw) != n {
			t.Fatalf("expected %d entropy bytes, got %d", n, len(raw))
		}
	}
}

func TestIssueNeverRepeats(t *testing.T) {
	issuer, err := NewIssuer(16)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	const draws = 10000
	seen := make(map[string]struct{}, draws)
	for i := 0; i < draws; i++ {
		tok, err := issuer.Issue()
		if err != nil {
			t.Fatalf("issue %d: %v", i, err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[tok] = struct{}{}
	}
}
