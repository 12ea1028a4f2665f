package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fourx/backend/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := &service{secret: []byte("test-secret")}
	userID := uuid.New()

	token, err := svc.issueToken(userID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	gotID, gotRole, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if gotID != userID {
		t.Errorf("subject = %s, want %s", gotID, userID)
	}
	if gotRole != models.RoleAdmin {
		t.Errorf("role = %q, want admin", gotRole)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := &service{secret: []byte("secret-a")}
	verifier := &service{secret: []byte("secret-b")}

	token, err := issuer.issueToken(uuid.New(), models.RoleUser)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, _, err := verifier.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("token signed with another secret validated")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := &service{secret: []byte("test-secret")}
	if _, _, err := svc.ValidateToken(context.Background(), "not.a.jwt"); err == nil {
		t.Fatal("garbage token validated")
	}
}

func TestNewReferralCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := newReferralCode()
		if len(code) != 8 {
			t.Fatalf("code %q has length %d, want 8", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(referralAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	// 50 draws from 62^8 should never collide.
	if len(seen) != 50 {
		t.Errorf("got %d distinct codes out of 50", len(seen))
	}
}
