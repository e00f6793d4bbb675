package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/avolkovs/talentdesk/internal/common"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateAccessToken("acc-123", "a@x.com", "candidate", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.AccountID != "acc-123" || claims.Email != "a@x.com" || claims.Role != "candidate" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRefreshToken_CarriesOnlyAccountID(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateRefreshToken("acc-123", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.AccountID != "acc-123" {
		t.Fatalf("account id mismatch: got %q", claims.AccountID)
	}
	if claims.Email != "" || claims.Role != "" {
		t.Fatalf("refresh token must not carry email/role: %+v", claims)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateAccessToken("a1", "a@x.com", "employer", secret, -time.Second)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken("a1", "a@x.com", "employer", []byte("right"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken("not.a.jwt", []byte("k")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
