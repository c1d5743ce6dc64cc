package services

import (
	"errors"
	"testing"
	"time"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(&models.User{ID: "u1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "a@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenExpires(t *testing.T) {
	now := time.Now()
	issuer := NewTokenIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return now }
	token, _ := issuer.Issue(&models.User{ID: "u1"})

	issuer.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestTokenRejectsForeignSignatureAndPurpose(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)
	token, _ := other.Issue(&models.User{ID: "u1"})
	if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected foreign signature to fail, got %v", err)
	}

	claims := &VerificationClaims{
		Purpose: "password-reset",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	wrong, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := issuer.Parse(wrong); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected wrong purpose to fail, got %v", err)
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour).Issue(&models.User{ID: "u1"}); err == nil {
		t.Fatalf("expected error with empty secret")
	}
}
