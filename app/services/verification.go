package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/bigcorp-shop/app/models"
	"github.com/golang-jwt/jwt/v5"
)

const (
	verificationPurpose = "email-verification"
	tokenIssuer         = "bigcorp-shop"
)

type VerificationClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and checks the links mailed to new accounts.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("verification secret is empty")
	}
	now := t.now()
	claims := &VerificationClaims{
		Email:   user.Email,
		Purpose: verificationPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) Parse(tokenString string) (*VerificationClaims, error) {
	claims := &VerificationClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != verificationPurpose || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
