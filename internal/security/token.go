package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UserClaims are the claims the backend puts in its bearer credential.
// The client never holds the signing key, so the signature is not checked
// here; the backend remains the authority on validity.
type UserClaims struct {
	UserID string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the user id, falling back to the registered subject.
func (c *UserClaims) SubjectID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Expired reports whether the credential is past its expiry at now.
// Tokens without an expiry never expire client-side.
func (c *UserClaims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// InspectToken decodes a bearer credential without verifying its signature.
func InspectToken(tokenString string) (*UserClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &UserClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CheckToken decodes the credential and rejects it once expired.
func CheckToken(tokenString string, now time.Time) (*UserClaims, error) {
	claims, err := InspectToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Expired(now) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}
