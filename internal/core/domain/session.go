package domain

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession         = errors.New("no session")
	ErrIncompleteSession = errors.New("session requires both access token and user")
)

// Session pairs the bearer access token with the cached user profile.
//
// User is nil only when a refresh minted a token before any profile was
// cached for the profile; login, signup and settings always carry it.
type Session struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user,omitempty"`
}

// Authenticated reports whether both halves of the session are present.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != "" && s.User != nil
}

// Validate rejects sessions that would break the token/profile pairing.
func (s Session) Validate() error {
	if s.AccessToken == "" || s.User == nil {
		return ErrIncompleteSession
	}
	return nil
}

// AccessTokenExpiry reads the exp claim of the access token without
// verifying its signature. The second return is false when the token is
// not a JWT or carries no exp.
func (s *Session) AccessTokenExpiry() (time.Time, bool) {
	if s == nil || s.AccessToken == "" {
		return time.Time{}, false
	}
	return TokenExpiry(s.AccessToken)
}

// TokenExpiry extracts the exp claim from an unverified JWT.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
