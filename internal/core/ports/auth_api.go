package ports

import (
	"context"

	"github.com/digitallog/console/internal/core/domain"
)

// AuthAPI is the remote authentication and user service.
//
// Non-OK replies are returned as *domain.APIError. Any other error is a
// transport failure.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthResponse, error)
	// RefreshToken exchanges the refresh cookie for a new access token.
	RefreshToken(ctx context.Context) (string, error)
	Logout(ctx context.Context, accessToken string) error
	// UpdateCurrentUser sends body (a profile or password update) with the
	// bearer token and returns the updated user.
	UpdateCurrentUser(ctx context.Context, accessToken string, body any) (*domain.User, error)
}

// CookieResetter is implemented by AuthAPI transports that keep a local
// copy of the session cookies.
type CookieResetter interface {
	ResetCookies() error
}
