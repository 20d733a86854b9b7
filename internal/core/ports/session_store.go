package ports

import (
	"context"

	"github.com/digitallog/console/internal/core/domain"
)

// SessionStore persists the access token and cached user of one session
// profile. Implementations must make Save appear atomic to readers: a
// token is never observable without its matching user or vice versa.
type SessionStore interface {
	// Read returns domain.ErrNoSession when nothing is stored.
	Read(ctx context.Context) (*domain.Session, error)
	// Save replaces the whole session. Incomplete sessions are rejected
	// with domain.ErrIncompleteSession.
	Save(ctx context.Context, session domain.Session) error
	// SetAccessToken replaces only the token, leaving the user untouched.
	SetAccessToken(ctx context.Context, token string) error
	// SetUser replaces only the cached user, leaving the token untouched.
	SetUser(ctx context.Context, user domain.User) error
	// Clear removes both fields. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
