package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/core/ports"
)

// SessionKey is the echo context key holding the *domain.Session of a
// protected request.
const SessionKey = "session"

// RefreshPolicy decides whether a session must go through the refresh
// route before a protected page is served.
type RefreshPolicy interface {
	NeedsRefresh(session *domain.Session) bool
}

// RequireSession loads the session and injects it into the context. A
// missing or expiring token sends the browser to the refresh route, which
// comes back to the requested page.
func RequireSession(store ports.SessionStore, policy RefreshPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := store.Read(c.Request().Context())
			if err != nil && !errors.Is(err, domain.ErrNoSession) {
				return fmt.Errorf("read session: %w", err)
			}

			if policy.NeedsRefresh(session) {
				target := domain.RefreshRedirect(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusFound, target)
			}

			c.Set(SessionKey, session)
			return next(c)
		}
	}
}

// SessionFrom returns the session injected by RequireSession.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(SessionKey).(*domain.Session)
	return s
}
