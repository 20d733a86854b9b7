package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/core/ports"
	"github.com/digitallog/console/internal/metrics"
)

// LogoutService de-authenticates the local session.
type LogoutService struct {
	api   ports.AuthAPI
	store ports.SessionStore
	log   zerolog.Logger
}

func NewLogoutService(api ports.AuthAPI, store ports.SessionStore, log zerolog.Logger) *LogoutService {
	return &LogoutService{api: api, store: store, log: log}
}

// Logout invalidates the session server-side when a token is cached, then
// always clears the local session. The server call is advisory: its
// failures are logged and never stop the local cleanup.
//
// currentPath is where the caller is now; logging out from the landing
// route asks for a reload instead of a navigation.
func (s *LogoutService) Logout(ctx context.Context, currentPath string) domain.Redirect {
	started := time.Now()
	outcome := "ok"

	session, err := s.store.Read(ctx)
	switch {
	case err == nil && session.AccessToken != "":
		if err := s.api.Logout(ctx, session.AccessToken); err != nil {
			outcome = domain.CodeServerError
			var apiErr *domain.APIError
			if errors.As(err, &apiErr) {
				s.log.Warn().Int("status", apiErr.Status).Msg("logout failed on server")
			} else {
				s.log.Error().Err(err).Msg("logout request failed")
			}
		}
	case err != nil && !errors.Is(err, domain.ErrNoSession):
		s.log.Warn().Err(err).Msg("could not read session before logout")
	}

	if err := s.store.Clear(ctx); err != nil {
		outcome = domain.CodeServerError
		s.log.Error().Err(err).Msg("failed to clear session")
	}
	if r, ok := s.api.(ports.CookieResetter); ok {
		if err := r.ResetCookies(); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset cookies")
		}
	}
	metrics.SessionClearsTotal.WithLabelValues("logout").Inc()
	metrics.ObserveAction(actionLogout, outcome, started)

	if currentPath == domain.RouteLanding {
		return domain.Redirect{To: domain.RouteLanding, Reload: true}
	}
	return domain.Redirect{To: domain.RouteLanding}
}
