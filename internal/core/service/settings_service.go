package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/core/ports"
	"github.com/digitallog/console/internal/metrics"
)

// SettingsService applies authenticated changes to the current user.
type SettingsService struct {
	api   ports.AuthAPI
	store ports.SessionStore
	log   zerolog.Logger
}

func NewSettingsService(api ports.AuthAPI, store ports.SessionStore, log zerolog.Logger) *SettingsService {
	return &SettingsService{api: api, store: store, log: log}
}

// UpdateProfile sends the non-empty profile fields. Without a cached
// token it returns a redirect to the landing route and makes no request.
func (s *SettingsService) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (domain.ActionResult[domain.User], *domain.Redirect) {
	return s.update(ctx, actionSettingsProfile, upd)
}

// UpdatePassword sends a new password. Confirmation equality is checked by
// the form before this is called.
func (s *SettingsService) UpdatePassword(ctx context.Context, upd domain.PasswordUpdate) (domain.ActionResult[domain.User], *domain.Redirect) {
	return s.update(ctx, actionSettingsPassword, upd)
}

func (s *SettingsService) update(ctx context.Context, action string, body any) (result domain.ActionResult[domain.User], redirect *domain.Redirect) {
	started := time.Now()
	defer func() {
		outcome := "redirect"
		if redirect == nil {
			outcome = outcomeOf(result)
		}
		metrics.ObserveAction(action, outcome, started)
	}()

	session, err := s.store.Read(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoSession) {
		s.log.Error().Err(err).Str("action", action).Msg("failed to read session")
		return domain.Failure[domain.User](&domain.ServerError{Message: fmt.Sprintf("read session: %v", err)}), nil
	}
	if session == nil || session.AccessToken == "" {
		return domain.ActionResult[domain.User]{}, &domain.Redirect{To: domain.RouteLanding}
	}

	user, err := s.api.UpdateCurrentUser(ctx, session.AccessToken, body)
	if err != nil {
		var apiErr *domain.APIError
		if !errors.As(err, &apiErr) {
			s.log.Error().Err(err).Str("action", action).Msg("action request failed")
		}
		return domain.Failure[domain.User](payloadFromError(err)), nil
	}

	if err := s.store.SetUser(ctx, *user); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("failed to cache updated user")
		return domain.Failure[domain.User](&domain.ServerError{Message: fmt.Sprintf("store user: %v", err)}), nil
	}

	s.log.Info().Str("action", action).Str("user_id", user.ID).Msg("user updated")
	return domain.Success(*user), nil
}
