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

// AuthService implements the login and signup actions.
type AuthService struct {
	api   ports.AuthAPI
	store ports.SessionStore
	log   zerolog.Logger
}

func NewAuthService(api ports.AuthAPI, store ports.SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, store: store, log: log}
}

// Login submits credentials and persists the session on success. It never
// returns a Go error: every failure is folded into the result.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) domain.ActionResult[domain.AuthResponse] {
	return s.authenticate(ctx, actionLogin, func(ctx context.Context) (*domain.AuthResponse, error) {
		return s.api.Login(ctx, creds)
	})
}

// Signup registers a new account and persists the session on success.
func (s *AuthService) Signup(ctx context.Context, reg domain.Registration) domain.ActionResult[domain.AuthResponse] {
	return s.authenticate(ctx, actionSignup, func(ctx context.Context) (*domain.AuthResponse, error) {
		return s.api.Register(ctx, reg)
	})
}

func (s *AuthService) authenticate(
	ctx context.Context,
	action string,
	call func(context.Context) (*domain.AuthResponse, error),
) (result domain.ActionResult[domain.AuthResponse]) {
	started := time.Now()
	defer func() { metrics.ObserveAction(action, outcomeOf(result), started) }()

	resp, err := call(ctx)
	if err != nil {
		var apiErr *domain.APIError
		if !errors.As(err, &apiErr) {
			s.log.Error().Err(err).Str("action", action).Msg("action request failed")
		}
		return domain.Failure[domain.AuthResponse](payloadFromError(err))
	}

	session := domain.Session{AccessToken: resp.AccessToken, User: &resp.User}
	if err := s.store.Save(ctx, session); err != nil {
		s.log.Error().Err(err).Str("action", action).Msg("failed to persist session")
		return domain.Failure[domain.AuthResponse](&domain.ServerError{
			Message: fmt.Sprintf("store session: %v", err),
		})
	}

	s.log.Info().
		Str("action", action).
		Str("user_id", resp.User.ID).
		Str("role", string(resp.User.Role)).
		Msg("session started")

	return domain.Success(*resp)
}
