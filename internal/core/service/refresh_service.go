package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/core/ports"
	"github.com/digitallog/console/internal/metrics"
)

const (
	defaultRefreshSkew = 30 * time.Second

	// refreshFailedMessage is used when a non-OK refresh reply has no message.
	refreshFailedMessage = "Error al refrescar el token"

	// expiredMarker is how the API signals that the refresh cookie itself
	// expired. There is no structured code for it yet.
	expiredMarker = "token expired"
)

// RefreshService exchanges the refresh cookie for a new access token.
type RefreshService struct {
	api   ports.AuthAPI
	store ports.SessionStore
	log   zerolog.Logger
	skew  time.Duration
	now   func() time.Time
	group singleflight.Group

	mu sync.Mutex
	// minted is the last token this service obtained. The skew does not
	// apply to it, so a token that lives shorter than the skew is used
	// until it actually expires instead of being refreshed again.
	minted string
}

func NewRefreshService(api ports.AuthAPI, store ports.SessionStore, skew time.Duration, log zerolog.Logger) *RefreshService {
	if skew <= 0 {
		skew = defaultRefreshSkew
	}
	return &RefreshService{api: api, store: store, log: log, skew: skew, now: time.Now}
}

// Refresh runs the refresh loader for a navigation to redirect.
//
//   - success: the new token is stored (user untouched) and the caller is
//     sent to redirect, or "/" when empty.
//   - refresh cookie expired: the session is cleared and the caller is
//     sent to the login page.
//   - anything else: a *domain.FatalError for the error page.
//
// Concurrent calls share one remote request.
func (s *RefreshService) Refresh(ctx context.Context, redirect string) (domain.Redirect, error) {
	target := domain.SafeRedirectTarget(redirect)

	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.api.RefreshToken(ctx)
	})
	if err != nil {
		return s.handleFailure(ctx, err)
	}
	token, _ := v.(string)

	if err := s.store.SetAccessToken(ctx, token); err != nil {
		s.log.Error().Err(err).Msg("failed to store refreshed token")
		metrics.RefreshOutcomesTotal.WithLabelValues("fatal").Inc()
		return domain.Redirect{}, domain.NewFatalError(0, "", "store access token: "+err.Error())
	}
	s.mu.Lock()
	s.minted = token
	s.mu.Unlock()

	metrics.RefreshOutcomesTotal.WithLabelValues("authenticated").Inc()
	s.log.Debug().Str("redirect", target).Msg("access token refreshed")
	return domain.Redirect{To: target}, nil
}

func (s *RefreshService) handleFailure(ctx context.Context, err error) (domain.Redirect, error) {
	fatal := fatalFromError(err)

	if strings.Contains(fatal.Message, expiredMarker) {
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			s.log.Error().Err(clearErr).Msg("failed to clear expired session")
			metrics.RefreshOutcomesTotal.WithLabelValues("fatal").Inc()
			return domain.Redirect{}, domain.NewFatalError(0, "", "clear session: "+clearErr.Error())
		}
		metrics.SessionClearsTotal.WithLabelValues("refresh_expired").Inc()
		metrics.RefreshOutcomesTotal.WithLabelValues("awaiting_login").Inc()
		s.log.Info().Msg("refresh token expired, login required")
		return domain.Redirect{To: domain.RouteLogin}, nil
	}

	metrics.RefreshOutcomesTotal.WithLabelValues("fatal").Inc()
	s.log.Error().
		Int("status", fatal.Status).
		Str("status_text", fatal.StatusText).
		Str("message", fatal.Message).
		Msg("token refresh failed")
	return domain.Redirect{}, fatal
}

func fatalFromError(err error) *domain.FatalError {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = refreshFailedMessage
		}
		return domain.NewFatalError(apiErr.Status, apiErr.StatusText, msg)
	}
	return domain.NewFatalError(0, "", err.Error())
}

// NeedsRefresh reports whether a protected navigation should go through
// the refresh loader first: no token cached, or its exp claim falls
// within the configured skew. Tokens without a readable exp are left for
// the server to judge. A token this service just minted is only checked
// against its exp.
func (s *RefreshService) NeedsRefresh(session *domain.Session) bool {
	if session == nil || session.AccessToken == "" {
		return true
	}
	exp, ok := session.AccessTokenExpiry()
	if !ok {
		return false
	}
	skew := s.skew
	s.mu.Lock()
	if session.AccessToken == s.minted {
		skew = 0
	}
	s.mu.Unlock()
	return !s.now().Add(skew).Before(exp)
}
