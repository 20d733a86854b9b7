package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/digitallog/console/internal/core/domain"
)

func newRefreshSvc(api *stubAPI, store *stubStore) *RefreshService {
	return NewRefreshService(api, store, time.Minute, zerolog.Nop())
}

func TestRefreshService_Success_StoresTokenKeepsUser(t *testing.T) {
	store := seededStore("stale", testUser())
	api := &stubAPI{refreshFn: func(context.Context) (string, error) { return "abc", nil }}

	redirect, err := newRefreshSvc(api, store).Refresh(context.Background(), "/blogs/hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redirect.To != "/blogs/hello" {
		t.Fatalf("expected redirect to /blogs/hello, got %q", redirect.To)
	}
	if store.token != "abc" {
		t.Fatalf("expected token abc, got %q", store.token)
	}
	if store.user == nil || *store.user != *testUser() {
		t.Fatalf("user changed by refresh: %+v", store.user)
	}
}

func TestRefreshService_Success_DefaultsToLanding(t *testing.T) {
	store := &stubStore{}
	api := &stubAPI{refreshFn: func(context.Context) (string, error) { return "abc", nil }}

	redirect, err := newRefreshSvc(api, store).Refresh(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redirect.To != domain.RouteLanding {
		t.Fatalf("expected /, got %q", redirect.To)
	}
}

func TestRefreshService_RejectsOffsiteRedirect(t *testing.T) {
	api := &stubAPI{refreshFn: func(context.Context) (string, error) { return "abc", nil }}

	for _, target := range []string{
		"https://evil.example",
		"//evil.example",
		"/\\evil.example",
		"/\t/evil.example",
		"/\\/evil.example",
	} {
		redirect, err := newRefreshSvc(api, &stubStore{}).Refresh(context.Background(), target)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", target, err)
		}
		if redirect.To != domain.RouteLanding {
			t.Fatalf("%q: expected /, got %q", target, redirect.To)
		}
	}
}

func TestRefreshService_ExpiredClearsAndSendsToLogin(t *testing.T) {
	store := seededStore("stale", testUser())
	api := &stubAPI{refreshFn: func(context.Context) (string, error) {
		return "", apiError(401, "Unauthorized", "Refresh token expired: token expired, please log in", &domain.AuthorizationError{Message: "token expired"})
	}}

	redirect, err := newRefreshSvc(api, store).Refresh(context.Background(), "/settings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redirect.To != domain.RouteLogin {
		t.Fatalf("expected /login, got %q", redirect.To)
	}
	if store.token != "" || store.user != nil {
		t.Fatalf("expected cleared session, got %q %+v", store.token, store.user)
	}
}

func TestRefreshService_OtherFailureIsFatal(t *testing.T) {
	store := seededStore("stale", testUser())
	api := &stubAPI{refreshFn: func(context.Context) (string, error) {
		return "", apiError(403, "Forbidden", "REFRESH_TOKEN_INVALID", &domain.AuthorizationError{Message: "REFRESH_TOKEN_INVALID"})
	}}

	_, err := newRefreshSvc(api, store).Refresh(context.Background(), "/")
	var fatal *domain.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %v", err)
	}
	if fatal.Status != 403 || fatal.StatusText != "Forbidden" || fatal.Message != "REFRESH_TOKEN_INVALID" {
		t.Fatalf("unexpected fatal error: %+v", fatal)
	}
	if store.token != "stale" {
		t.Fatalf("session must survive a fatal refresh, got %q", store.token)
	}
}

func TestRefreshService_MissingMessageUsesFallback(t *testing.T) {
	api := &stubAPI{refreshFn: func(context.Context) (string, error) {
		return "", apiError(502, "Bad Gateway", "", &domain.ServerError{Message: domain.DefaultServerMessage})
	}}

	_, err := newRefreshSvc(api, &stubStore{}).Refresh(context.Background(), "/")
	var fatal *domain.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %v", err)
	}
	if fatal.Message != refreshFailedMessage {
		t.Fatalf("expected fallback message, got %q", fatal.Message)
	}
}

func TestRefreshService_TransportFailureIs500(t *testing.T) {
	api := &stubAPI{refreshFn: func(context.Context) (string, error) { return "", errNetwork }}

	_, err := newRefreshSvc(api, &stubStore{}).Refresh(context.Background(), "/")
	var fatal *domain.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %v", err)
	}
	if fatal.Status != 500 || fatal.StatusText != "Internal Server Error" {
		t.Fatalf("unexpected status: %d %q", fatal.Status, fatal.StatusText)
	}
	if fatal.Message != errNetwork.Error() {
		t.Fatalf("unexpected message: %q", fatal.Message)
	}
}

func TestRefreshService_ConcurrentCallsShareOneRequest(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	api := &stubAPI{refreshFn: func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "abc", nil
	}}
	svc := newRefreshSvc(api, &stubStore{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Refresh(context.Background(), "/")
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("expected 1 remote refresh, got %d", n)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestRefreshService_NeedsRefresh(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newRefreshSvc(&stubAPI{}, &stubStore{})
	svc.now = func() time.Time { return now }

	cases := []struct {
		name    string
		session *domain.Session
		want    bool
	}{
		{"no session", nil, true},
		{"empty token", &domain.Session{}, true},
		{"opaque token", &domain.Session{AccessToken: "opaque"}, false},
		{"fresh jwt", &domain.Session{AccessToken: signedToken(t, now.Add(10*time.Minute))}, false},
		{"inside skew", &domain.Session{AccessToken: signedToken(t, now.Add(30*time.Second))}, true},
		{"expired jwt", &domain.Session{AccessToken: signedToken(t, now.Add(-time.Minute))}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.NeedsRefresh(tc.session); got != tc.want {
				t.Fatalf("NeedsRefresh = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRefreshService_ShortLivedTokenDoesNotLoop(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	short := signedToken(t, now.Add(10*time.Second))
	store := seededStore("stale", testUser())
	api := &stubAPI{refreshFn: func(context.Context) (string, error) { return short, nil }}
	svc := newRefreshSvc(api, store)
	svc.now = func() time.Time { return now }

	if !svc.NeedsRefresh(&domain.Session{AccessToken: short}) {
		t.Fatal("expected a token inside the skew to need refresh before it was minted here")
	}
	if _, err := svc.Refresh(context.Background(), "/settings"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.NeedsRefresh(&domain.Session{AccessToken: store.token}) {
		t.Fatal("freshly refreshed token sent back to refresh")
	}

	now = now.Add(11 * time.Second)
	if !svc.NeedsRefresh(&domain.Session{AccessToken: store.token}) {
		t.Fatal("expected refresh once the minted token expired")
	}
}
