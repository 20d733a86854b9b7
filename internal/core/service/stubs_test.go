package service

import (
	"context"
	"errors"
	"sync"

	"github.com/digitallog/console/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAPI struct {
	loginFn    func(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	registerFn func(ctx context.Context, reg domain.Registration) (*domain.AuthResponse, error)
	refreshFn  func(ctx context.Context) (string, error)
	logoutFn   func(ctx context.Context, accessToken string) error
	updateFn   func(ctx context.Context, accessToken string, body any) (*domain.User, error)

	calls int
}

func (a *stubAPI) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	a.calls++
	return a.loginFn(ctx, creds)
}

func (a *stubAPI) Register(ctx context.Context, reg domain.Registration) (*domain.AuthResponse, error) {
	a.calls++
	return a.registerFn(ctx, reg)
}

func (a *stubAPI) RefreshToken(ctx context.Context) (string, error) {
	a.calls++
	return a.refreshFn(ctx)
}

func (a *stubAPI) Logout(ctx context.Context, accessToken string) error {
	a.calls++
	return a.logoutFn(ctx, accessToken)
}

func (a *stubAPI) UpdateCurrentUser(ctx context.Context, accessToken string, body any) (*domain.User, error) {
	a.calls++
	return a.updateFn(ctx, accessToken, body)
}

type stubStore struct {
	mu    sync.Mutex
	token string
	user  *domain.User

	saveErr  error
	clearErr error
	clears   int
}

func seededStore(token string, user *domain.User) *stubStore {
	return &stubStore{token: token, user: cloneUser(user)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (s *stubStore) Read(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" && s.user == nil {
		return nil, domain.ErrNoSession
	}
	return &domain.Session{AccessToken: s.token, User: cloneUser(s.user)}, nil
}

func (s *stubStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if err := session.Validate(); err != nil {
		return err
	}
	s.token, s.user = session.AccessToken, cloneUser(session.User)
	return nil
}

func (s *stubStore) SetAccessToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *stubStore) SetUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.user = cloneUser(&user)
	return nil
}

func (s *stubStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.token, s.user = "", nil
	return nil
}

var errNetwork = errors.New("dial tcp 127.0.0.1:3000: connect: connection refused")

func apiError(status int, statusText, message string, payload domain.ErrorPayload) *domain.APIError {
	return &domain.APIError{Status: status, StatusText: statusText, Message: message, Payload: payload}
}

func testUser() *domain.User {
	return &domain.User{ID: "u1", Email: "a@b.com", Username: "alice", Role: domain.RoleUser}
}
