package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/digitallog/console/internal/core/domain"
)

func TestSettingsService_NoTokenRedirectsWithoutRequest(t *testing.T) {
	api := &stubAPI{updateFn: func(context.Context, string, any) (*domain.User, error) {
		t.Fatalf("should not be called")
		return nil, nil
	}}
	svc := NewSettingsService(api, &stubStore{}, zerolog.Nop())

	_, redirect := svc.UpdateProfile(context.Background(), domain.ProfileUpdate{FirstName: "Ana"})
	if redirect == nil || redirect.To != domain.RouteLanding {
		t.Fatalf("expected redirect to /, got %+v", redirect)
	}
	if api.calls != 0 {
		t.Fatalf("expected no remote calls, got %d", api.calls)
	}
}

func TestSettingsService_UpdateProfile_Success(t *testing.T) {
	store := seededStore("tok", testUser())
	api := &stubAPI{updateFn: func(_ context.Context, token string, body any) (*domain.User, error) {
		if token != "tok" {
			t.Fatalf("expected bearer tok, got %q", token)
		}
		upd, ok := body.(domain.ProfileUpdate)
		if !ok || upd.FirstName != "Ana" {
			t.Fatalf("unexpected body: %#v", body)
		}
		u := *testUser()
		u.FirstName = "Ana"
		return &u, nil
	}}
	svc := NewSettingsService(api, store, zerolog.Nop())

	res, redirect := svc.UpdateProfile(context.Background(), domain.ProfileUpdate{FirstName: "Ana"})
	if redirect != nil {
		t.Fatalf("unexpected redirect: %+v", redirect)
	}
	if !res.OK() {
		t.Fatalf("expected ok, got %v", res.Err())
	}
	if store.user.FirstName != "Ana" {
		t.Fatalf("cached user not updated: %+v", store.user)
	}
	if store.token != "tok" {
		t.Fatalf("token changed by settings update: %q", store.token)
	}
}

func TestSettingsService_UpdatePassword_FailureKeepsSession(t *testing.T) {
	store := seededStore("tok", testUser())
	payload := &domain.ValidationError{Errors: map[string]domain.FieldViolation{
		"password": {Msg: "PASSWORD_MIN_LENGTH", Path: "password"},
	}}
	api := &stubAPI{updateFn: func(context.Context, string, any) (*domain.User, error) {
		return nil, apiError(400, "Bad Request", "", payload)
	}}
	svc := NewSettingsService(api, store, zerolog.Nop())

	res, redirect := svc.UpdatePassword(context.Background(), domain.PasswordUpdate{Password: "newpassword", ConfirmPassword: "newpassword"})
	if redirect != nil {
		t.Fatalf("unexpected redirect")
	}
	if res.Err() != payload {
		t.Fatalf("expected remote payload, got %#v", res.Err())
	}
	if *store.user != *testUser() {
		t.Fatalf("user mutated on failure: %+v", store.user)
	}
}

func TestSettingsService_TransportFailure(t *testing.T) {
	api := &stubAPI{updateFn: func(context.Context, string, any) (*domain.User, error) {
		return nil, errNetwork
	}}
	svc := NewSettingsService(api, seededStore("tok", testUser()), zerolog.Nop())

	res, _ := svc.UpdateProfile(context.Background(), domain.ProfileUpdate{Username: "al"})
	var srvErr *domain.ServerError
	if !errors.As(res.Err(), &srvErr) {
		t.Fatalf("expected ServerError, got %#v", res.Err())
	}
}
