package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/digitallog/console/internal/core/domain"
)

func TestSettingsHandler_PasswordMismatch(t *testing.T) {
	e := echo.New()
	settings := &stubSettings{passwordFn: func(context.Context, domain.PasswordUpdate) (domain.ActionResult[domain.User], *domain.Redirect) {
		t.Fatalf("should not be called")
		return domain.ActionResult[domain.User]{}, nil
	}}
	h := NewSettingsHandler(newPresenter(nil, settings), &inlineQueue{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/settings", `{"password":"password123","confirm_password":"different1"}`), rec)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"confirm_password":"La contraseña no coincide"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestSettingsHandler_ProfileSuccess(t *testing.T) {
	e := echo.New()
	settings := &stubSettings{profileFn: func(_ context.Context, u domain.ProfileUpdate) (domain.ActionResult[domain.User], *domain.Redirect) {
		if u.Username != "al" || u.FirstName != "" {
			t.Fatalf("unexpected update %+v", u)
		}
		return domain.Success(domain.User{ID: "u1", Username: "al"}), nil
	}}
	h := NewSettingsHandler(newPresenter(nil, settings), &inlineQueue{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/settings", `{"username":"al"}`), rec)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Perfil actualizado correctamente") {
		t.Fatalf("expected success notice, got %s", rec.Body.String())
	}
}
