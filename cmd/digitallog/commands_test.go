package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/digitallog/console/internal/app"
	"github.com/digitallog/console/internal/core/domain"
	"github.com/digitallog/console/internal/infrastructure/config"
)

type harness struct {
	cli    *cli
	stdin  *bytes.Buffer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	return h.cli.run(context.Background(), args)
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"AuthorizationError","message":"INVALID_CREDENTIALS"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(domain.AuthResponse{
			AccessToken: "tok",
			User:        domain.User{ID: "u1", Email: creds.Email, Username: "alice", Role: domain.RoleUser},
		})
	})
	mux.HandleFunc("PUT /users/current", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("update without bearer")
		}
		var upd domain.ProfileUpdate
		_ = json.NewDecoder(r.Body).Decode(&upd)
		_ = json.NewEncoder(w).Encode(domain.UserResponse{
			User: domain.User{ID: "u1", Email: "a@b.com", Username: upd.Username, Role: domain.RoleUser},
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("logout without bearer")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		APIBaseURL: fakeAPI(t).URL,
		Locale:     "es",
		Session:    config.SessionConfig{Backend: config.BackendMemory, Profile: "default"},
	}
	a, err := app.New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("app: %v", err)
	}

	h := &harness{stdin: &bytes.Buffer{}, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.cli = newCLI(h.stdin, h.stdout, h.stderr)
	h.cli.loadConfig = func(context.Context) (*config.Config, error) { return cfg, nil }
	h.cli.newApp = func(context.Context, *config.Config) (*app.App, error) { return a, nil }
	return h
}

func TestCLI_SessionRoundTrip(t *testing.T) {
	h := newHarness(t)

	h.stdin.WriteString("password123\n")
	if code := h.run(t, "login", "--email", "a@b.com"); code != exitOK {
		t.Fatalf("login exit %d, stderr: %s", code, h.stderr)
	}
	if !strings.Contains(h.stdout.String(), "redirect: /") {
		t.Fatalf("expected redirect, got %q", h.stdout)
	}

	if code := h.run(t, "whoami"); code != exitOK {
		t.Fatalf("whoami exit %d, stderr: %s", code, h.stderr)
	}
	if !strings.Contains(h.stdout.String(), "alice <a@b.com> (user)") {
		t.Fatalf("unexpected whoami output %q", h.stdout)
	}
	if strings.Contains(h.stdout.String(), "Panel") {
		t.Fatalf("non-admin should not see the dashboard entry")
	}

	if code := h.run(t, "logout"); code != exitOK {
		t.Fatalf("logout exit %d", code)
	}
	if code := h.run(t, "whoami"); code != exitFail {
		t.Fatalf("expected whoami to fail after logout, got %d", code)
	}
}

func TestCLI_SettingsProfile(t *testing.T) {
	h := newHarness(t)

	if code := h.run(t, "settings", "profile", "--username", "al"); code != exitFail {
		t.Fatalf("expected exit 1 without a session, got %d", code)
	}
	if !strings.Contains(h.stderr.String(), "not signed in") {
		t.Fatalf("unexpected stderr %q", h.stderr)
	}

	if code := h.run(t, "login", "-e", "a@b.com", "-p", "password123"); code != exitOK {
		t.Fatalf("login exit %d", code)
	}
	if code := h.run(t, "settings", "profile", "--username", "al"); code != exitOK {
		t.Fatalf("settings exit %d, stderr: %s", code, h.stderr)
	}
	if !strings.Contains(h.stdout.String(), "success: Perfil actualizado correctamente") {
		t.Fatalf("unexpected stdout %q", h.stdout)
	}
}

func TestCLI_LoginFieldErrors(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, "login", "-e", "a@b.com", "-p", "short")
	if code != exitFail {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(h.stderr.String(), "password: La contraseña debe tener al menos 8 caracteres") {
		t.Fatalf("unexpected stderr %q", h.stderr)
	}
}

func TestCLI_LoginRejected(t *testing.T) {
	h := newHarness(t)

	code := h.run(t, "login", "-e", "a@b.com", "-p", "wrongpassword")
	if code != exitFail {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.HasPrefix(h.stderr.String(), "error: ") {
		t.Fatalf("expected an error notice, got %q", h.stderr)
	}
}

func TestCLI_UsageErrors(t *testing.T) {
	h := newHarness(t)

	cases := [][]string{
		nil,
		{"bogus"},
		{"settings"},
		{"settings", "theme"},
		{"login", "--nope"},
		{"whoami", "extra"},
		{"signup", "--email", "a@b.com", "--password", "password123", "--role", "root"},
	}
	for _, args := range cases {
		if code := h.run(t, args...); code != exitUsage {
			t.Errorf("%v: expected exit 2, got %d", args, code)
		}
	}
	if !strings.Contains(h.stderr.String(), `invalid role "root"`) {
		t.Errorf("expected role error on stderr, got %q", h.stderr.String())
	}
	if code := h.run(t, "help"); code != exitOK {
		t.Errorf("help: expected exit 0, got %d", code)
	}
}

func TestCLI_ServeConfigure(t *testing.T) {
	cmd := newCLI(nil, nil, nil).serveCmd()
	if err := cmd.flags.Parse([]string{"--addr", ":9999", "--ephemeral"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := &config.Config{ListenAddr: ":8080", Session: config.SessionConfig{Backend: config.BackendFile}}
	cmd.configure(cfg)
	if cfg.ListenAddr != ":9999" || cfg.Session.Backend != config.BackendMemory {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
