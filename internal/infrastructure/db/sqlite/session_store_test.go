package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/digitallog/console/internal/core/domain"
)

func openTestDB(t *testing.T) *SessionStore {
	t.Helper()
	db, err := Connect(context.Background(), Config{Path: filepath.Join(t.TempDir(), "sessions.db")})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db, "default")
}

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	if _, err := store.Read(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	u := domain.User{ID: "u1", Email: "a@b.com", Username: "alice", Role: domain.RoleAdmin}
	if err := store.Save(ctx, domain.Session{AccessToken: "abc", User: &u}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SetAccessToken(ctx, "def"); err != nil {
		t.Fatalf("set token: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.AccessToken != "def" || got.User == nil || *got.User != u {
		t.Fatalf("unexpected session %+v", got)
	}

	u.LastName = "Smith"
	if err := store.SetUser(ctx, u); err != nil {
		t.Fatalf("set user: %v", err)
	}
	got, _ = store.Read(ctx)
	if got.AccessToken != "def" || got.User.LastName != "Smith" {
		t.Fatalf("unexpected session %+v", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Read(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestSessionStore_RejectsIncompleteSave(t *testing.T) {
	store := openTestDB(t)
	if err := store.Save(context.Background(), domain.Session{AccessToken: "abc"}); !errors.Is(err, domain.ErrIncompleteSession) {
		t.Fatalf("expected ErrIncompleteSession, got %v", err)
	}
}

func TestSessionStore_TokenWithoutUser(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	if err := store.SetAccessToken(ctx, "abc"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.AccessToken != "abc" || got.User != nil {
		t.Fatalf("unexpected session %+v", got)
	}
}
