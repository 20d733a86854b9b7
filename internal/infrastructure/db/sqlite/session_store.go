package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/digitallog/console/internal/core/domain"
)

// SessionStore keeps one row per profile in the sessions table.
type SessionStore struct {
	db      *sql.DB
	profile string
	now     func() time.Time
}

func NewSessionStore(db *sql.DB, profile string) *SessionStore {
	return &SessionStore{db: db, profile: profile, now: time.Now}
}

func (s *SessionStore) Read(ctx context.Context) (*domain.Session, error) {
	var (
		token    string
		userJSON sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, user_json FROM sessions WHERE profile = ?`, s.profile,
	).Scan(&token, &userJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	session := &domain.Session{AccessToken: token}
	if userJSON.Valid && userJSON.String != "" {
		var u domain.User
		if err := json.Unmarshal([]byte(userJSON.String), &u); err != nil {
			return nil, fmt.Errorf("decode cached user: %w", err)
		}
		session.User = &u
	}
	if session.AccessToken == "" && session.User == nil {
		return nil, domain.ErrNoSession
	}
	return session, nil
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (profile, access_token, user_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			access_token = excluded.access_token,
			user_json    = excluded.user_json,
			updated_at   = excluded.updated_at`,
		s.profile, session.AccessToken, string(userJSON), s.now().Unix())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) SetAccessToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (profile, access_token, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			access_token = excluded.access_token,
			updated_at   = excluded.updated_at`,
		s.profile, token, s.now().Unix())
	if err != nil {
		return fmt.Errorf("set access token: %w", err)
	}
	return nil
}

func (s *SessionStore) SetUser(ctx context.Context, user domain.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (profile, user_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			user_json  = excluded.user_json,
			updated_at = excluded.updated_at`,
		s.profile, string(userJSON), s.now().Unix())
	if err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE profile = ?`, s.profile); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Ping reports whether the database is usable.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
