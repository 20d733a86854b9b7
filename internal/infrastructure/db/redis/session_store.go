package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/digitallog/console/internal/core/domain"
)

const (
	fieldAccessToken = "access_token"
	fieldUser        = "user"
)

// SessionStore keeps a profile's session in one hash.
// Key format: digitallog:session:<profile>
type SessionStore struct {
	client *redis.Client
	key    string
}

func NewSessionStore(client *redis.Client, profile string) *SessionStore {
	return &SessionStore{client: client, key: sessionKey(profile)}
}

func sessionKey(profile string) string {
	return fmt.Sprintf("digitallog:session:%s", profile)
}

func (s *SessionStore) Read(ctx context.Context) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	session := &domain.Session{AccessToken: fields[fieldAccessToken]}
	if raw := fields[fieldUser]; raw != "" {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
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
	raw, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, fieldAccessToken, session.AccessToken, fieldUser, string(raw)).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) SetAccessToken(ctx context.Context, token string) error {
	if err := s.client.HSet(ctx, s.key, fieldAccessToken, token).Err(); err != nil {
		return fmt.Errorf("set access token: %w", err)
	}
	return nil
}

func (s *SessionStore) SetUser(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, fieldUser, string(raw)).Err(); err != nil {
		return fmt.Errorf("set user: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
