package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/digitallog/console/internal/core/domain"
)

const sessionCollection = "sessions"

// SessionStore keeps one document per profile, keyed by the profile name.
type SessionStore struct {
	coll    *mongo.Collection
	profile string
}

func NewSessionStore(db *mongo.Database, profile string) *SessionStore {
	return &SessionStore{coll: db.Collection(sessionCollection), profile: profile}
}

type sessionDoc struct {
	Profile     string       `bson:"_id"`
	AccessToken string       `bson:"access_token,omitempty"`
	User        *domain.User `bson:"user,omitempty"`
	UpdatedAt   int64        `bson:"updated_at"`
}

func (s *SessionStore) Read(ctx context.Context) (*domain.Session, error) {
	var doc sessionDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": s.profile}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	if doc.AccessToken == "" && doc.User == nil {
		return nil, domain.ErrNoSession
	}
	return &domain.Session{AccessToken: doc.AccessToken, User: doc.User}, nil
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	return s.set(ctx, "save session", bson.M{
		"access_token": session.AccessToken,
		"user":         session.User,
	})
}

func (s *SessionStore) SetAccessToken(ctx context.Context, token string) error {
	return s.set(ctx, "set access token", bson.M{"access_token": token})
}

func (s *SessionStore) SetUser(ctx context.Context, user domain.User) error {
	return s.set(ctx, "set user", bson.M{"user": user})
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.profile}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// set upserts fields on the profile's document in a single write.
func (s *SessionStore) set(ctx context.Context, op string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC().Unix()
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": s.profile},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
