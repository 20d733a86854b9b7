package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/digitallog/console/internal/core/domain"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

var profileName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// FileStore keeps one JSON document per profile under a directory. When a
// passphrase is set the document is encrypted.
type FileStore struct {
	mu     sync.Mutex
	path   string
	sealer *sealer
}

// NewFileStore opens the store of profile under dir, creating dir when
// missing.
func NewFileStore(dir, profile, passphrase string) (*FileStore, error) {
	if !profileName.MatchString(profile) {
		return nil, fmt.Errorf("session profile %q: invalid name", profile)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{
		path:   filepath.Join(dir, profile+".session"),
		sealer: newSealer(passphrase),
	}, nil
}

// Path is the file backing the store.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Read(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.load()
	if err != nil {
		return nil, err
	}
	return snapshot(session)
}

func (s *FileStore) Save(_ context.Context, session domain.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(session)
}

func (s *FileStore) SetAccessToken(_ context.Context, token string) error {
	return s.update(func(session *domain.Session) { session.AccessToken = token })
}

func (s *FileStore) SetUser(_ context.Context, user domain.User) error {
	return s.update(func(session *domain.Session) { session.User = &user })
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *FileStore) update(fn func(*domain.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.load()
	if err != nil {
		return err
	}
	fn(&session)
	return s.write(session)
}

// load returns the stored session, or a zero Session when there is no file.
func (s *FileStore) load() (domain.Session, error) {
	var session domain.Session
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return session, nil
	}
	if err != nil {
		return session, fmt.Errorf("read session file: %w", err)
	}

	if isSealed(data) {
		if s.sealer == nil {
			return session, ErrSealed
		}
		if data, err = s.sealer.open(data); err != nil {
			return session, err
		}
	}
	if err := json.Unmarshal(data, &session); err != nil {
		return session, fmt.Errorf("decode session file: %w", err)
	}
	return session, nil
}

// write replaces the file in one rename so readers never see a partial
// document.
func (s *FileStore) write(session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if s.sealer != nil {
		if data, err = s.sealer.seal(data); err != nil {
			return fmt.Errorf("encrypt session: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
