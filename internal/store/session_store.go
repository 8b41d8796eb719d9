package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"hushpost/internal/domain"
)

const tokenFile = "session.tok"

// SessionFileStore persists the sealed session token to disk.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

// SaveToken writes the token via a temp file then rename.
func (s *SessionFileStore) SaveToken(tok domain.SessionToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := filepath.Join(s.dir, tokenFile)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, tok, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// LoadToken reads the stored token; a missing file is not an error.
func (s *SessionFileStore) LoadToken() (domain.SessionToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return domain.SessionToken(b), true, nil
}

// DeleteToken removes the stored token, if any.
func (s *SessionFileStore) DeleteToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, tokenFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Compile-time assertion that SessionFileStore implements domain.SessionTokenStore.
var _ domain.SessionTokenStore = (*SessionFileStore)(nil)
