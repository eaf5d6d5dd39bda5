package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/PIN-11-07/Turboo/internal/domain"
)

// SessionStore persists the signed-in session between runs
type SessionStore interface {
	Load() (*domain.Session, error)
	Save(s *domain.Session) error
	Clear() error
}

// fileStore keeps the session as JSON in a single file
type fileStore struct {
	path string
}

// NewFileStore creates a store writing to path
func NewFileStore(path string) SessionStore {
	return &fileStore{path: path}
}

// Load returns nil without error when no session was saved
func (fs *fileStore) Load() (*domain.Session, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func (fs *fileStore) Save(s *domain.Session) error {
	if s == nil {
		return fs.Clear()
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (fs *fileStore) Clear() error {
	if err := os.Remove(fs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// memoryStore is a SessionStore that keeps nothing across runs
type memoryStore struct {
	session *domain.Session
}

// NewMemoryStore creates a store that lives only as long as the process
func NewMemoryStore() SessionStore {
	return &memoryStore{}
}

func (ms *memoryStore) Load() (*domain.Session, error) { return ms.session, nil }

func (ms *memoryStore) Save(s *domain.Session) error {
	ms.session = s
	return nil
}

func (ms *memoryStore) Clear() error {
	ms.session = nil
	return nil
}
