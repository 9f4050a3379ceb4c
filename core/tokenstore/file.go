package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/synaptis/synaptis-go/core/session"
)

// File persists the token pair as a JSON file, the desktop-client
// equivalent of the browser's localStorage entry. Saves go through a
// temporary file and a rename, so readers never observe a torn pair.
type File struct {
	mu   sync.Mutex
	path string
}

var _ session.Store = (*File)(nil)

// NewFile creates a file-backed token store at path. Parent directories
// are created with owner-only permissions.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token store directory: %w", err)
	}

	return &File{path: path}, nil
}

// Load reads the stored pair. A missing file means session.ErrNoSession;
// an unreadable or malformed file is reported as ErrCorruptStore so the
// caller can drop it.
func (s *File) Load(_ context.Context) (session.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return session.TokenPair{}, session.ErrNoSession
		}
		return session.TokenPair{}, fmt.Errorf("failed to read token store: %w", err)
	}

	var pair session.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return session.TokenPair{}, errors.Join(ErrCorruptStore, err)
	}

	return pair, nil
}

// Save atomically replaces the stored pair.
func (s *File) Save(_ context.Context, pair session.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to encode token pair: %w", err)
	}

	// Write-then-rename keeps the replace atomic on POSIX filesystems.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tokens-*")
	if err != nil {
		return fmt.Errorf("failed to create temp token file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set token file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close token file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

// Clear removes the stored pair. Idempotent.
func (s *File) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear token store: %w", err)
	}
	return nil
}
