package tokenstore

import (
	"context"
	"sync"

	"github.com/synaptis/synaptis-go/core/session"
)

// Memory is an in-process token store. Nothing survives a restart; use
// it in tests or in hosts that must not persist credentials.
type Memory struct {
	mu   sync.RWMutex
	pair session.TokenPair
	set  bool
}

var _ session.Store = (*Memory)(nil)

// NewMemory creates an empty in-memory token store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored pair, or session.ErrNoSession when empty.
func (s *Memory) Load(_ context.Context) (session.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return session.TokenPair{}, session.ErrNoSession
	}
	return s.pair, nil
}

// Save replaces the stored pair as a whole.
func (s *Memory) Save(_ context.Context, pair session.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = pair
	s.set = true
	return nil
}

// Clear removes the stored pair. Idempotent.
func (s *Memory) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = session.TokenPair{}
	s.set = false
	return nil
}
