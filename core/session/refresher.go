package session

import (
	"context"
	"errors"
	"time"

	"github.com/synaptis/synaptis-go/core/logger"
)

// Start runs the proactive refresh loop: every RefreshInterval it checks
// whether the access token is expired or inside the RefreshWindow and
// refreshes it without waiting for a 401. This is a blocking operation
// that runs until the context is cancelled; the goroutine and ticker are
// owned by the caller's context, so nothing outlives a logout or
// teardown on any exit path.
//
// Ticks while unauthenticated are no-ops: no network activity happens
// without an active session.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.started = false
		m.mu.Unlock()
	}()

	ticker := time.NewTicker(m.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.refreshIfStale(ctx)
		}
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
//
// Usage:
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(manager.Run(ctx))
func (m *Manager) Run(ctx context.Context) func() error {
	return func() error {
		err := m.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

// refreshIfStale refreshes the access token when it is expired or will
// expire within the refresh window. Failures are logged, never surfaced:
// a dead session manifests to consumers as a state transition.
func (m *Manager) refreshIfStale(ctx context.Context) {
	m.mu.RLock()
	state := m.state
	expiresAt := m.claims.ExpiresAt
	m.mu.RUnlock()

	if state != StateAuthenticated {
		return
	}
	if m.now().Add(m.config.RefreshWindow).Before(expiresAt) {
		return
	}

	if _, err := m.refresh(ctx); err != nil {
		m.logger.ErrorContext(ctx, "background token refresh failed", logger.Error(err))
	}
}
