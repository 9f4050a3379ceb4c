package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/synaptis/synaptis-go/core/logger"
	"github.com/synaptis/synaptis-go/pkg/jwt"
)

// Manager owns the client-side session state: the current token pair,
// the claims decoded from the access token, and the lifecycle state.
// It performs reactive and proactive token refresh with at most one
// refresh call in flight at any time.
//
// Exactly one Manager should exist per running client; construct it at
// the composition root and share it by reference.
type Manager struct {
	api    API
	store  Store
	now    func() time.Time
	logger *slog.Logger
	config Config

	mu     sync.RWMutex
	state  State
	tokens TokenPair
	claims jwt.Claims
	// generation fences refresh results: it is bumped on every login,
	// logout, and forced session end, so a refresh that resolves after
	// the session it belonged to is gone cannot resurrect it.
	generation uint64

	refreshGroup singleflight.Group
	started      bool
}

// Option is a functional option for configuring the session manager.
type Option func(*Manager)

// WithStore sets the persisted token store. Required.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithAPI sets the auth endpoint client. Required.
func WithAPI(api API) Option {
	return func(m *Manager) {
		m.api = api
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger for background refresh outcomes.
// The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithConfig applies refresh schedule options.
func WithConfig(opts ...ConfigOption) Option {
	return func(m *Manager) {
		for _, opt := range opts {
			opt(&m.config)
		}
	}
}

// New creates a session manager in the Initializing state. Call Init to
// restore any persisted session before serving consumers.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		config: defaultConfig(),
		state:  StateInitializing,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		return nil, ErrNoStore
	}
	if m.api == nil {
		return nil, ErrNoAPI
	}
	if m.config.RefreshInterval <= 0 {
		return nil, ErrInvalidInterval
	}

	return m, nil
}

// NewFromConfig creates a session manager from configuration.
// Additional options can override config values.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	allOpts := append([]Option{WithConfig(
		WithRefreshInterval(cfg.RefreshInterval),
		WithRefreshWindow(cfg.RefreshWindow),
	)}, opts...)

	return New(allOpts...)
}

// Init restores the session from the persisted store: absent pair means
// unauthenticated, a pair with a live access token authenticates
// directly, and an expired access token triggers one refresh attempt
// before settling. Init never fails on auth outcomes; it returns an
// error only when ctx is cancelled before the restore settles.
//
// Calling Init after the state has settled is a no-op.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateInitializing {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	pair, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			// Unreadable store entries are dropped, same as a corrupt
			// localStorage value in the browser client.
			m.logger.WarnContext(ctx, "dropping unreadable stored session", logger.Error(err))
			m.clearStore(ctx)
		}
		m.setUnauthenticated()
		return ctx.Err()
	}

	claims, err := jwt.Decode(pair.Access)
	if err != nil || !pair.Valid() {
		m.logger.WarnContext(ctx, "dropping invalid stored session", logger.Error(err))
		m.clearStore(ctx)
		m.setUnauthenticated()
		return ctx.Err()
	}

	if !claims.IsExpired(m.now()) {
		m.mu.Lock()
		m.tokens = pair
		m.claims = claims
		m.state = StateAuthenticated
		m.mu.Unlock()
		return nil
	}

	// Expired access token: adopt the pair so the refresh token is
	// available, then attempt exactly one refresh before settling.
	m.mu.Lock()
	m.tokens = pair
	m.claims = claims
	m.mu.Unlock()

	if _, err := m.refresh(ctx); err != nil {
		// refresh already forced Unauthenticated and cleared the store.
		m.logger.InfoContext(ctx, "stored session could not be refreshed", logger.Error(err))
	}
	return ctx.Err()
}

// Login exchanges credentials for a token pair and activates the
// session. On failure the state is left unchanged and the returned error
// carries the authapi classification (invalid credentials, network
// unavailable, unknown).
func (m *Manager) Login(ctx context.Context, email, password string) error {
	pair, err := m.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return m.adopt(ctx, pair)
}

// Register creates an account. When the backend issues tokens inline the
// behavior matches Login; when it returns none (verification pending)
// Register succeeds with the session left unauthenticated — check
// State() to distinguish the outcomes.
//
// The password confirmation is checked here as well as server-side so
// that non-UI callers get the same guarantee a form would enforce.
func (m *Manager) Register(ctx context.Context, params RegisterParams) error {
	if params.Password != params.PasswordConfirmation {
		return ErrPasswordMismatch
	}

	pair, err := m.api.Register(ctx, params)
	if err != nil {
		return err
	}
	if pair == nil {
		m.setUnauthenticated()
		return nil
	}
	return m.adopt(ctx, *pair)
}

// Logout ends the session locally: state and claims are dropped and the
// persisted pair is cleared. There is no server call. Logout is
// idempotent and never fails; store errors are only logged.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.tokens = TokenPair{}
	m.claims = jwt.Claims{}
	m.state = StateUnauthenticated
	m.generation++
	m.mu.Unlock()

	m.clearStore(ctx)
}

// Claims returns a snapshot of the current identity claims. The second
// return is false unless the session is authenticated. Claims never
// blocks and never touches the network.
func (m *Manager) Claims() (jwt.Claims, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateAuthenticated {
		return jwt.Claims{}, false
	}
	return m.claims, true
}

// AccessToken returns the current access token, if authenticated.
func (m *Manager) AccessToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateAuthenticated {
		return "", false
	}
	return m.tokens.Access, true
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Refresh forces a token refresh and returns the new access token.
// Concurrent callers share a single network call. On failure the session
// has been ended and the error wraps ErrRefreshFailed.
//
// Refresh satisfies the httpclient.TokenSource contract for the
// reactive 401 path.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	return m.refresh(ctx)
}

// refresh performs the shared refresh procedure. At most one refresh is
// in flight at any time: late callers wait for and share the leader's
// result instead of issuing a second call, which would race on a
// rotated refresh token.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	m.mu.RLock()
	refreshToken := m.tokens.Refresh
	generation := m.generation
	m.mu.RUnlock()

	if refreshToken == "" {
		return "", ErrNotAuthenticated
	}

	access, err, _ := m.refreshGroup.Do("refresh", func() (any, error) {
		return m.doRefresh(ctx, refreshToken, generation)
	})
	if err != nil {
		return "", err
	}
	return access.(string), nil
}

func (m *Manager) doRefresh(ctx context.Context, refreshToken string, generation uint64) (string, error) {
	start := time.Now()

	pair, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		// Hard failure: an invalid refresh token does not become valid
		// by retrying.
		m.endSession(ctx, generation)
		return "", errors.Join(ErrRefreshFailed, err)
	}

	if pair.Refresh == "" {
		// Server did not rotate the refresh token; keep the prior one.
		pair.Refresh = refreshToken
	}

	claims, err := jwt.Decode(pair.Access)
	if err != nil {
		m.endSession(ctx, generation)
		return "", errors.Join(ErrRefreshFailed, err)
	}

	m.mu.Lock()
	if m.generation != generation {
		// Logged out (or re-authenticated) while the refresh was in
		// flight; discard the stale result.
		m.mu.Unlock()
		return "", ErrSessionEnded
	}
	m.tokens = pair
	m.claims = claims
	m.state = StateAuthenticated
	m.mu.Unlock()

	if err := m.store.Save(ctx, pair); err != nil {
		m.logger.WarnContext(ctx, "failed to persist refreshed session", logger.Error(err))
	}
	m.logger.DebugContext(ctx, "session refreshed", logger.Elapsed(start))
	return pair.Access, nil
}

// adopt activates a freshly issued token pair: decode claims, persist,
// transition to Authenticated.
func (m *Manager) adopt(ctx context.Context, pair TokenPair) error {
	claims, err := jwt.Decode(pair.Access)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.tokens = pair
	m.claims = claims
	m.state = StateAuthenticated
	m.generation++
	m.mu.Unlock()

	// Persistence is the durability boundary, not a precondition: the
	// in-memory session stays usable even if the store write fails.
	if err := m.store.Save(ctx, pair); err != nil {
		m.logger.WarnContext(ctx, "failed to persist session", logger.Error(err))
	}
	m.logger.DebugContext(ctx, "session activated", logger.UserID(claims.UserID))
	return nil
}

// endSession forces Unauthenticated after an irrecoverable refresh
// failure, unless the generation moved on in the meantime.
func (m *Manager) endSession(ctx context.Context, generation uint64) {
	m.mu.Lock()
	if m.generation != generation {
		m.mu.Unlock()
		return
	}
	m.tokens = TokenPair{}
	m.claims = jwt.Claims{}
	m.state = StateUnauthenticated
	m.generation++
	m.mu.Unlock()

	m.clearStore(ctx)
}

func (m *Manager) setUnauthenticated() {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.state = StateUnauthenticated
	}
	m.mu.Unlock()
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to clear stored session", logger.Error(err))
	}
}
