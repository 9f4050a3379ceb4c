package session_test

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/synaptis/synaptis-go/core/authapi"
	"github.com/synaptis/synaptis-go/core/session"
	"github.com/synaptis/synaptis-go/core/tokenstore"
)

// mockAPI implements session.API for testing
type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Login(ctx context.Context, email, password string) (session.TokenPair, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(session.TokenPair), args.Error(1)
}

func (m *mockAPI) Register(ctx context.Context, params session.RegisterParams) (*session.TokenPair, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.TokenPair), args.Error(1)
}

func (m *mockAPI) Refresh(ctx context.Context, refreshToken string) (session.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(session.TokenPair), args.Error(1)
}

// Helper functions

func mintAccessToken(t *testing.T, email string, exp time.Time) string {
	t.Helper()

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"user_id":    7,
		"email":      email,
		"first_name": "Jan",
		"last_name":  "Kowalski",
		"exp":        exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func newManager(t *testing.T, api session.API, store session.Store, opts ...session.Option) *session.Manager {
	t.Helper()

	allOpts := append([]session.Option{
		session.WithAPI(api),
		session.WithStore(store),
	}, opts...)

	mgr, err := session.New(allOpts...)
	require.NoError(t, err)
	return mgr
}

// Tests

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a store", func(t *testing.T) {
		t.Parallel()

		_, err := session.New(session.WithAPI(&mockAPI{}))

		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrNoStore)
	})

	t.Run("requires an API client", func(t *testing.T) {
		t.Parallel()

		_, err := session.New(session.WithStore(tokenstore.NewMemory()))

		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrNoAPI)
	})

	t.Run("starts in the initializing state", func(t *testing.T) {
		t.Parallel()

		mgr := newManager(t, &mockAPI{}, tokenstore.NewMemory())

		assert.Equal(t, session.StateInitializing, mgr.State())
	})
}

func TestManager_Init(t *testing.T) {
	t.Parallel()

	t.Run("no stored session settles unauthenticated", func(t *testing.T) {
		t.Parallel()

		api := &mockAPI{}
		mgr := newManager(t, api, tokenstore.NewMemory())

		require.NoError(t, mgr.Init(context.Background()))

		assert.Equal(t, session.StateUnauthenticated, mgr.State())
		_, ok := mgr.Claims()
		assert.False(t, ok)
		api.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})

	t.Run("live stored token authenticates without a refresh call", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		api := &mockAPI{}
		store := tokenstore.NewMemory()
		pair := session.TokenPair{
			Access:  mintAccessToken(t, "a@x.com", time.Now().Add(5*time.Minute)),
			Refresh: "r1",
		}
		require.NoError(t, store.Save(ctx, pair))

		mgr := newManager(t, api, store)
		require.NoError(t, mgr.Init(ctx))

		assert.Equal(t, session.StateAuthenticated, mgr.State())
		claims, ok := mgr.Claims()
		require.True(t, ok)
		assert.Equal(t, "a@x.com", claims.Email)
		api.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})

	t.Run("expired stored token triggers one refresh before settling", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := tokenstore.NewMemory()
		require.NoError(t, store.Save(ctx, session.TokenPair{
			Access:  mintAccessToken(t, "a@x.com", time.Now().Add(-time.Minute)),
			Refresh: "r1",
		}))

		fresh := session.TokenPair{
			Access:  mintAccessToken(t, "a@x.com", time.Now().Add(5*time.Minute)),
			Refresh: "",
		}
		api := &mockAPI{}
		api.On("Refresh", mock.Anything, "r1").Return(fresh, nil).Once()

		mgr := newManager(t, api, store)
		require.NoError(t, mgr.Init(ctx))

		assert.Equal(t, session.StateAuthenticated, mgr.State())
		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, fresh.Access, stored.Access)
		assert.Equal(t, "r1", stored.Refresh, "refresh token is retained when the server does not rotate")
		api.AssertExpectations(t)
	})

	t.Run("expired stored token with failing refresh settles unauthenticated", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := tokenstore.NewMemory()
		require.NoError(t, store.Save(ctx, session.TokenPair{
			Access:  mintAccessToken(t, "a@x.com", time.Now().Add(-time.Minute)),
			Refresh: "r1",
		}))

		api := &mockAPI{}
		api.On("Refresh", mock.Anything, "r1").
			Return(session.TokenPair{}, authapi.ErrUnknownFailure).Once()

		mgr := newManager(t, api, store)
		require.NoError(t, mgr.Init(ctx))

		assert.Equal(t, session.StateUnauthenticated, mgr.State())
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession, "store is cleared on refresh failure")
		api.AssertExpectations(t)
	})

	t.Run("undecodable stored token is dropped", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := tokenstore.NewMemory()
		require.NoError(t, store.Save(ctx, session.TokenPair{Access: "garbage", Refresh: "r1"}))

		mgr := newManager(t, &mockAPI{}, store)
		require.NoError(t, mgr.Init(ctx))

		assert.Equal(t, session.StateUnauthenticated, mgr.State())
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("second call is a no-op once settled", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		api := &mockAPI{}
		store := tokenstore.NewMemory()
		mgr := newManager(t, api, store)

		require.NoError(t, mgr.Init(ctx))
		// A pair appearing in the store later must not be picked up by a
		// stray re-Init.
		require.NoError(t, store.Save(ctx, session.TokenPair{
			Access:  mintAccessToken(t, "a@x.com", time.Now().Add(time.Minute)),
			Refresh: "r1",
		}))
		require.NoError(t, mgr.Init(ctx))

		assert.Equal(t, session.StateUnauthenticated, mgr.State())
	})
}

func TestManager_Login(t *testing.T) {
	t.Parallel()

	t.Run("activates the session and persists the pair", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		pair := session.TokenPair{
			Access:  mintAccessToken(t, "a@x.com", time.Now().Add(5*time.Minute)),
			Refresh: "r1",
		}
		api := &mockAPI{}
		api.On("Login", mock.Anything, "a@x.com", "pw").Return(pair, nil).Once()

		store := tokenstore.NewMemory()
		mgr := newManager(t, api, store)
		require.NoError(t, mgr.Init(ctx))

		require.NoError(t, mgr.Login(ctx, "a@x.com", "pw"))

		assert.Equal(t, session.StateAuthenticated, mgr.State())
		claims, ok := mgr.Claims()
		require.True(t, ok)
		assert.Equal(t, "a@x.com", claims.Email)

		access, ok := mgr.AccessToken()
		require.True(t, ok)
		assert.Equal(t, pair.Access, access)

		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, pair, stored)
		api.AssertExpectations(t)
	})

	t.Run("failure leaves the state unchanged", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		api := &mockAPI{}
		api.On("Login", mock.Anything, "a@x.com", "wrong").
			Return(session.TokenPair{}, authapi.ErrInvalidCredentials).Once()

		store := tokenstore.NewMemory()
		mgr := newManager(t, api, store)
		require.NoError(t, mgr.Init(ctx))

		err := mgr.Login(ctx, "a@x.com", "wrong")

		require.Error(t, err)
		assert.ErrorIs(t, err, authapi.ErrInvalidCredentials)
		assert.Equal(t, session.StateUnauthenticated, mgr.State())
		_, loadErr := store.Load(ctx)
		assert.ErrorIs(t, loadErr, session.ErrNoSession)
	})
}

func TestManager_Register(t *testing.T) {
	t.Parallel()

	params := session.RegisterParams{
		Email:                "new@x.com",
		Password:             "pw123456",
		PasswordConfirmation: "pw123456",
		FirstName:            "Jan",
		LastName:             "Kowalski",
	}

	t.Run("activates the session when tokens are issued inline", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		pair := &session.TokenPair{
			Access:  mintAccessToken(t, "new@x.com", time.Now().Add(5*time.Minute)),
			Refresh: "r1",
		}
		api := &mockAPI{}
		api.On("Register", mock.Anything, params).Return(pair, nil).Once()

		store := tokenstore.NewMemory()
		mgr := newManager(t, api, store)
		require.NoError(t, mgr.Init(ctx))

		require.NoError(t, mgr.Register(ctx, params))

		assert.Equal(t, session.StateAuthenticated, mgr.State())
		claims, ok := mgr.Claims()
		require.True(t, ok)
		assert.Equal(t, "new@x.com", claims.Email)
		api.AssertExpectations(t)
	})

	t.Run("succeeds without a session when no tokens are issued", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		api := &mockAPI{}
		api.On("Register", mock.Anything, params).Return(nil, nil).Once()

		mgr := newManager(t, api, tokenstore.NewMemory())
		require.NoError(t, mgr.Init(ctx))

		require.NoError(t, mgr.Register(ctx, params))

		assert.Equal(t, session.StateUnauthenticated, mgr.State())
		_, ok := mgr.Claims()
		assert.False(t, ok)
	})

	t.Run("rejects mismatched password confirmation without a server call", func(t *testing.T) {
		t.Parallel()

		api := &mockAPI{}
		mgr := newManager(t, api, tokenstore.NewMemory())
		require.NoError(t, mgr.Init(context.Background()))

		bad := params
		bad.PasswordConfirmation = "different"
		err := mgr.Register(context.Background(), bad)

		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrPasswordMismatch)
		api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("propagates validation errors", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		api := &mockAPI{}
		api.On("Register", mock.Anything, params).
			Return(nil, &authapi.ValidationError{Fields: map[string][]string{
				"email": {"already registered"},
			}}).Once()

		mgr := newManager(t, api, tokenstore.NewMemory())
		require.NoError(t, mgr.Init(ctx))

		err := mgr.Register(ctx, params)

		require.Error(t, err)
		assert.ErrorIs(t, err, authapi.ErrValidationFailed)

		var vErr *authapi.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []string{"already registered"}, vErr.Fields["email"])
	})
}

func TestManager_Logout(t *testing.T) {
	t.Parallel()

	t.Run("is idempotent and clears the store", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		pair := session.TokenPair{
			Access:  mintAccessToken(t, "a@x.com", time.Now().Add(5*time.Minute)),
			Refresh: "r1",
		}
		api := &mockAPI{}
		api.On("Login", mock.Anything, "a@x.com", "pw").Return(pair, nil).Once()

		store := tokenstore.NewMemory()
		mgr := newManager(t, api, store)
		require.NoError(t, mgr.Init(ctx))
		require.NoError(t, mgr.Login(ctx, "a@x.com", "pw"))

		mgr.Logout(ctx)
		assert.Equal(t, session.StateUnauthenticated, mgr.State())

		mgr.Logout(ctx)
		assert.Equal(t, session.StateUnauthenticated, mgr.State())

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, session.ErrNoSession)
		_, ok := mgr.Claims()
		assert.False(t, ok)
		_, ok = mgr.AccessToken()
		assert.False(t, ok)
	})
}

func TestManager_Refresh(t *testing.T) {
	t.Parallel()

	login := func(t *testing.T, api *mockAPI, store session.Store) *session.Manager {
		t.Helper()

		ctx := context.Background()
		pair := session.TokenPair{
			Access:  mintAccessToken(t, "a@x.com", time.Now().Add(5*time.Minute)),
			Refresh: "r1",
		}
		api.On("Login", mock.Anything, "a@x.com", "pw").Return(pair, nil).Once()

		mgr := newManager(t, api, store)
		require.NoError(t, mgr.Init(ctx))
		require.NoError(t, mgr.Login(ctx, "a@x.com", "pw"))
		return mgr
	}

	t.Run("adopts rotated refresh tokens", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		api := &mockAPI{}
		store := tokenstore.NewMemory()
		mgr := login(t, api, store)

		rotated := session.TokenPair{
			Access:  mintAccessToken(t, "a@x.com", time.Now().Add(10*time.Minute)),
			Refresh: "r2",
		}
		api.On("Refresh", mock.Anything, "r1").Return(rotated, nil).Once()

		access, err := mgr.Refresh(ctx)

		require.NoError(t, err)
		assert.Equal(t, rotated.Access, access)
		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "r2", stored.Refresh)
		api.AssertExpectations(t)
	})

	t.Run("fails without an active session", func(t *testing.T) {
		t.Parallel()

		mgr := newManager(t, &mockAPI{}, tokenstore.NewMemory())
		require.NoError(t, mgr.Init(context.Background()))

		_, err := mgr.Refresh(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	})

	t.Run("failure ends the session", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		api := &mockAPI{}
		store := tokenstore.NewMemory()
		mgr := login(t, api, store)

		api.On("Refresh", mock.Anything, "r1").
			Return(session.TokenPair{}, authapi.ErrUnknownFailure).Once()

		_, err := mgr.Refresh(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrRefreshFailed)
		assert.Equal(t, session.StateUnauthenticated, mgr.State())
		_, loadErr := store.Load(ctx)
		assert.ErrorIs(t, loadErr, session.ErrNoSession)
	})
}
