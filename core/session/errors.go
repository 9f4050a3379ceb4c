package session

import "errors"

var (
	// ErrNoSession is returned by a Store when no token pair is persisted.
	ErrNoSession = errors.New("session: no stored session")
	// ErrNoStore is returned when a manager is constructed without a store.
	ErrNoStore = errors.New("session: store is required")
	// ErrNoAPI is returned when a manager is constructed without an auth API client.
	ErrNoAPI = errors.New("session: auth API client is required")
	// ErrNotAuthenticated is returned when an operation needs an active session.
	ErrNotAuthenticated = errors.New("session: not authenticated")
	// ErrPasswordMismatch is returned when the password confirmation differs.
	ErrPasswordMismatch = errors.New("session: password confirmation does not match")
	// ErrRefreshFailed wraps the cause of a failed token refresh. The
	// session has already been ended by the time callers observe it.
	ErrRefreshFailed = errors.New("session: token refresh failed")
	// ErrSessionEnded is returned when a refresh resolved after the
	// session it belonged to was logged out; its result is discarded.
	ErrSessionEnded = errors.New("session: session ended")
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("session: refresher already started")
	// ErrInvalidInterval is returned for non-positive refresh intervals.
	ErrInvalidInterval = errors.New("session: refresh interval must be positive")
)
