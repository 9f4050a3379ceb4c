package session

import "context"

// API is the slice of the backend's auth surface the manager drives.
// Implementations must issue requests on a transport without the
// 401-refresh interceptor, otherwise a failing refresh would recurse.
//
// Refresh exchanges the current refresh token for a new access token.
// The returned pair's Refresh field may be empty when the server does
// not rotate refresh tokens; the manager then retains the prior value.
//
// Register returns a nil pair when the account was created but no tokens
// were issued (e.g. email verification pending).
type API interface {
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Register(ctx context.Context, params RegisterParams) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}
