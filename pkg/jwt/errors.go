package jwt

import "errors"

var (
	// ErrInvalidToken is returned when the token cannot be parsed as a JWT.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrMissingExpiry is returned when the token carries no exp claim.
	// Access tokens without an expiry cannot drive the refresh schedule.
	ErrMissingExpiry = errors.New("jwt: token has no expiry claim")
)
