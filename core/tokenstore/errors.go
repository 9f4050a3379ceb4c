package tokenstore

import "errors"

var (
	// ErrEmptyPath is returned when a file store is created without a path.
	ErrEmptyPath = errors.New("tokenstore: path is required")
	// ErrNilRedisClient is returned when a redis store is created without a client.
	ErrNilRedisClient = errors.New("tokenstore: redis client is required")
	// ErrCorruptStore is returned when the stored value cannot be decoded.
	// The session manager drops corrupt entries and starts logged out.
	ErrCorruptStore = errors.New("tokenstore: stored session is corrupt")
)
