package session

import "context"

// Store persists the token pair across client restarts. Implementations
// must replace the stored value as a whole on Save so that a concurrent
// Load never observes a torn pair, and must treat Clear as idempotent.
//
// Load returns ErrNoSession when nothing is stored.
type Store interface {
	Load(ctx context.Context) (TokenPair, error)
	Save(ctx context.Context, pair TokenPair) error
	Clear(ctx context.Context) error
}
