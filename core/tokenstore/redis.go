package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/synaptis/synaptis-go/core/session"
)

// defaultRedisKey is the single logical key holding the serialized pair.
const defaultRedisKey = "synaptis:session"

// Redis stores the token pair under one key, for headless clients that
// already run against a Redis instance (kiosk hosts, integration
// workers). An optional TTL bounds the entry to the refresh token's
// lifetime so dead sessions age out on their own.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ session.Store = (*Redis)(nil)

// RedisOption is a functional option for configuring the redis store.
type RedisOption func(*Redis)

// WithRedisKey overrides the storage key, e.g. to namespace per user.
func WithRedisKey(key string) RedisOption {
	return func(s *Redis) {
		if key != "" {
			s.key = key
		}
	}
}

// WithRedisTTL sets an expiry on the stored pair. Zero means no expiry.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *Redis) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// NewRedis creates a redis-backed token store.
func NewRedis(client *redis.Client, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, ErrNilRedisClient
	}

	s := &Redis{
		client: client,
		key:    defaultRedisKey,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Load returns the stored pair, or session.ErrNoSession when the key is
// absent or expired.
func (s *Redis) Load(ctx context.Context) (session.TokenPair, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

// Save replaces the stored pair as a whole (SET is atomic).
func (s *Redis) Save(ctx context.Context, pair session.TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to encode token pair: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write token store: %w", err)
	}
	return nil
}

// Clear removes the stored pair. Idempotent.
func (s *Redis) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear token store: %w", err)
	}
	return nil
}
