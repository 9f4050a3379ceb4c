// Package redis provides Redis client initialization and health checking
// for clients that persist their session in Redis.
//
// Connect validates the connection URL (redis:// or rediss://), dials
// with retries, and verifies connectivity with a ping before returning
// the client:
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0"}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	store, err := tokenstore.NewRedis(client)
//
// Configuration maps to environment variables (REDIS_URL,
// REDIS_RETRY_ATTEMPTS, REDIS_RETRY_INTERVAL, REDIS_CONNECT_TIMEOUT) and
// loads via core/config.
//
// Healthcheck returns a probe function for hosts that expose readiness
// endpoints. Errors wrap the sentinel types in errors.go; match with
// errors.Is.
package redis
