// Package tokenstore provides session.Store implementations: the durable
// home of the token pair between client restarts.
//
// All stores hold one logical value — the serialized TokenPair — and
// replace it atomically on save, so a concurrent load never observes an
// access token paired with a stale refresh token.
//
//   - Memory: process-local, for tests and credential-less hosts
//   - File: JSON file with temp-file+rename replace, the localStorage
//     equivalent for desktop and CLI clients
//   - Redis: single key with optional TTL, for headless deployments that
//     already operate Redis (see integration/database/redis for the
//     connection helper)
package tokenstore
