// Package logger provides slog attribute helpers for the SDK's
// structured logging. Helpers follow the empty-Attr pattern: nil or
// empty inputs produce an attribute slog drops silently, so call sites
// need no guards:
//
//	log.Warn("background token refresh failed", logger.Error(err))
//	log.Debug("session refreshed", logger.Elapsed(start))
//
// The SDK itself logs through whatever *slog.Logger the host supplies
// (session.WithLogger); by default everything is discarded.
package logger
