package authapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoBaseURL is returned when a client is constructed without a base URL.
	ErrNoBaseURL = errors.New("authapi: base URL is required")
	// ErrInvalidCredentials is returned when the server rejected the
	// email/password combination. The wrapped message, when present, is
	// the server-supplied one.
	ErrInvalidCredentials = errors.New("authapi: invalid credentials")
	// ErrValidationFailed is returned for field-level registration errors;
	// errors.As against *ValidationError exposes the per-field messages.
	ErrValidationFailed = errors.New("authapi: validation failed")
	// ErrNetworkUnavailable is returned when no response was received.
	ErrNetworkUnavailable = errors.New("authapi: network unavailable")
	// ErrUnknownFailure is returned for anything else: unexpected status
	// codes, malformed response bodies.
	ErrUnknownFailure = errors.New("authapi: request failed")
)

// ValidationError carries field-level messages from a rejected
// registration (email already taken, weak password, ...). The map key is
// the field name; "non_field_errors" holds cross-field messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", k, strings.Join(e.Fields[k], ", "))
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), b.String())
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
