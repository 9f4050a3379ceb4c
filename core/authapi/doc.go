// Package authapi is the typed client for the Synaptis authentication
// endpoints: POST /auth/login, POST /auth/register and
// POST /auth/token/refresh.
//
// Failures are classified into a small taxonomy the UI layer can act on:
//
//   - ErrInvalidCredentials: the server rejected the email/password;
//     the wrapped text carries the server-supplied message when present
//   - ValidationError (wraps ErrValidationFailed): field-level
//     registration errors, e.g. an already-taken email
//   - ErrNetworkUnavailable: no response was received at all
//   - ErrUnknownFailure: any other outcome
//
// The client deliberately holds its own *http.Client instead of the
// authenticated transport from core/httpclient: token refresh must never
// pass through the 401-retry interceptor it feeds.
//
// Error bodies follow the backend serializer's conventions: either
// per-field message arrays ({"email": ["already registered"]}) or a
// generic {"detail": "..."} / {"error": "..."} object.
package authapi
