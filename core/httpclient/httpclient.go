package httpclient

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
)

const (
	authorizationHeader = "Authorization"
	requestIDHeader     = "X-Request-ID"
	bearerPrefix        = "Bearer "
)

// TokenSource supplies the current access token and can force a refresh.
// *session.Manager satisfies this interface.
type TokenSource interface {
	// AccessToken returns the current access token, if a session is active.
	AccessToken() (string, bool)
	// Refresh performs a single-flight token refresh and returns the new
	// access token. A failed refresh has already ended the session.
	Refresh(ctx context.Context) (string, error)
}

// retriedKey marks a request that has already spent its refresh-retry
// budget. Carrying the budget in the context instead of mutating the
// request keeps the transport safe under decorator nesting.
type retriedKey struct{}

// Transport is an http.RoundTripper decorator that attaches the bearer
// token to every request and, on a 401 response, refreshes the session
// once and retries the request once.
type Transport struct {
	base   http.RoundTripper
	source TokenSource
}

var _ http.RoundTripper = (*Transport)(nil)

// Option is a functional option for configuring the transport.
type Option func(*Transport)

// WithBase sets the underlying round tripper. Default is
// http.DefaultTransport.
func WithBase(base http.RoundTripper) Option {
	return func(t *Transport) {
		if base != nil {
			t.base = base
		}
	}
}

// New creates an authenticated transport backed by the token source.
func New(source TokenSource, opts ...Option) (*Transport, error) {
	if source == nil {
		return nil, ErrNoTokenSource
	}

	t := &Transport{
		base:   http.DefaultTransport,
		source: source,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// NewClient returns an *http.Client wired with the authenticated
// transport, ready to be handed to API consumers.
func NewClient(source TokenSource, opts ...Option) (*http.Client, error) {
	transport, err := New(source, opts...)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: transport}, nil
}

// RoundTrip implements http.RoundTripper. The original request is never
// mutated; retries replay the body via GetBody, so requests with
// non-replayable bodies are returned as-is on 401.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get(requestIDHeader) == "" {
		out.Header.Set(requestIDHeader, uuid.NewString())
	}
	if access, ok := t.source.AccessToken(); ok {
		out.Header.Set(authorizationHeader, bearerPrefix+access)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	if req.Context().Value(retriedKey{}) != nil {
		// Budget already spent upstream; never refresh twice for one
		// request chain.
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	access, refreshErr := t.source.Refresh(req.Context())
	if refreshErr != nil {
		// The refresh failure has ended the session; surface the
		// original 401 to the caller.
		return resp, nil
	}

	retry := out.Clone(context.WithValue(req.Context(), retriedKey{}, true))
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retry.Body = body
	}
	retry.Header.Set(authorizationHeader, bearerPrefix+access)

	// Drain the discarded 401 so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	// A 401 on the retried request is returned as-is: the session is
	// valid (refresh succeeded), the server denied this request.
	return t.base.RoundTrip(retry)
}
