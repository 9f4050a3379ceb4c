package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/synaptis/synaptis-go/core/session"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	refreshPath  = "/auth/token/refresh"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 1 << 20
)

// Client calls the backend's authentication endpoints. It owns a plain
// *http.Client: refresh requests must bypass the 401-retry transport,
// otherwise a failing refresh would trigger another refresh.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ session.API = (*Client)(nil)

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The provided
// client must not carry the 401-retry transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates an auth endpoint client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type registerResponse struct {
	Tokens  *tokenResponse `json:"tokens"`
	Message string         `json:"message"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (session.TokenPair, error) {
	status, body, err := c.post(ctx, loginPath, loginRequest{Email: email, Password: password})
	if err != nil {
		return session.TokenPair{}, err
	}

	if status == http.StatusOK {
		var out tokenResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return session.TokenPair{}, errors.Join(ErrUnknownFailure, err)
		}
		pair := session.TokenPair{Access: out.Access, Refresh: out.Refresh}
		if !pair.Valid() {
			return session.TokenPair{}, fmt.Errorf("%w: incomplete token pair in response", ErrUnknownFailure)
		}
		return pair, nil
	}

	if status >= 400 && status < 500 {
		// Server-supplied message priority matches the dashboard client:
		// field errors first, then the generic detail/error keys.
		if msg := firstMessage(fieldMessages(body), "email", "password", "detail", "error"); msg != "" {
			return session.TokenPair{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
		}
		return session.TokenPair{}, ErrInvalidCredentials
	}

	return session.TokenPair{}, fmt.Errorf("%w: unexpected status %d", ErrUnknownFailure, status)
}

// Register creates an account. A nil pair with a nil error means the
// account was created without inline tokens (verification pending).
func (c *Client) Register(ctx context.Context, params session.RegisterParams) (*session.TokenPair, error) {
	status, body, err := c.post(ctx, registerPath, registerRequest{
		Email:     params.Email,
		Password:  params.Password,
		Password2: params.PasswordConfirmation,
		FirstName: params.FirstName,
		LastName:  params.LastName,
	})
	if err != nil {
		return nil, err
	}

	if status == http.StatusCreated {
		var out registerResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, errors.Join(ErrUnknownFailure, err)
		}
		if out.Tokens == nil {
			return nil, nil
		}
		pair := session.TokenPair{Access: out.Tokens.Access, Refresh: out.Tokens.Refresh}
		if !pair.Valid() {
			return nil, fmt.Errorf("%w: incomplete token pair in response", ErrUnknownFailure)
		}
		return &pair, nil
	}

	if status >= 400 && status < 500 {
		fields := fieldMessages(body)
		if hasFieldErrors(fields) {
			return nil, &ValidationError{Fields: withoutGenericKeys(fields)}
		}
		if msg := firstMessage(fields, "detail", "error"); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFailure, msg)
		}
	}

	return nil, fmt.Errorf("%w: unexpected status %d", ErrUnknownFailure, status)
}

// Refresh exchanges the refresh token for a new access token. The
// returned pair's Refresh is empty unless the server rotated it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (session.TokenPair, error) {
	status, body, err := c.post(ctx, refreshPath, refreshRequest{Refresh: refreshToken})
	if err != nil {
		return session.TokenPair{}, err
	}

	if status == http.StatusOK {
		var out tokenResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return session.TokenPair{}, errors.Join(ErrUnknownFailure, err)
		}
		if out.Access == "" {
			return session.TokenPair{}, fmt.Errorf("%w: no access token in refresh response", ErrUnknownFailure)
		}
		return session.TokenPair{Access: out.Access, Refresh: out.Refresh}, nil
	}

	return session.TokenPair{}, fmt.Errorf("%w: unexpected status %d", ErrUnknownFailure, status)
}

// post issues a JSON POST and returns the status and body. A transport
// error (no response at all) is classified as ErrNetworkUnavailable.
func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, errors.Join(ErrUnknownFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, errors.Join(ErrUnknownFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.Join(ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, errors.Join(ErrNetworkUnavailable, err)
	}

	return resp.StatusCode, body, nil
}

// fieldMessages flattens an error body into field → messages. Values may
// be a single string or an array of strings; anything else is ignored.
func fieldMessages(body []byte) map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	out := make(map[string][]string, len(raw))
	for key, value := range raw {
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			out[key] = []string{single}
			continue
		}
		var list []string
		if err := json.Unmarshal(value, &list); err == nil && len(list) > 0 {
			out[key] = list
		}
	}
	return out
}

// firstMessage returns the first message among keys, in priority order.
func firstMessage(fields map[string][]string, keys ...string) string {
	for _, key := range keys {
		if msgs := fields[key]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// hasFieldErrors reports whether the body carried per-field messages
// rather than only the generic detail/error keys.
func hasFieldErrors(fields map[string][]string) bool {
	for key := range fields {
		if key != "detail" && key != "error" {
			return true
		}
	}
	return false
}

func withoutGenericKeys(fields map[string][]string) map[string][]string {
	out := make(map[string][]string, len(fields))
	for key, msgs := range fields {
		if key == "detail" || key == "error" {
			continue
		}
		out[key] = msgs
	}
	return out
}
