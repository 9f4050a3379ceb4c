package authapi

import "time"

// Config provides environment-based configuration for the auth client.
type Config struct {
	// BaseURL is the backend's root URL, e.g. https://api.synaptis.app
	BaseURL string `env:"SYNAPTIS_API_BASE_URL,required"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `env:"SYNAPTIS_API_TIMEOUT" envDefault:"30s"`
}

// NewFromConfig creates an auth endpoint client from configuration.
// Additional options can override config values.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	allOpts := append([]Option{WithTimeout(cfg.Timeout)}, opts...)
	return New(cfg.BaseURL, allOpts...)
}
