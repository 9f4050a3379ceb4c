package session

import "time"

// Config holds the refresh schedule of the session manager.
type Config struct {
	// RefreshInterval is the period of the proactive background check.
	// The observed backend issues short-lived access tokens; a quarter of
	// their validity keeps the token fresh without hammering the server.
	RefreshInterval time.Duration `env:"SYNAPTIS_REFRESH_INTERVAL" envDefault:"4m"`

	// RefreshWindow widens the expiry check: a token expiring within the
	// window is refreshed proactively instead of waiting for a 401.
	RefreshWindow time.Duration `env:"SYNAPTIS_REFRESH_WINDOW" envDefault:"30s"`
}

// defaultConfig returns default configuration.
func defaultConfig() Config {
	return Config{
		RefreshInterval: 4 * time.Minute,
		RefreshWindow:   30 * time.Second,
	}
}

// ConfigOption is a functional option for the refresh schedule.
type ConfigOption func(*Config)

// WithRefreshInterval sets the period of the proactive refresh check.
func WithRefreshInterval(interval time.Duration) ConfigOption {
	return func(c *Config) {
		if interval > 0 {
			c.RefreshInterval = interval
		}
	}
}

// WithRefreshWindow sets how close to expiry a token may get before the
// background check refreshes it. Zero disables the early window; the
// token is then refreshed only once actually expired.
func WithRefreshWindow(window time.Duration) ConfigOption {
	return func(c *Config) {
		if window >= 0 {
			c.RefreshWindow = window
		}
	}
}
