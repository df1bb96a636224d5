package fetcher

import "time"

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 10 * 1024 * 1024 // 10MB
	defaultMaxRedirs   = 5
	defaultUserAgent   = "content-collector/1.0"
)

// Config controls the outbound HTTP client.
type Config struct {
	// Timeout bounds a whole request, connect through body read.
	Timeout time.Duration
	// UserAgent is sent on every request.
	UserAgent string
	// MaxBodySize caps the bytes read from a response body.
	MaxBodySize int64
	// MaxRedirects caps redirect hops; each hop is re-validated.
	MaxRedirects int
	// DenyPrivateIPs re-checks every redirect target against private
	// address ranges when true.
	DenyPrivateIPs bool
}

// DefaultConfig returns the fetcher defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        defaultTimeout,
		UserAgent:      defaultUserAgent,
		MaxBodySize:    defaultMaxBodySize,
		MaxRedirects:   defaultMaxRedirs,
		DenyPrivateIPs: true,
	}
}

// withDefaults fills zero fields with the package defaults.
func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = defaultMaxRedirs
	}
	return c
}
