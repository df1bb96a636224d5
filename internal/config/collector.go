// Package config holds the runtime configuration for the collection engine,
// loaded from environment variables with sensible defaults.
package config

import (
	"log/slog"
	"time"

	"content-collector/pkg/config"
)

// Collector carries every tunable of the collection engine.
type Collector struct {
	// RequestTimeout bounds each outbound fetch.
	RequestTimeout time.Duration
	// RequestDelay is the pause between consecutive outbound requests,
	// applied between sources by the orchestrator and between article
	// fetches by the article extractor.
	RequestDelay time.Duration
	// MinContentLength and MaxContentLength bound accepted body text, in
	// characters.
	MinContentLength int
	MaxContentLength int
	// UserAgent identifies the collector to remote servers.
	UserAgent string
	// MaxRetries is recognized for compatibility with older deployments.
	// Retry behavior is governed by the resilience layer presets; this
	// value is logged at startup so misconfiguration is visible.
	MaxRetries int
	// MaxFeedItems caps entries taken from a single feed.
	MaxFeedItems int
	// MaxArticles caps articles collected from a single listing page.
	MaxArticles int
	// MaxBodySize caps the bytes read from any single response.
	MaxBodySize int64
	// SiteProfilesPath optionally points at a YAML file with per-domain
	// selector profile overrides. Empty means built-ins only.
	SiteProfilesPath string
}

// Load reads the collector configuration from the environment.
func Load() Collector {
	c := Collector{
		RequestTimeout:   config.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RequestDelay:     config.GetEnvDuration("REQUEST_DELAY", 2*time.Second),
		MinContentLength: config.GetEnvInt("MIN_CONTENT_LENGTH", 100),
		MaxContentLength: config.GetEnvInt("MAX_CONTENT_LENGTH", 50000),
		UserAgent:        config.GetEnvString("USER_AGENT", "content-collector/1.0 (+https://github.com/content-collector)"),
		MaxRetries:       config.GetEnvInt("MAX_RETRIES", 3),
		MaxFeedItems:     config.GetEnvInt("MAX_FEED_ITEMS", 50),
		MaxArticles:      config.GetEnvInt("MAX_ARTICLES", 20),
		MaxBodySize:      int64(config.GetEnvInt("MAX_BODY_SIZE", 10*1024*1024)),
		SiteProfilesPath: config.GetEnvString("SITE_PROFILES_PATH", ""),
	}

	slog.Info("collector configuration loaded",
		slog.Duration("request_timeout", c.RequestTimeout),
		slog.Duration("request_delay", c.RequestDelay),
		slog.Int("min_content_length", c.MinContentLength),
		slog.Int("max_content_length", c.MaxContentLength),
		slog.Int("max_retries", c.MaxRetries),
		slog.Int("max_feed_items", c.MaxFeedItems),
		slog.Int("max_articles", c.MaxArticles))

	return c
}
