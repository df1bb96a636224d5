package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// collectorEnvKeys are the variables Load reads. Tests blank them so values
// leaking in from the environment cannot skew the defaults.
var collectorEnvKeys = []string{
	"REQUEST_TIMEOUT", "REQUEST_DELAY", "MIN_CONTENT_LENGTH",
	"MAX_CONTENT_LENGTH", "USER_AGENT", "MAX_RETRIES",
	"MAX_FEED_ITEMS", "MAX_ARTICLES", "MAX_BODY_SIZE", "SITE_PROFILES_PATH",
}

func clearCollectorEnv(t *testing.T) {
	t.Helper()
	for _, key := range collectorEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearCollectorEnv(t)

	c := Load()

	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 2*time.Second, c.RequestDelay)
	assert.Equal(t, 100, c.MinContentLength)
	assert.Equal(t, 50000, c.MaxContentLength)
	assert.Equal(t, 3, c.MaxRetries)
	assert.Equal(t, 50, c.MaxFeedItems)
	assert.Equal(t, 20, c.MaxArticles)
	assert.Equal(t, int64(10*1024*1024), c.MaxBodySize)
	assert.Empty(t, c.SiteProfilesPath)
	assert.NotEmpty(t, c.UserAgent)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearCollectorEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "10s")
	t.Setenv("REQUEST_DELAY", "500ms")
	t.Setenv("MIN_CONTENT_LENGTH", "250")
	t.Setenv("MAX_CONTENT_LENGTH", "9000")
	t.Setenv("USER_AGENT", "test-agent/2.0")
	t.Setenv("MAX_FEED_ITEMS", "5")
	t.Setenv("MAX_ARTICLES", "3")
	t.Setenv("SITE_PROFILES_PATH", "/etc/collector/profiles.yaml")

	c := Load()

	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, c.RequestDelay)
	assert.Equal(t, 250, c.MinContentLength)
	assert.Equal(t, 9000, c.MaxContentLength)
	assert.Equal(t, "test-agent/2.0", c.UserAgent)
	assert.Equal(t, 5, c.MaxFeedItems)
	assert.Equal(t, 3, c.MaxArticles)
	assert.Equal(t, "/etc/collector/profiles.yaml", c.SiteProfilesPath)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearCollectorEnv(t)
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("MIN_CONTENT_LENGTH", "not-a-number")

	c := Load()

	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 100, c.MinContentLength)
}
