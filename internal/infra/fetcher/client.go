// Package fetcher provides the hardened outbound HTTP client shared by the
// feed and article extractors. It validates target URLs against private
// address ranges, caps response body size, and records fetch metrics.
package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"content-collector/internal/domain/entity"
	"content-collector/internal/observability/metrics"
	"content-collector/internal/resilience/retry"
)

// Client fetches remote documents over HTTP.
type Client struct {
	http *http.Client
	cfg  Config
}

// New creates a Client from the given configuration.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()

	c := &Client{cfg: cfg}
	c.http = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			if cfg.DenyPrivateIPs {
				if err := entity.ValidateURL(req.URL.String()); err != nil {
					return fmt.Errorf("redirect target rejected: %w", err)
				}
			}
			return nil
		},
	}
	return c
}

// Get fetches the URL and returns the body bytes and the Content-Type header.
// The body is capped at the configured maximum size. Non-2xx responses are
// returned as *retry.HTTPError so callers can decide whether to retry.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	if c.cfg.DenyPrivateIPs {
		if err := entity.ValidateURL(rawURL); err != nil {
			return nil, "", fmt.Errorf("URL validation failed: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFetch("failure", time.Since(start), 0)
		return nil, "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordFetch("failure", time.Since(start), 0)
		return nil, "", &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	// Limit body size to prevent memory exhaustion
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodySize))
	if err != nil {
		metrics.RecordFetch("failure", time.Since(start), 0)
		return nil, "", fmt.Errorf("read body: %w", err)
	}

	metrics.RecordFetch("success", time.Since(start), len(body))
	return body, resp.Header.Get("Content-Type"), nil
}

// Document fetches the URL and parses the body as HTML. It returns the
// parsed document and the final URL after redirects so relative links can be
// resolved correctly.
func (c *Client) Document(ctx context.Context, rawURL string) (*goquery.Document, string, error) {
	if c.cfg.DenyPrivateIPs {
		if err := entity.ValidateURL(rawURL); err != nil {
			return nil, "", fmt.Errorf("URL validation failed: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordFetch("failure", time.Since(start), 0)
		return nil, "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordFetch("failure", time.Since(start), 0)
		return nil, "", &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	limited := io.LimitReader(resp.Body, c.cfg.MaxBodySize)
	doc, err := goquery.NewDocumentFromReader(limited)
	if err != nil {
		metrics.RecordFetch("failure", time.Since(start), 0)
		return nil, "", fmt.Errorf("parse HTML: %w", err)
	}

	metrics.RecordFetch("success", time.Since(start), 0)
	return doc, resp.Request.URL.String(), nil
}
