// Package extractor turns remote feed documents and article pages into
// content records. Both extractors follow the same failure convention: a
// source that cannot be fetched or parsed yields empty results, logged,
// never an error to the caller.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"content-collector/internal/domain/entity"
	"content-collector/internal/infra/fetcher"
	"content-collector/internal/observability/metrics"
	"content-collector/internal/resilience/circuitbreaker"
	"content-collector/internal/resilience/retry"
	"content-collector/internal/usecase/collect"
)

// untitledFallback is used when a feed entry carries no title at all.
const untitledFallback = "Untitled"

// FeedExtractor parses RSS and Atom documents using gofeed, wrapped in
// circuit breaker and retry logic for flaky feed hosts.
type FeedExtractor struct {
	client   *fetcher.Client
	breaker  *circuitbreaker.CircuitBreaker
	retryCfg retry.Config

	minLength int
	maxLength int
}

// NewFeedExtractor creates a FeedExtractor with the given fetch client and
// content length bounds.
func NewFeedExtractor(client *fetcher.Client, minLength, maxLength int) *FeedExtractor {
	return &FeedExtractor{
		client:    client,
		breaker:   circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryCfg:  retry.FeedFetchConfig(),
		minLength: minLength,
		maxLength: maxLength,
	}
}

// Extract fetches and parses the feed, returning up to maxItems validated
// records. Network and parse failures yield an empty slice.
func (e *FeedExtractor) Extract(ctx context.Context, feedURL string, maxItems int) []*entity.ContentRecord {
	feed, err := e.parse(ctx, feedURL)
	if err != nil {
		slog.Error("failed to fetch or parse feed",
			slog.String("url", feedURL),
			slog.Any("error", err))
		return nil
	}

	var records []*entity.ContentRecord
	for _, item := range feed.Items {
		if maxItems > 0 && len(records) >= maxItems {
			break
		}

		rec, ok := entryToRecord(item)
		if !ok {
			continue
		}
		if err := rec.Validate(e.minLength, e.maxLength); err != nil {
			metrics.RecordRecordDropped("validation")
			continue
		}
		records = append(records, rec)
	}

	slog.Info("feed extracted",
		slog.String("url", feedURL),
		slog.Int("entries", len(feed.Items)),
		slog.Int("records", len(records)))

	return records
}

// FeedInfo probes the feed for pre-registration testing. The second return
// is false when the document cannot be fetched or parsed.
func (e *FeedExtractor) FeedInfo(ctx context.Context, feedURL string) (*collect.FeedInfo, bool) {
	feed, err := e.parse(ctx, feedURL)
	if err != nil {
		slog.Warn("feed info probe failed",
			slog.String("url", feedURL),
			slog.Any("error", err))
		return nil, false
	}

	info := &collect.FeedInfo{
		Title:       feed.Title,
		Description: feed.Description,
		Language:    feed.Language,
		EntryCount:  len(feed.Items),
	}
	for _, item := range feed.Items {
		ts := entryTime(item)
		if ts == nil {
			continue
		}
		if info.MostRecentEntry == nil || ts.After(*info.MostRecentEntry) {
			info.MostRecentEntry = ts
		}
	}
	return info, true
}

// parse fetches the document through the resilience layer and hands the
// bytes to gofeed.
func (e *FeedExtractor) parse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	var body []byte

	retryErr := retry.WithBackoff(ctx, e.retryCfg, func() error {
		cbResult, err := e.breaker.Execute(func() (interface{}, error) {
			b, _, err := e.client.Get(ctx, feedURL)
			return b, err
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("circuit", e.breaker.Name()),
					slog.String("url", feedURL))
			}
			return err
		}
		body = cbResult.([]byte)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return gofeed.NewParser().Parse(bytes.NewReader(body))
}

// entryToRecord maps one feed entry to a record. The second return is false
// when the entry has no resolvable URL.
func entryToRecord(item *gofeed.Item) (*entity.ContentRecord, bool) {
	link := entryURL(item)
	if link == "" {
		slog.Debug("discarding feed entry without resolvable URL",
			slog.String("title", item.Title))
		return nil, false
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = link
	}
	if title == "" {
		title = untitledFallback
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}

	rec := &entity.ContentRecord{
		Title:       title,
		URL:         link,
		BodyText:    stripMarkup(body),
		Summary:     stripMarkup(item.Description),
		Author:      entryAuthor(item),
		PublishedAt: entryTime(item),
		Tags:        append([]string{}, item.Categories...),
		Origin:      entity.OriginFeed,
	}
	rec.ComputeStats()
	return rec, true
}

// entryURL resolves an entry's URL: the link field, then the GUID when it is
// an absolute URL, then the first absolute URL among alternate links.
func entryURL(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if isAbsoluteURL(item.GUID) {
		return item.GUID
	}
	for _, l := range item.Links {
		if isAbsoluteURL(l) {
			return l
		}
	}
	return ""
}

func entryAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	var names []string
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

func entryTime(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}

func isAbsoluteURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// stripMarkup reduces an HTML fragment to plain text. Non-HTML input passes
// through unchanged apart from trimming.
func stripMarkup(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" || !strings.Contains(fragment, "<") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(doc.Text())
}
