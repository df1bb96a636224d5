package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-collector/internal/domain/entity"
	"content-collector/internal/infra/fetcher"
)

func testFetchClient() *fetcher.Client {
	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false
	return fetcher.New(cfg)
}

func serveBody(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, body)
	}))
}

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Engineering Blog</title>
    <description>Posts about systems</description>
    <language>en</language>
    <item>
      <title>Designing a Crawler</title>
      <link>https://example.com/posts/crawler</link>
      <description>A long writeup about building a polite crawler that respects remote servers and caps its request rate.</description>
      <pubDate>Fri, 15 Mar 2024 10:00:00 GMT</pubDate>
      <author>jane@example.com (Jane Doe)</author>
      <category>go</category>
      <category>crawling</category>
    </item>
    <item>
      <link>https://example.com/posts/untitled-entry</link>
      <description>This entry carries no title element, so the link should be used as the title instead of dropping it.</description>
      <pubDate>Thu, 14 Mar 2024 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Entry Without Any URL</title>
      <description>This entry has no link and no GUID, which makes it impossible to store, so it must be discarded.</description>
    </item>
    <item>
      <title>Too Short</title>
      <link>https://example.com/posts/short</link>
      <description>tiny</description>
    </item>
  </channel>
</rss>`

func TestFeedExtract(t *testing.T) {
	srv := serveBody(t, "application/rss+xml", testFeed)
	defer srv.Close()

	ex := NewFeedExtractor(testFetchClient(), 50, 50000)
	records := ex.Extract(context.Background(), srv.URL, 50)

	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Designing a Crawler", first.Title)
	assert.Equal(t, "https://example.com/posts/crawler", first.URL)
	assert.Equal(t, entity.OriginFeed, first.Origin)
	assert.Equal(t, []string{"go", "crawling"}, first.Tags)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, 2024, first.PublishedAt.Year())
	assert.Equal(t, time.March, first.PublishedAt.Month())
	assert.Positive(t, first.WordCount)
	assert.Positive(t, first.ReadingTime)

	// Titleless entry keeps its link as title.
	assert.Equal(t, "https://example.com/posts/untitled-entry", records[1].Title)
}

func TestFeedExtract_MaxItems(t *testing.T) {
	srv := serveBody(t, "application/rss+xml", testFeed)
	defer srv.Close()

	ex := NewFeedExtractor(testFetchClient(), 10, 50000)
	records := ex.Extract(context.Background(), srv.URL, 1)

	assert.Len(t, records, 1)
}

func TestFeedExtract_Idempotent(t *testing.T) {
	srv := serveBody(t, "application/rss+xml", testFeed)
	defer srv.Close()

	ex := NewFeedExtractor(testFetchClient(), 50, 50000)
	first := ex.Extract(context.Background(), srv.URL, 50)
	second := ex.Extract(context.Background(), srv.URL, 50)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].URL, second[i].URL)
		assert.Equal(t, first[i].Title, second[i].Title)
	}
}

func TestFeedExtract_BadDocument(t *testing.T) {
	srv := serveBody(t, "text/html", "<html><body>not a feed</body></html>")
	defer srv.Close()

	ex := NewFeedExtractor(testFetchClient(), 10, 50000)
	assert.Empty(t, ex.Extract(context.Background(), srv.URL, 10))
}

func TestFeedExtract_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ex := NewFeedExtractor(testFetchClient(), 10, 50000)
	assert.Empty(t, ex.Extract(context.Background(), srv.URL, 10))
}

func TestFeedInfo(t *testing.T) {
	srv := serveBody(t, "application/rss+xml", testFeed)
	defer srv.Close()

	ex := NewFeedExtractor(testFetchClient(), 10, 50000)
	info, ok := ex.FeedInfo(context.Background(), srv.URL)

	require.True(t, ok)
	assert.Equal(t, "Example Engineering Blog", info.Title)
	assert.Equal(t, "Posts about systems", info.Description)
	assert.Equal(t, "en", info.Language)
	assert.Equal(t, 4, info.EntryCount)
	require.NotNil(t, info.MostRecentEntry)
	assert.Equal(t, 15, info.MostRecentEntry.Day())
}

func TestFeedInfo_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	ex := NewFeedExtractor(testFetchClient(), 10, 50000)
	_, ok := ex.FeedInfo(context.Background(), srv.URL)
	assert.False(t, ok)
}

func TestIsAbsoluteURL(t *testing.T) {
	assert.True(t, isAbsoluteURL("https://example.com/a"))
	assert.False(t, isAbsoluteURL("/relative/path"))
	assert.False(t, isAbsoluteURL(""))
	assert.False(t, isAbsoluteURL("not-a-url"))
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passthrough",
			input: "  just words  ",
			want:  "just words",
		},
		{
			name:  "html fragment reduced to text",
			input: "<p>Hello <strong>world</strong></p>",
			want:  "Hello world",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkup(tt.input))
		})
	}
}
