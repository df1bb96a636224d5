package collect

import (
	"context"
	"time"

	"content-collector/internal/domain/entity"
)

// FeedCollector turns a feed document at a URL into content records.
// Implementations swallow network and parse failures: a feed that cannot be
// fetched or parsed yields an empty slice, logged, never an error.
type FeedCollector interface {
	Extract(ctx context.Context, feedURL string, maxItems int) []*entity.ContentRecord
	// FeedInfo probes a candidate feed for source pre-registration. The
	// second return is false when the document cannot be fetched or parsed.
	FeedInfo(ctx context.Context, feedURL string) (*FeedInfo, bool)
}

// ArticleCollector discovers article links on a listing page and extracts
// content records from individual pages. Failures follow the same swallow
// convention as FeedCollector.
type ArticleCollector interface {
	Collect(ctx context.Context, listingURL string, maxArticles int) []*entity.ContentRecord
	// ExtractArticle extracts a single page. The second return is false
	// when the page cannot be fetched or yields no usable record.
	ExtractArticle(ctx context.Context, articleURL string) (*entity.ContentRecord, bool)
}

// FeedInfo summarizes a feed document for pre-registration testing.
type FeedInfo struct {
	Title           string
	Description     string
	Language        string
	EntryCount      int
	MostRecentEntry *time.Time
}

// TestResult is the outcome of probing a candidate source URL.
type TestResult struct {
	Success       bool
	Message       string
	SampleContent *entity.ContentRecord
	FeedInfo      *FeedInfo
}
