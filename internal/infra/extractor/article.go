package extractor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"content-collector/internal/domain/entity"
	"content-collector/internal/infra/fetcher"
	"content-collector/internal/observability/metrics"
	"content-collector/internal/resilience/circuitbreaker"
	"content-collector/internal/resilience/retry"
)

const (
	// minTitleLength filters out icon glyphs and stray characters that
	// headline selectors sometimes match.
	minTitleLength = 5
	// minBodyLength is the floor below which a selector match is treated
	// as a miss and the next fallback is tried.
	minBodyLength = 100
	// maxSummaryLength bounds a first-paragraph summary.
	maxSummaryLength = 300
	// maxTags caps the tag list per record.
	maxTags = 10

	fallbackTitle = "Sem título"
)

// linkSelectors match anchors that commonly point at articles on listing pages.
var linkSelectors = []string{
	`a[href*="/post/"]`,
	`a[href*="/article/"]`,
	`a[href*="/news/"]`,
	`a[href*="/blog/"]`,
	`a[href*="/story/"]`,
	".post-title a",
	".entry-title a",
	".article-title a",
	"h2 a",
	"h3 a",
	`a[href*="/p/"]`,
}

// articleURLPatterns decide whether a discovered href looks like an article.
var articleURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/post/\d+`),
	regexp.MustCompile(`(?i)/article/`),
	regexp.MustCompile(`(?i)/story/`),
	regexp.MustCompile(`(?i)/blog/\d+`),
	regexp.MustCompile(`(?i)/news/\d+`),
	regexp.MustCompile(`(?i)/p/\d+`),
	regexp.MustCompile(`(?i)/\d{4}/\d{2}/`),
	regexp.MustCompile(`(?i)wordpress\.com/\d{4}/`),
}

// ArticleExtractor discovers article links on listing pages and extracts
// content records from individual pages using per-domain selector profiles.
type ArticleExtractor struct {
	client   *fetcher.Client
	profiles *ProfileTable
	breaker  *circuitbreaker.CircuitBreaker
	retryCfg retry.Config
	limiter  *rate.Limiter

	minLength int
	maxLength int
}

// NewArticleExtractor creates an ArticleExtractor. delay spaces consecutive
// article fetches within one Collect call; zero disables the pacing.
func NewArticleExtractor(client *fetcher.Client, profiles *ProfileTable, delay time.Duration, minLength, maxLength int) *ArticleExtractor {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &ArticleExtractor{
		client:    client,
		profiles:  profiles,
		breaker:   circuitbreaker.New(circuitbreaker.ArticleFetchConfig()),
		retryCfg:  retry.ArticleFetchConfig(),
		limiter:   rate.NewLimiter(limit, 1),
		minLength: minLength,
		maxLength: maxLength,
	}
}

// Collect discovers article links on the listing page and extracts up to
// maxArticles records. Failures are logged and swallowed: an unreachable
// listing page or a page with no discoverable links yields an empty slice.
func (e *ArticleExtractor) Collect(ctx context.Context, listingURL string, maxArticles int) []*entity.ContentRecord {
	body, err := e.fetch(ctx, listingURL)
	if err != nil {
		slog.Error("failed to fetch listing page",
			slog.String("url", listingURL),
			slog.Any("error", err))
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		slog.Error("failed to parse listing page",
			slog.String("url", listingURL),
			slog.Any("error", err))
		return nil
	}

	links := discoverLinks(doc, listingURL)
	if len(links) == 0 {
		slog.Warn("no article links found on listing page",
			slog.String("url", listingURL))
		return nil
	}
	if maxArticles > 0 && len(links) > maxArticles {
		links = links[:maxArticles]
	}

	slog.Info("discovered article links",
		slog.String("url", listingURL),
		slog.Int("count", len(links)))

	var records []*entity.ContentRecord
	for _, link := range links {
		if err := e.limiter.Wait(ctx); err != nil {
			slog.Warn("article collection interrupted",
				slog.String("url", listingURL),
				slog.Any("error", err))
			break
		}

		rec, ok := e.ExtractArticle(ctx, link)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	return records
}

// ExtractArticle extracts a single article page into a validated record. The
// second return is false on fetch failure or when the page yields no content
// that passes validation.
func (e *ArticleExtractor) ExtractArticle(ctx context.Context, articleURL string) (*entity.ContentRecord, bool) {
	body, err := e.fetch(ctx, articleURL)
	if err != nil {
		slog.Warn("failed to fetch article",
			slog.String("url", articleURL),
			slog.Any("error", err))
		return nil, false
	}

	rec, err := e.buildRecord(articleURL, body)
	if err != nil {
		slog.Warn("failed to extract article",
			slog.String("url", articleURL),
			slog.Any("error", err))
		return nil, false
	}

	if err := rec.Validate(e.minLength, e.maxLength); err != nil {
		slog.Debug("article rejected by validation",
			slog.String("url", articleURL),
			slog.Any("error", err))
		metrics.RecordRecordDropped("validation")
		return nil, false
	}

	return rec, true
}

// fetch retrieves raw page bytes through the circuit breaker and retry layer.
func (e *ArticleExtractor) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte

	retryErr := retry.WithBackoff(ctx, e.retryCfg, func() error {
		cbResult, err := e.breaker.Execute(func() (interface{}, error) {
			b, _, err := e.client.Get(ctx, rawURL)
			return b, err
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("article fetch circuit breaker open, request rejected",
					slog.String("circuit", e.breaker.Name()),
					slog.String("url", rawURL))
			}
			return err
		}
		body = cbResult.([]byte)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return body, nil
}

// buildRecord turns raw page bytes into an unvalidated record.
func (e *ArticleExtractor) buildRecord(articleURL string, body []byte) (*entity.ContentRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	parsedURL, err := url.Parse(articleURL)
	if err != nil {
		return nil, err
	}

	profile := e.profiles.Match(parsedURL.Hostname(), articleURL)

	// Tags and summary read the whole document, so collect them before
	// the excluded subtrees are stripped.
	summary := extractSummary(doc)
	tags := extractTags(doc)
	author := extractAuthor(doc, profile)
	publishedAt := extractDate(doc, profile)

	for _, selector := range profile.ExcludeSelectors {
		doc.Find(selector).Remove()
	}

	title := extractTitle(doc, profile)
	bodyText := e.extractBody(doc, profile, body, parsedURL)

	rec := &entity.ContentRecord{
		Title:       title,
		URL:         articleURL,
		BodyText:    bodyText,
		Summary:     summary,
		Author:      author,
		PublishedAt: publishedAt,
		Tags:        tags,
		Origin:      entity.OriginArticle,
	}
	rec.ComputeStats()
	return rec, nil
}

// extractBody tries the profile's body selectors, then the Readability
// extraction, then the whole page body as a last resort.
func (e *ArticleExtractor) extractBody(doc *goquery.Document, profile Profile, raw []byte, pageURL *url.URL) string {
	for _, selector := range profile.BodySelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := blockText(sel); len([]rune(text)) > minBodyLength {
			return text
		}
	}

	if article, err := readability.FromReader(bytes.NewReader(raw), pageURL); err == nil {
		if text := strings.TrimSpace(article.TextContent); len([]rune(text)) > minBodyLength {
			return text
		}
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		return blockText(body)
	}
	return ""
}

// discoverLinks collects candidate article URLs from a listing page,
// resolved against the page URL and deduplicated.
func discoverLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	for _, selector := range linkSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok || href == "" {
				return
			}
			if !looksLikeArticleURL(href) {
				return
			}
			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			abs := base.ResolveReference(ref).String()
			if seen[abs] {
				return
			}
			seen[abs] = true
			links = append(links, abs)
		})
	}

	return links
}

// looksLikeArticleURL reports whether the href matches any known article
// path pattern.
func looksLikeArticleURL(href string) bool {
	for _, pattern := range articleURLPatterns {
		if pattern.MatchString(href) {
			return true
		}
	}
	return false
}

// extractTitle tries the profile's title selectors, then the <title> tag.
func extractTitle(doc *goquery.Document, profile Profile) string {
	for _, selector := range profile.TitleSelectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if len([]rune(title)) > minTitleLength {
			return title
		}
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	return fallbackTitle
}

// extractSummary tries the meta description, then og:description, then a
// short first paragraph.
func extractSummary(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
		return desc
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok && desc != "" {
		return desc
	}

	first := strings.TrimSpace(doc.Find("p").First().Text())
	if first != "" && len([]rune(first)) < maxSummaryLength {
		return first
	}
	return ""
}

// extractAuthor tries the profile's author selectors, then the meta author.
func extractAuthor(doc *goquery.Document, profile Profile) string {
	for _, selector := range profile.AuthorSelectors {
		sel := doc.Find(selector).First()
		var author string
		if strings.HasPrefix(selector, "meta") {
			author, _ = sel.Attr("content")
		} else {
			author = sel.Text()
		}
		author = strings.TrimSpace(author)
		if len([]rune(author)) > 2 {
			return author
		}
	}

	if author, ok := doc.Find(`meta[name="author"]`).First().Attr("content"); ok {
		return strings.TrimSpace(author)
	}
	return ""
}

// extractDate tries the profile's date selectors, reading the datetime
// attribute, the meta content attribute, or the element text.
func extractDate(doc *goquery.Document, profile Profile) *time.Time {
	for _, selector := range profile.DateSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		raw, ok := sel.Attr("datetime")
		if !ok || raw == "" {
			raw, ok = sel.Attr("content")
		}
		if !ok || raw == "" {
			raw = sel.Text()
		}

		if t := parseDate(strings.TrimSpace(raw)); t != nil {
			return t
		}
	}
	return nil
}

// extractTags collects tags from meta keywords, article:tag metas, and
// common tag class selectors, deduplicated and capped.
func extractTags(doc *goquery.Document) []string {
	var tags []string
	seen := make(map[string]bool)

	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	if keywords, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		for _, kw := range strings.Split(keywords, ",") {
			add(kw)
		}
	}

	doc.Find(`meta[property="article:tag"]`).Each(func(_ int, sel *goquery.Selection) {
		if tag, ok := sel.Attr("content"); ok {
			add(tag)
		}
	})

	for _, selector := range []string{".tag", ".category", ".label", ".tags a"} {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			add(sel.Text())
		})
	}

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// blockText joins the text of block-level elements with newlines, so
// paragraph boundaries survive extraction. Falls back to the selection's
// flat text when it contains no block elements.
func blockText(sel *goquery.Selection) string {
	var blocks []string
	sel.Find("p, h1, h2, h3, h4, li, blockquote, pre").Each(func(_ int, block *goquery.Selection) {
		if text := strings.TrimSpace(block.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return strings.TrimSpace(sel.Text())
	}
	return strings.Join(blocks, "\n")
}
