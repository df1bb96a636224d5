// Package collect implements the collection orchestrator. It resolves a set
// of sources, dispatches each to the feed or article extractor, persists the
// results, and tracks per-task status in a TaskStore.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"content-collector/internal/domain/entity"
	"content-collector/internal/observability/metrics"
	"content-collector/internal/observability/tracing"
	"content-collector/internal/repository"
)

// Freshness windows for the recency-skip policy. A source collected more
// recently than its window is skipped unless recollection is forced.
const (
	feedFreshness    = 1 * time.Hour
	defaultFreshness = 24 * time.Hour
)

// Service orchestrates collection runs.
type Service struct {
	Sources  repository.SourceRepository
	Contents repository.ContentRepository
	Feeds    FeedCollector
	Articles ArticleCollector
	Tasks    *TaskStore

	// Delay is the pause between consecutive sources within one task.
	Delay time.Duration
	// MaxFeedItems caps entries taken per feed source.
	MaxFeedItems int
	// MaxArticles caps articles collected per blog/news source.
	MaxArticles int
}

// NewService creates a collection Service with the provided dependencies.
func NewService(
	sources repository.SourceRepository,
	contents repository.ContentRepository,
	feeds FeedCollector,
	articles ArticleCollector,
	tasks *TaskStore,
	delay time.Duration,
	maxFeedItems, maxArticles int,
) *Service {
	return &Service{
		Sources:      sources,
		Contents:     contents,
		Feeds:        feeds,
		Articles:     articles,
		Tasks:        tasks,
		Delay:        delay,
		MaxFeedItems: maxFeedItems,
		MaxArticles:  maxArticles,
	}
}

// StartInput selects which sources a task collects. SourceIDs takes
// precedence over ClientIDs when both are given; leaving both empty means
// every active source.
type StartInput struct {
	SourceIDs      []int64
	ClientIDs      []int64
	ForceRecollect bool
}

// StartTask registers a new task and launches its collection run in the
// background. It returns the task ID immediately; progress is observed
// through Status and AllTasks.
func (s *Service) StartTask(ctx context.Context, in StartInput) (string, error) {
	id := uuid.New().String()
	s.Tasks.Create(id)

	slog.Info("collection task started",
		slog.String("task_id", id),
		slog.Int("source_filter", len(in.SourceIDs)),
		slog.Int("client_filter", len(in.ClientIDs)),
		slog.Bool("force", in.ForceRecollect))

	// The run outlives the request that started it.
	go s.run(context.WithoutCancel(ctx), id, in)

	return id, nil
}

// Status returns a snapshot of one task.
func (s *Service) Status(id string) (entity.CollectionTask, bool) {
	return s.Tasks.Get(id)
}

// AllTasks returns snapshots of every known task.
func (s *Service) AllTasks() []entity.CollectionTask {
	return s.Tasks.All()
}

// run executes one collection task to a terminal state.
func (s *Service) run(ctx context.Context, taskID string, in StartInput) {
	ctx, span := tracing.GetTracer().Start(ctx, "collect.run")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("collection task panicked",
				slog.String("task_id", taskID),
				slog.Any("panic", r))
			s.Tasks.MarkError(taskID, fmt.Sprintf("internal error: %v", r))
			metrics.RecordTaskFinished("error")
		}
	}()

	sources, err := s.resolveSources(ctx, in)
	if err != nil {
		slog.Error("source resolution failed",
			slog.String("task_id", taskID),
			slog.Any("error", err))
		s.Tasks.MarkError(taskID, fmt.Sprintf("resolve sources: %v", err))
		metrics.RecordTaskFinished("error")
		return
	}
	if len(sources) == 0 {
		s.Tasks.MarkError(taskID, entity.ErrNoSources.Error())
		metrics.RecordTaskFinished("error")
		return
	}

	s.Tasks.MarkProcessing(taskID)

	for i, src := range sources {
		stored := s.collectSource(ctx, src, in.ForceRecollect)
		s.Tasks.AddItems(taskID, stored)

		if i < len(sources)-1 && s.Delay > 0 {
			select {
			case <-time.After(s.Delay):
			case <-ctx.Done():
			}
		}
	}

	s.Tasks.MarkCompleted(taskID)
	metrics.RecordTaskFinished("completed")

	if t, ok := s.Tasks.Get(taskID); ok {
		slog.Info("collection task completed",
			slog.String("task_id", taskID),
			slog.Int("sources", len(sources)),
			slog.Int("items_stored", t.ItemsStored))
	}
}

// resolveSources expands the task filter into a concrete source list,
// preserving registry order.
func (s *Service) resolveSources(ctx context.Context, in StartInput) ([]*entity.Source, error) {
	switch {
	case len(in.SourceIDs) > 0:
		active, err := s.Sources.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("list active sources: %w", err)
		}
		wanted := make(map[int64]bool, len(in.SourceIDs))
		for _, id := range in.SourceIDs {
			wanted[id] = true
		}
		var out []*entity.Source
		for _, src := range active {
			if wanted[src.ID] {
				out = append(out, src)
			}
		}
		return out, nil

	case len(in.ClientIDs) > 0:
		var out []*entity.Source
		for _, clientID := range in.ClientIDs {
			sources, err := s.Sources.ListActiveByClient(ctx, clientID)
			if err != nil {
				return nil, fmt.Errorf("list sources for client %d: %w", clientID, err)
			}
			out = append(out, sources...)
		}
		return out, nil

	default:
		sources, err := s.Sources.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("list active sources: %w", err)
		}
		return sources, nil
	}
}

// collectSource collects one source and returns the number of records
// actually stored. Failures are confined to this source: a panic or error
// here never aborts the surrounding task.
func (s *Service) collectSource(ctx context.Context, src *entity.Source, force bool) (stored int) {
	start := time.Now()

	ctx, span := tracing.GetTracer().Start(ctx, "collect.source",
		trace.WithAttributes(
			attribute.Int64("source.id", src.ID),
			attribute.String("source.type", string(src.Type))))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("source collection panicked",
				slog.Int64("source_id", src.ID),
				slog.String("source_name", src.Name),
				slog.Any("panic", r))
			stored = 0
		}
	}()

	if !force && s.collectedRecently(src) {
		slog.Info("skipping recently collected source",
			slog.Int64("source_id", src.ID),
			slog.String("source_name", src.Name),
			slog.Time("last_collected_at", *src.LastCollectedAt))
		metrics.RecordSourceSkipped()
		return 0
	}

	var records []*entity.ContentRecord
	switch src.Type {
	case entity.SourceFeed:
		records = s.Feeds.Extract(ctx, src.URL, s.MaxFeedItems)
	case entity.SourceBlog, entity.SourceNews:
		records = s.Articles.Collect(ctx, src.URL, s.MaxArticles)
	case entity.SourceVideo:
		slog.Warn("video sources are not supported, skipping",
			slog.Int64("source_id", src.ID),
			slog.String("source_name", src.Name))
	default:
		slog.Warn("unknown source type, skipping",
			slog.Int64("source_id", src.ID),
			slog.String("source_type", string(src.Type)))
	}

	for _, rec := range records {
		_, ok, err := s.Contents.SaveIfNew(ctx, rec, src.ID, src.ClientID)
		if err != nil {
			slog.Error("failed to save content record",
				slog.Int64("source_id", src.ID),
				slog.String("url", rec.URL),
				slog.Any("error", err))
			continue
		}
		if ok {
			stored++
		} else {
			metrics.RecordRecordDropped("duplicate")
		}
	}

	// The attempt finished without escaping; advance the watermark even
	// when nothing was stored. Detached from ctx so a cancelled caller
	// cannot leave the timestamp behind.
	touchCtx := context.WithoutCancel(ctx)
	if err := s.Sources.TouchCollectedAt(touchCtx, src.ID, time.Now()); err != nil {
		slog.Error("failed to update last collected timestamp",
			slog.Int64("source_id", src.ID),
			slog.Any("error", err))
	}

	metrics.RecordSourceCollected(string(src.Type), time.Since(start))
	metrics.RecordRecordsStored(src.Name, src.ID, stored)

	slog.Info("source collected",
		slog.Int64("source_id", src.ID),
		slog.String("source_name", src.Name),
		slog.Int("records", len(records)),
		slog.Int("stored", stored))

	return stored
}

// collectedRecently applies the freshness window for the source type.
func (s *Service) collectedRecently(src *entity.Source) bool {
	if src.LastCollectedAt == nil {
		return false
	}
	window := defaultFreshness
	if src.Type == entity.SourceFeed {
		window = feedFreshness
	}
	return time.Since(*src.LastCollectedAt) < window
}

// CollectURL collects a single ad hoc URL without persisting anything. It
// classifies the URL as feed-like by path heuristics and dispatches to the
// matching extractor with a one-item cap. The second return is false when no
// valid record could be extracted.
func (s *Service) CollectURL(ctx context.Context, rawURL string) (*entity.ContentRecord, bool) {
	if looksLikeFeed(rawURL) {
		records := s.Feeds.Extract(ctx, rawURL, 1)
		if len(records) == 0 {
			return nil, false
		}
		return records[0], true
	}
	return s.Articles.ExtractArticle(ctx, rawURL)
}

// TestSource probes a candidate source URL without persisting anything,
// for validation before the source is saved.
func (s *Service) TestSource(ctx context.Context, rawURL string, sourceType entity.SourceType) TestResult {
	switch sourceType {
	case entity.SourceFeed:
		info, ok := s.Feeds.FeedInfo(ctx, rawURL)
		if !ok {
			return TestResult{Message: "feed could not be fetched or parsed"}
		}
		var sample *entity.ContentRecord
		if records := s.Feeds.Extract(ctx, rawURL, 1); len(records) > 0 {
			sample = records[0]
		}
		return TestResult{
			Success:       true,
			Message:       fmt.Sprintf("feed parsed, %d entries", info.EntryCount),
			SampleContent: sample,
			FeedInfo:      info,
		}

	case entity.SourceBlog, entity.SourceNews:
		// The candidate may be a single article rather than a listing
		// page, so try direct extraction before link discovery.
		sample, ok := s.Articles.ExtractArticle(ctx, rawURL)
		if !ok {
			if records := s.Articles.Collect(ctx, rawURL, 1); len(records) > 0 {
				sample, ok = records[0], true
			}
		}
		if !ok {
			return TestResult{Message: "no extractable articles found"}
		}
		return TestResult{
			Success:       true,
			Message:       "article extracted",
			SampleContent: sample,
		}

	case entity.SourceVideo:
		return TestResult{Message: "video sources are not supported"}

	default:
		return TestResult{Message: fmt.Sprintf("unknown source type %q", sourceType)}
	}
}

// looksLikeFeed reports whether the URL path points at an RSS/Atom document.
func looksLikeFeed(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, marker := range []string{"/rss", "/feed", "/atom.xml", ".rss", ".xml"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
