package collect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-collector/internal/domain/entity"
	collectUC "content-collector/internal/usecase/collect"
)

type stubSourceRepo struct{ sources []*entity.Source }

func (r *stubSourceRepo) Get(_ context.Context, id int64) (*entity.Source, error) {
	for _, s := range r.sources {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *stubSourceRepo) ListActive(_ context.Context) ([]*entity.Source, error) {
	return r.sources, nil
}

func (r *stubSourceRepo) ListActiveByClient(_ context.Context, clientID int64) ([]*entity.Source, error) {
	var out []*entity.Source
	for _, s := range r.sources {
		if s.ClientID == clientID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSourceRepo) TouchCollectedAt(_ context.Context, _ int64, _ time.Time) error {
	return nil
}

type stubContentRepo struct{}

func (r *stubContentRepo) SaveIfNew(_ context.Context, _ *entity.ContentRecord, _, _ int64) (int64, bool, error) {
	return 1, true, nil
}

func (r *stubContentRepo) ExistsByURL(_ context.Context, _ string) (bool, error) {
	return false, nil
}

type stubFeedCollector struct {
	records []*entity.ContentRecord
	info    *collectUC.FeedInfo
}

func (f *stubFeedCollector) Extract(_ context.Context, _ string, maxItems int) []*entity.ContentRecord {
	if maxItems > 0 && len(f.records) > maxItems {
		return f.records[:maxItems]
	}
	return f.records
}

func (f *stubFeedCollector) FeedInfo(_ context.Context, _ string) (*collectUC.FeedInfo, bool) {
	return f.info, f.info != nil
}

type stubArticleCollector struct {
	records []*entity.ContentRecord
}

func (a *stubArticleCollector) Collect(_ context.Context, _ string, maxArticles int) []*entity.ContentRecord {
	if maxArticles > 0 && len(a.records) > maxArticles {
		return a.records[:maxArticles]
	}
	return a.records
}

func (a *stubArticleCollector) ExtractArticle(_ context.Context, _ string) (*entity.ContentRecord, bool) {
	if len(a.records) == 0 {
		return nil, false
	}
	return a.records[0], true
}

func testRecord() *entity.ContentRecord {
	return &entity.ContentRecord{
		Title:       "Sample Article",
		URL:         "https://example.com/posts/sample",
		BodyText:    "sample body",
		Origin:      entity.OriginArticle,
		WordCount:   2,
		ReadingTime: 1,
	}
}

func newHandlerMux(feeds *stubFeedCollector, articles *stubArticleCollector) (*http.ServeMux, *collectUC.Service) {
	if feeds == nil {
		feeds = &stubFeedCollector{}
	}
	if articles == nil {
		articles = &stubArticleCollector{}
	}
	svc := collectUC.NewService(
		&stubSourceRepo{}, &stubContentRepo{}, feeds, articles,
		collectUC.NewTaskStore(), 0, 50, 20,
	)
	mux := http.NewServeMux()
	Register(mux, svc)
	return mux, svc
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestStartHandler(t *testing.T) {
	mux, svc := newHandlerMux(nil, nil)

	rec := doJSON(t, mux, http.MethodPost, "/collect", `{"forceRecollect": true}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotEmpty(t, body["taskId"])

	// The task exists in the store right away.
	_, ok := svc.Status(body["taskId"])
	assert.True(t, ok)
}

func TestStartHandler_EmptyBodyMeansEverything(t *testing.T) {
	mux, _ := newHandlerMux(nil, nil)

	rec := doJSON(t, mux, http.MethodPost, "/collect", "")

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestStartHandler_MalformedBody(t *testing.T) {
	mux, _ := newHandlerMux(nil, nil)

	rec := doJSON(t, mux, http.MethodPost, "/collect", `{"sourceIds": "not-an-array"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskStatusHandler(t *testing.T) {
	mux, svc := newHandlerMux(nil, nil)

	id, err := svc.StartTask(context.Background(), collectUC.StartInput{})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		task, ok := svc.Status(id)
		return ok && task.Status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	rec := doJSON(t, mux, http.MethodGet, "/collect/tasks/"+id, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, id, body["taskId"])
	// The stub repo has no sources, so the run ends in an error state.
	assert.Equal(t, string(entity.TaskError), body["status"])
	assert.NotEmpty(t, body["errorMessage"])
}

func TestTaskStatusHandler_NotFound(t *testing.T) {
	mux, _ := newHandlerMux(nil, nil)

	rec := doJSON(t, mux, http.MethodGet, "/collect/tasks/nope", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "task not found", body["error"])
}

func TestTaskListHandler(t *testing.T) {
	mux, svc := newHandlerMux(nil, nil)

	t.Run("empty list is a JSON array", func(t *testing.T) {
		rec := doJSON(t, mux, http.MethodGet, "/collect/tasks", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("lists known tasks", func(t *testing.T) {
		_, err := svc.StartTask(context.Background(), collectUC.StartInput{})
		require.NoError(t, err)
		_, err = svc.StartTask(context.Background(), collectUC.StartInput{})
		require.NoError(t, err)

		rec := doJSON(t, mux, http.MethodGet, "/collect/tasks", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body []map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Len(t, body, 2)
	})
}

func TestCollectURLHandler(t *testing.T) {
	articles := &stubArticleCollector{records: []*entity.ContentRecord{testRecord()}}
	mux, _ := newHandlerMux(nil, articles)

	rec := doJSON(t, mux, http.MethodPost, "/collect/url", `{"url": "https://example.com/article/1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Sample Article", body["title"])
	assert.Equal(t, "article", body["origin"])
	// Tags serialize as an empty array, never null.
	assert.Equal(t, []any{}, body["tags"])
}

func TestCollectURLHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "missing url",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid scheme",
			body:       `{"url": "ftp://example.com/file"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no content found",
			body:       `{"url": "https://example.com/article/404"}`,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := newHandlerMux(nil, nil)
			rec := doJSON(t, mux, http.MethodPost, "/collect/url", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestTestSourceHandler_Feed(t *testing.T) {
	feeds := &stubFeedCollector{
		records: []*entity.ContentRecord{testRecord()},
		info:    &collectUC.FeedInfo{Title: "A Feed", EntryCount: 3},
	}
	mux, _ := newHandlerMux(feeds, nil)

	rec := doJSON(t, mux, http.MethodPost, "/sources/test", `{"url": "https://example.com/rss", "type": "feed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success       bool            `json:"success"`
		Message       string          `json:"message"`
		SampleContent *map[string]any `json:"sampleContent"`
		FeedInfo      *map[string]any `json:"feedInfo"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	require.NotNil(t, body.FeedInfo)
	assert.Equal(t, "A Feed", (*body.FeedInfo)["title"])
	require.NotNil(t, body.SampleContent)
	assert.Equal(t, "Sample Article", (*body.SampleContent)["title"])
}

func TestTestSourceHandler_Video(t *testing.T) {
	mux, _ := newHandlerMux(nil, nil)

	rec := doJSON(t, mux, http.MethodPost, "/sources/test", `{"url": "https://example.com/channel", "type": "video"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "not supported")
}

func TestTestSourceHandler_MissingFields(t *testing.T) {
	mux, _ := newHandlerMux(nil, nil)

	rec := doJSON(t, mux, http.MethodPost, "/sources/test", `{"url": "https://example.com/rss"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
