package collect

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"content-collector/internal/domain/entity"
	"content-collector/internal/handler/http/respond"
	collectUC "content-collector/internal/usecase/collect"
)

// recordResponse is the wire shape of a content record.
type recordResponse struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	BodyText    string     `json:"bodyText,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Tags        []string   `json:"tags"`
	Origin      string     `json:"origin"`
	WordCount   int        `json:"wordCount"`
	ReadingTime int        `json:"readingTime"`
}

func toRecordResponse(rec *entity.ContentRecord) *recordResponse {
	if rec == nil {
		return nil
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	return &recordResponse{
		Title:       rec.Title,
		URL:         rec.URL,
		BodyText:    rec.BodyText,
		Summary:     rec.Summary,
		Author:      rec.Author,
		PublishedAt: rec.PublishedAt,
		Tags:        tags,
		Origin:      string(rec.Origin),
		WordCount:   rec.WordCount,
		ReadingTime: rec.ReadingTime,
	}
}

type CollectURLHandler struct{ Svc *collectUC.Service }

func (h CollectURLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.URL == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("url required"))
		return
	}
	if err := entity.ValidateURL(req.URL); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	rec, ok := h.Svc.CollectURL(r.Context(), req.URL)
	if !ok {
		respond.SafeError(w, http.StatusNotFound, errors.New("no content found at url"))
		return
	}
	respond.JSON(w, http.StatusOK, toRecordResponse(rec))
}
