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

type feedInfoResponse struct {
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Language        string     `json:"language,omitempty"`
	EntryCount      int        `json:"entryCount"`
	MostRecentEntry *time.Time `json:"mostRecentEntry,omitempty"`
}

type TestSourceHandler struct{ Svc *collectUC.Service }

func (h TestSourceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL  string `json:"url"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.URL == "" || req.Type == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("url and type required"))
		return
	}
	if err := entity.ValidateURL(req.URL); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result := h.Svc.TestSource(r.Context(), req.URL, entity.SourceType(req.Type))

	resp := struct {
		Success       bool              `json:"success"`
		Message       string            `json:"message"`
		SampleContent *recordResponse   `json:"sampleContent,omitempty"`
		FeedInfo      *feedInfoResponse `json:"feedInfo,omitempty"`
	}{
		Success:       result.Success,
		Message:       result.Message,
		SampleContent: toRecordResponse(result.SampleContent),
	}
	if result.FeedInfo != nil {
		resp.FeedInfo = &feedInfoResponse{
			Title:           result.FeedInfo.Title,
			Description:     result.FeedInfo.Description,
			Language:        result.FeedInfo.Language,
			EntryCount:      result.FeedInfo.EntryCount,
			MostRecentEntry: result.FeedInfo.MostRecentEntry,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
