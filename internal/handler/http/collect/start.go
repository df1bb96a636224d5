package collect

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"content-collector/internal/handler/http/respond"
	collectUC "content-collector/internal/usecase/collect"
)

type StartHandler struct{ Svc *collectUC.Service }

func (h StartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceIDs      []int64 `json:"sourceIds"`
		ClientIDs      []int64 `json:"clientIds"`
		ForceRecollect bool    `json:"forceRecollect"`
	}
	// An empty body means "collect everything".
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := h.Svc.StartTask(r.Context(), collectUC.StartInput{
		SourceIDs:      req.SourceIDs,
		ClientIDs:      req.ClientIDs,
		ForceRecollect: req.ForceRecollect,
	})
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusAccepted, map[string]string{"taskId": id})
}
