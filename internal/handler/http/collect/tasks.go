package collect

import (
	"errors"
	"net/http"
	"time"

	"content-collector/internal/domain/entity"
	"content-collector/internal/handler/http/respond"
	collectUC "content-collector/internal/usecase/collect"
)

// taskResponse is the wire shape of a collection task.
type taskResponse struct {
	TaskID       string     `json:"taskId"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ItemsStored  int        `json:"itemsStored"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

func toTaskResponse(t entity.CollectionTask) taskResponse {
	return taskResponse{
		TaskID:       t.ID,
		Status:       string(t.Status),
		StartedAt:    t.StartedAt,
		CompletedAt:  t.CompletedAt,
		ItemsStored:  t.ItemsStored,
		ErrorMessage: t.ErrorMessage,
	}
}

type TaskListHandler struct{ Svc *collectUC.Service }

func (h TaskListHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	tasks := h.Svc.AllTasks()
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	respond.JSON(w, http.StatusOK, out)
}

type TaskStatusHandler struct{ Svc *collectUC.Service }

func (h TaskStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, ok := h.Svc.Status(id)
	if !ok {
		respond.SafeError(w, http.StatusNotFound, errors.New("task not found"))
		return
	}
	respond.JSON(w, http.StatusOK, toTaskResponse(task))
}
