// Package collect exposes the collection orchestrator over HTTP.
package collect

import (
	"net/http"

	collectUC "content-collector/internal/usecase/collect"
)

// Register registers all collection HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc *collectUC.Service) {
	mux.Handle("POST /collect", StartHandler{svc})
	mux.Handle("GET /collect/tasks", TaskListHandler{svc})
	mux.Handle("GET /collect/tasks/{id}", TaskStatusHandler{svc})
	mux.Handle("POST /collect/url", CollectURLHandler{svc})
	mux.Handle("POST /sources/test", TestSourceHandler{svc})
}
