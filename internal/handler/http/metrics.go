package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"content-collector/internal/observability/metrics"
)

// statusWriter wraps http.ResponseWriter to record the status code.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses task IDs so metric labels stay low-cardinality.
// Example: /collect/tasks/5f3a... -> /collect/tasks/:id
func normalizePath(path string) string {
	const prefix = "/collect/tasks/"
	if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
		return prefix + ":id"
	}
	return path
}

// MetricsMiddleware records request count and duration for every request.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(sw, r)
		duration := time.Since(start).Seconds()

		path := normalizePath(r.URL.Path)
		status := strconv.Itoa(sw.statusCode)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}
