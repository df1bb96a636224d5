package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	io_prometheus_client "github.com/prometheus/client_model/go"

	"content-collector/internal/observability/metrics"
)

func counterValue(t *testing.T, method, path, status string) float64 {
	t.Helper()
	c, err := metrics.HTTPRequestsTotal.GetMetricWithLabelValues(method, path, status)
	if err != nil {
		t.Fatalf("failed to get counter: %v", err)
	}
	m := &io_prometheus_client.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetricsMiddleware_CountsRequests(t *testing.T) {
	before := counterValue(t, "POST", "/collect/url", "400")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	req := httptest.NewRequest("POST", "/collect/url", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	after := counterValue(t, "POST", "/collect/url", "400")
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestMetricsMiddleware_DefaultsToOK(t *testing.T) {
	before := counterValue(t, "GET", "/collect/tasks", "200")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))

	req := httptest.NewRequest("GET", "/collect/tasks", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	after := counterValue(t, "GET", "/collect/tasks", "200")
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestMetricsMiddleware_NormalizesTaskIDs(t *testing.T) {
	before := counterValue(t, "GET", "/collect/tasks/:id", "404")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest("GET", "/collect/tasks/1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	after := counterValue(t, "GET", "/collect/tasks/:id", "404")
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/collect", "/collect"},
		{"/collect/tasks", "/collect/tasks"},
		{"/collect/tasks/", "/collect/tasks/"},
		{"/collect/tasks/abc-123", "/collect/tasks/:id"},
		{"/sources/test", "/sources/test"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
