package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveRequest("GET", 200, 0.01)
	m.ObserveRequest("GET", 200, 0.02)
	m.ObserveRequest("POST", 401, 0.01)
	m.ForcedLogout()
	m.Fetch("tasks")

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("GET", "200")); got != 2 {
		t.Fatalf("expected 2 GET/200, got %v", got)
	}
	if got := testutil.ToFloat64(m.ForcedLogouts); got != 1 {
		t.Fatalf("expected 1 forced logout, got %v", got)
	}
	if got := testutil.ToFloat64(m.Refetches.WithLabelValues("tasks")); got != 1 {
		t.Fatalf("expected 1 fetch, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", 200, 0)
	m.ForcedLogout()
	m.Fetch("tasks")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("expected 404 from nil metrics handler, got %d", rec.Code)
	}
}

func TestHandlerExposesNamespace(t *testing.T) {
	m := New()
	m.ForcedLogout()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "taskdesk_forced_logouts_total 1") {
		t.Fatalf("metrics output missing counter:\n%s", rec.Body.String())
	}
}
