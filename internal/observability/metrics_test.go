package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsAggregateCounters(t *testing.T) {
	m := New()
	m.ObserveAggregateOperation("Catalog.LessonOrder.ReorderLessons", "success", 5*time.Millisecond)
	m.ObserveAggregateOperation("Catalog.LessonOrder.ReorderLessons", "conflict", time.Millisecond)
	m.IncAggregateConflict("Catalog.LessonOrder.ReorderLessons")

	if got := testutil.ToFloat64(m.aggregateOps.WithLabelValues("Catalog.LessonOrder.ReorderLessons", "success")); got != 1 {
		t.Fatalf("success ops: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.aggregateConflicts.WithLabelValues("Catalog.LessonOrder.ReorderLessons")); got != 1 {
		t.Fatalf("conflicts: want=1 got=%v", got)
	}
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncAggregateConflict("op")
	m.IncAggregateTransient("op")
	m.IncEventPublished("lesson.completed", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler status: want=503 got=%d", rec.Code)
	}
}

func TestMetricsHandlerExposesAPIRequests(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/courses", "200", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `cb_api_requests_total{method="GET",route="/api/courses",status="200"} 1`) {
		t.Fatalf("exposition missing api counter:\n%s", rec.Body.String())
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc , broken, =x, team=core ")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "core" {
		t.Fatalf("ParseHeaders: %v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty headers should be nil")
	}
}
