package complog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDispatchMetricsExporter(t *testing.T) {
	exporter := NewDispatchMetricsExporter()

	exporter.Observe(context.Background(), DispatchMetrics{
		Submitted:  10,
		Completed:  8,
		Overflowed: 2,
		Panicked:   1,
		QueueDepth: 4,
		Backlog:    1,
		Pending:    2,
	})

	rec := httptest.NewRecorder()
	exporter.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()

	for _, metric := range []string{
		"complog_dispatch_submitted_total 10",
		"complog_dispatch_completed_total 8",
		"complog_dispatch_overflowed_total 2",
		"complog_dispatch_panicked_total 1",
		"complog_dispatch_queue_depth 4",
		"complog_dispatch_backlog 1",
		"complog_dispatch_pending 2",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected response to contain %q, got %q", metric, body)
		}
	}
}
