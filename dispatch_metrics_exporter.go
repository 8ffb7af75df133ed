package complog

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
)

// DispatchMetricsExporter exposes dispatcher metrics via a Prometheus-style HTTP handler.
// Register the Observe method using RegisterDispatchMetricsHandler to begin collecting data.
type DispatchMetricsExporter struct {
	submitted  atomic.Uint64
	completed  atomic.Uint64
	overflowed atomic.Uint64
	panicked   atomic.Uint64
	queueDepth atomic.Int64
	backlog    atomic.Int64
	pending    atomic.Int64
}

// NewDispatchMetricsExporter creates a new exporter instance.
func NewDispatchMetricsExporter() *DispatchMetricsExporter {
	return &DispatchMetricsExporter{}
}

// Observe can be registered with RegisterDispatchMetricsHandler to record metrics snapshots.
func (e *DispatchMetricsExporter) Observe(_ context.Context, metrics DispatchMetrics) {
	e.submitted.Store(metrics.Submitted)
	e.completed.Store(metrics.Completed)
	e.overflowed.Store(metrics.Overflowed)
	e.panicked.Store(metrics.Panicked)
	e.queueDepth.Store(int64(metrics.QueueDepth))
	e.backlog.Store(int64(metrics.Backlog))
	e.pending.Store(metrics.Pending)
}

// ServeHTTP renders the metrics using Prometheus exposition format.
func (e *DispatchMetricsExporter) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "complog_dispatch_submitted_total", "Total file-write tasks submitted", "counter", int64(e.submitted.Load()))
	writeMetric(w, "complog_dispatch_completed_total", "Total file-write tasks completed", "counter", int64(e.completed.Load()))
	writeMetric(w, "complog_dispatch_overflowed_total", "Total file-write tasks spilled to the backlog", "counter", int64(e.overflowed.Load()))
	writeMetric(w, "complog_dispatch_panicked_total", "Total file-write tasks that panicked", "counter", int64(e.panicked.Load()))
	writeMetric(w, "complog_dispatch_queue_depth", "Current dispatcher queue depth", "gauge", e.queueDepth.Load())
	writeMetric(w, "complog_dispatch_backlog", "Current dispatcher backlog length", "gauge", e.backlog.Load())
	writeMetric(w, "complog_dispatch_pending", "File-write tasks submitted but not completed", "gauge", e.pending.Load())
}

func writeMetric(w http.ResponseWriter, name, help, kind string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	fmt.Fprintf(w, "%s %d\n", name, value)
}
