package complog

import (
	"context"
	"testing"
)

func TestRegisterDispatchMetricsHandler(t *testing.T) {
	ClearDispatchMetricsHandlers()
	t.Cleanup(ClearDispatchMetricsHandlers)

	var got DispatchMetrics

	RegisterDispatchMetricsHandler(func(ctx context.Context, metrics DispatchMetrics) {
		got = metrics
	})
	RegisterDispatchMetricsHandler(nil)

	EmitDispatchMetrics(context.Background(), DispatchMetrics{Submitted: 3})

	if got.Submitted != 3 {
		t.Fatalf("expected registered handler to be invoked, got %+v", got)
	}
}
