package complog

import (
	"context"
	"sync"

	"github.com/hyp3rd/complog/internal/constants"
)

// DispatchMetrics represents health metrics emitted by the file-write dispatcher.
type DispatchMetrics struct {
	// Submitted counts tasks accepted by the dispatcher.
	Submitted uint64
	// Completed counts tasks that finished, including the ones that panicked.
	Completed uint64
	// Overflowed counts tasks that spilled into the backlog because the queue was full.
	Overflowed uint64
	// Panicked counts tasks that panicked.
	Panicked uint64
	// QueueDepth is the number of tasks waiting in the queue.
	QueueDepth int
	// Backlog is the number of tasks waiting in the overflow backlog.
	Backlog int
	// Pending is the number of submitted tasks not yet completed.
	Pending int64
}

// DispatchMetricsHandler receives dispatcher metrics.
type DispatchMetricsHandler func(context.Context, DispatchMetrics)

//nolint:gochecknoglobals // dispatch metrics use a package-level registry for global handlers.
var dispatchMetricsRegistryOnce = sync.OnceValue(func() *dispatchMetricsHandlerRegistry {
	return &dispatchMetricsHandlerRegistry{}
})

// RegisterDispatchMetricsHandler adds a global handler invoked when dispatcher metrics are emitted.
func RegisterDispatchMetricsHandler(handler DispatchMetricsHandler) {
	if handler == nil {
		return
	}

	dispatchMetricsRegistryOnce().register(handler)
}

// ClearDispatchMetricsHandlers removes all registered dispatcher metrics handlers.
func ClearDispatchMetricsHandlers() {
	dispatchMetricsRegistryOnce().reset()
}

// EmitDispatchMetrics notifies global handlers with the provided metrics snapshot.
func EmitDispatchMetrics(ctx context.Context, metrics DispatchMetrics) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	dispatchMetricsRegistryOnce().emit(ctx, metrics)
}

type dispatchMetricsHandlerRegistry struct {
	mu       sync.RWMutex
	handlers []DispatchMetricsHandler
}

func (r *dispatchMetricsHandlerRegistry) register(handler DispatchMetricsHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = append(r.handlers, handler)
}

func (r *dispatchMetricsHandlerRegistry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = nil
}

func (r *dispatchMetricsHandlerRegistry) emit(ctx context.Context, metrics DispatchMetrics) {
	handlers := r.snapshot()
	for _, handler := range handlers {
		handler(ctx, metrics)
	}
}

func (r *dispatchMetricsHandlerRegistry) snapshot() []DispatchMetricsHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.handlers) == 0 {
		return nil
	}

	clone := make([]DispatchMetricsHandler, len(r.handlers))
	copy(clone, r.handlers)

	return clone
}
