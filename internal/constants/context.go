package constants

const (
	// TraceHeader carries the trace identifier on HTTP requests; lowercased, it is
	// the gRPC metadata key.
	TraceHeader = "X-Trace-ID"
	// RequestHeader carries the request identifier.
	RequestHeader = "X-Request-ID"
)

type (
	// ComponentKey is the context key for the component field.
	ComponentKey struct{}
	// RequestKey is the context key for the request field.
	RequestKey struct{}
	// TraceKey is the context key for the trace field.
	TraceKey struct{}
)

// ContextKeys returns the context keys the middleware packages populate, in the
// order they are rendered on log lines.
func ContextKeys() []any {
	return []any{
		ComponentKey{},
		RequestKey{},
		TraceKey{},
	}
}

// ContextKeyMap returns the context keys indexed by the name used on log lines.
func ContextKeyMap() map[string]any {
	return map[string]any{
		"component": ComponentKey{},
		"request":   RequestKey{},
		"trace_id":  TraceKey{},
	}
}
