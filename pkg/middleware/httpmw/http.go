// Package httpmw provides net/http middleware that tags requests with trace and
// request identifiers and logs them through a component logger.
package httpmw

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hyp3rd/complog/internal/constants"
)

// Option configures the behaviour of the ContextMiddleware.
type Option func(*options)

type options struct {
	traceHeader    string
	requestHeader  string
	component      string
	idGenerator    func() string
	generateIfMiss bool
}

// WithTraceHeader configures the header used to populate the trace id.
func WithTraceHeader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.traceHeader = name
		}
	}
}

// WithRequestHeader configures the header used to populate the request id.
func WithRequestHeader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.requestHeader = name
		}
	}
}

// WithComponent stores the name of the component serving the request in the context.
func WithComponent(name string) Option {
	return func(o *options) {
		o.component = name
	}
}

// WithIDGenerator provides a custom generator used when headers are missing.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.idGenerator = fn
		}
	}
}

// WithGenerateMissingIDs instructs the middleware to create ids when headers are absent.
func WithGenerateMissingIDs(enable bool) Option {
	return func(o *options) {
		o.generateIfMiss = enable
	}
}

// ContextMiddleware enriches the request context with the identifiers RequestLogger reports.
func ContextMiddleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := options{
		traceHeader:    constants.TraceHeader,
		requestHeader:  constants.RequestHeader,
		idGenerator:    uuid.NewString,
		generateIfMiss: true,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if traceID := r.Header.Get(cfg.traceHeader); traceID != "" {
				ctx = contextWithValue(ctx, constants.TraceKey{}, traceID)
			} else if cfg.generateIfMiss {
				ctx = contextWithValue(ctx, constants.TraceKey{}, cfg.idGenerator())
			}

			if reqID := r.Header.Get(cfg.requestHeader); reqID != "" {
				ctx = contextWithValue(ctx, constants.RequestKey{}, reqID)
			} else if cfg.generateIfMiss {
				ctx = contextWithValue(ctx, constants.RequestKey{}, cfg.idGenerator())
			}

			ctx = contextWithValue(ctx, constants.ComponentKey{}, cfg.component)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TraceID returns the trace identifier stored by ContextMiddleware.
func TraceID(ctx context.Context) string {
	value, _ := ctx.Value(constants.TraceKey{}).(string)

	return value
}

// RequestID returns the request identifier stored by ContextMiddleware.
func RequestID(ctx context.Context) string {
	value, _ := ctx.Value(constants.RequestKey{}).(string)

	return value
}

func contextWithValue(ctx context.Context, key any, value string) context.Context {
	if value == "" {
		return ctx
	}

	return context.WithValue(ctx, key, value)
}
