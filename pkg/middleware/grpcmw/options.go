// Package grpcmw provides a gRPC unary interceptor that tags requests with trace
// and request identifiers and logs each call through a component logger.
// The interceptor is compiled with the "grpc" build tag; without it a stub that
// rejects every call is provided.
package grpcmw

import (
	"strings"

	"github.com/hyp3rd/complog"
	"github.com/hyp3rd/complog/internal/constants"
)

const defaultTag = "gRPC"

// Logger is the part of a component logger the interceptor writes to.
type Logger interface {
	LogError(level complog.Level, tag, message string, err error)
}

// Option defines a configuration option for the gRPC middleware.
type Option func(*options)

type options struct {
	traceKey   string
	requestKey string
	logger     Logger
	tag        string
}

// WithTraceKey customizes the metadata key used to populate the trace identifier.
func WithTraceKey(name string) Option {
	return func(o *options) {
		if o == nil || name == "" {
			return
		}

		o.traceKey = name
	}
}

// WithRequestKey customizes the metadata key used to populate the request identifier.
func WithRequestKey(name string) Option {
	return func(o *options) {
		if o == nil || name == "" {
			return
		}

		o.requestKey = name
	}
}

// WithLogger logs every call through logger: failed calls at ERROR, the rest at INFO.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if o == nil {
			return
		}

		o.logger = logger
	}
}

// WithTag sets the tag of call lines. It defaults to "gRPC".
func WithTag(tag string) Option {
	return func(o *options) {
		if o == nil || tag == "" {
			return
		}

		o.tag = tag
	}
}

func actualOptions(opts ...Option) options {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.traceKey == "" {
		cfg.traceKey = strings.ToLower(constants.TraceHeader)
	}

	if cfg.requestKey == "" {
		cfg.requestKey = strings.ToLower(constants.RequestHeader)
	}

	if cfg.tag == "" {
		cfg.tag = defaultTag
	}

	return cfg
}
