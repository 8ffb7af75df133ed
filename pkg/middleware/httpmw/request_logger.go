package httpmw

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hyp3rd/complog"
	"github.com/hyp3rd/complog/internal/constants"
)

const defaultTag = "HTTP"

// Logger is the part of a component logger the request logger writes to.
type Logger interface {
	Log(level complog.Level, tag, message string)
}

// LogOption configures RequestLogger.
type LogOption func(*logOptions)

type logOptions struct {
	tag   string
	clock func() time.Time
}

// WithTag sets the tag of request lines. It defaults to "HTTP".
func WithTag(tag string) LogOption {
	return func(o *logOptions) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// WithClock overrides the clock used to measure latency.
func WithClock(clock func() time.Time) LogOption {
	return func(o *logOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	if rw.status == 0 {
		rw.status = statusCode
	}

	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}

	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}

	return rw.status
}

// RequestLogger logs one line per request through logger:
// "<method> <path> <status> <latency>" followed by the identifiers found in the
// request context. Server errors log at ERROR, client errors at WARN and the
// rest at INFO.
func RequestLogger(logger Logger, opts ...LogOption) func(http.Handler) http.Handler {
	cfg := logOptions{tag: defaultTag, clock: time.Now}

	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w}
			start := cfg.clock()

			next.ServeHTTP(recorder, r)

			latency := cfg.clock().Sub(start)
			status := recorder.Status()

			var builder strings.Builder

			builder.WriteString(r.Method)
			builder.WriteByte(' ')
			builder.WriteString(r.URL.Path)
			builder.WriteByte(' ')
			builder.WriteString(strconv.Itoa(status))
			builder.WriteByte(' ')
			builder.WriteString(latency.String())
			writeContextFields(&builder, r.Context())

			logger.Log(statusLevel(status), cfg.tag, builder.String())
		})
	}
}

func statusLevel(status int) complog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return complog.ErrorLevel
	case status >= http.StatusBadRequest:
		return complog.WarnLevel
	default:
		return complog.InfoLevel
	}
}

// writeContextFields appends " name=value" for every identifier stored in ctx,
// ordered by name.
func writeContextFields(builder *strings.Builder, ctx context.Context) {
	keys := constants.ContextKeyMap()

	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		value, ok := ctx.Value(keys[name]).(string)
		if !ok || value == "" {
			continue
		}

		builder.WriteByte(' ')
		builder.WriteString(name)
		builder.WriteByte('=')
		builder.WriteString(value)
	}
}
