package httpmw

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/complog"
	"github.com/hyp3rd/complog/internal/constants"
)

func TestContextMiddleware(t *testing.T) {
	middleware := ContextMiddleware(WithIDGenerator(func() string { return "generated" }))

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "generated", TraceID(r.Context()))
		require.Equal(t, "generated", RequestID(r.Context()))
		require.Nil(t, r.Context().Value(constants.ComponentKey{}))
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.ServeHTTP(rr, req)
}

func TestContextMiddlewareHeaders(t *testing.T) {
	middleware := ContextMiddleware(WithGenerateMissingIDs(false), WithComponent("Net"))

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "trace", TraceID(r.Context()))
		require.Equal(t, "req", RequestID(r.Context()))
		require.Equal(t, "Net", r.Context().Value(constants.ComponentKey{}))
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-ID", "trace")
	req.Header.Set("X-Request-ID", "req")

	handler.ServeHTTP(rr, req)
}

func TestContextMiddlewareCustomHeadersWithoutGeneration(t *testing.T) {
	middleware := ContextMiddleware(
		WithTraceHeader("X-B3-TraceId"),
		WithRequestHeader("X-Correlation-ID"),
		WithGenerateMissingIDs(false),
	)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "b3", TraceID(r.Context()))
		require.Empty(t, RequestID(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-B3-TraceId", "b3")

	handler.ServeHTTP(httptest.NewRecorder(), req)
}

type logEntry struct {
	level   complog.Level
	tag     string
	message string
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Log(level complog.Level, tag, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, logEntry{level: level, tag: tag, message: message})
}

func steppingClock(step time.Duration) func() time.Time {
	var (
		mu  sync.Mutex
		now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	)

	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		current := now
		now = now.Add(step)

		return current
	}
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel complog.Level
	}{
		{name: "ok", status: http.StatusOK, wantLevel: complog.InfoLevel},
		{name: "implicit ok", status: 0, wantLevel: complog.InfoLevel},
		{name: "client error", status: http.StatusNotFound, wantLevel: complog.WarnLevel},
		{name: "server error", status: http.StatusBadGateway, wantLevel: complog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &recordingLogger{}

			handler := RequestLogger(logger, WithClock(steppingClock(15*time.Millisecond)))(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					if tt.status != 0 {
						w.WriteHeader(tt.status)
					}

					_, _ = w.Write([]byte("ok"))
				}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))

			status := tt.status
			if status == 0 {
				status = http.StatusOK
			}

			require.Len(t, logger.entries, 1)
			require.Equal(t, tt.wantLevel, logger.entries[0].level)
			require.Equal(t, "HTTP", logger.entries[0].tag)
			require.Equal(t, "GET /users "+strconv.Itoa(status)+" 15ms", logger.entries[0].message)
		})
	}
}

func TestRequestLoggerWithContextIDs(t *testing.T) {
	logger := &recordingLogger{}

	handler := ContextMiddleware(WithComponent("Net"), WithGenerateMissingIDs(false))(
		RequestLogger(logger, WithTag("API"), WithClock(steppingClock(time.Second)))(nil),
	)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("X-Trace-ID", "t-1")
	req.Header.Set("X-Request-ID", "r-1")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, logger.entries, 1)
	require.Equal(t, "API", logger.entries[0].tag)
	require.Equal(t, "POST /sync 200 1s component=Net request=r-1 trace_id=t-1", logger.entries[0].message)
}
