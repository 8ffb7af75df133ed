//go:build grpc

package grpcmw

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hyp3rd/complog"
	"github.com/hyp3rd/complog/internal/constants"
)

func TestUnaryServerInterceptorMetadataExtraction(t *testing.T) {
	t.Parallel()

	traceID := "trace-123"
	requestID := "request-456"

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		constants.TraceHeader, traceID,
		constants.RequestHeader, requestID,
	))

	interceptor := UnaryServerInterceptor()

	var capturedTrace, capturedRequest string

	handler := func(ctx context.Context, req any) (any, error) {
		traceValue, _ := ctx.Value(constants.TraceKey{}).(string)
		requestValue, _ := ctx.Value(constants.RequestKey{}).(string)

		capturedTrace = traceValue
		capturedRequest = requestValue

		return nil, nil
	}

	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{}, handler)
	require.NoError(t, err)
	require.Equal(t, traceID, capturedTrace)
	require.Equal(t, requestID, capturedRequest)
}

func TestUnaryServerInterceptorCustomKeys(t *testing.T) {
	t.Parallel()

	traceKey := "x-trace"
	requestKey := "x-request"

	traceID := "custom-trace"
	requestID := "custom-request"

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		traceKey, traceID,
		requestKey, requestID,
	))

	interceptor := UnaryServerInterceptor(
		WithTraceKey(traceKey),
		WithRequestKey(requestKey),
	)

	handler := func(ctx context.Context, req any) (any, error) {
		require.Equal(t, traceID, ctx.Value(constants.TraceKey{}))
		require.Equal(t, requestID, ctx.Value(constants.RequestKey{}))

		return nil, nil
	}

	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{}, handler)
	require.NoError(t, err)
}

type callEntry struct {
	level   complog.Level
	tag     string
	message string
	err     error
}

type recordingLogger struct {
	entries []callEntry
}

func (l *recordingLogger) LogError(level complog.Level, tag, message string, err error) {
	l.entries = append(l.entries, callEntry{level: level, tag: tag, message: message, err: err})
}

func TestUnaryServerInterceptorLogsCalls(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	interceptor := UnaryServerInterceptor(WithLogger(logger), WithTag("Sync"))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(constants.TraceHeader, "t-1"))
	info := &grpc.UnaryServerInfo{FullMethod: "/sync.v1.Sync/Pull"}

	resp, err := interceptor(ctx, "req", info, func(context.Context, any) (any, error) {
		return "resp", nil
	})
	require.NoError(t, err)
	require.Equal(t, "resp", resp)

	failure := status.Error(codes.Unavailable, "backend down")

	_, err = interceptor(ctx, "req", info, func(context.Context, any) (any, error) {
		return nil, failure
	})
	require.ErrorIs(t, err, failure)

	require.Len(t, logger.entries, 2)

	require.Equal(t, complog.InfoLevel, logger.entries[0].level)
	require.Equal(t, "Sync", logger.entries[0].tag)
	require.True(t, strings.HasPrefix(logger.entries[0].message, "/sync.v1.Sync/Pull OK "))
	require.True(t, strings.HasSuffix(logger.entries[0].message, " trace_id=t-1"))
	require.NoError(t, logger.entries[0].err)

	require.Equal(t, complog.ErrorLevel, logger.entries[1].level)
	require.True(t, strings.HasPrefix(logger.entries[1].message, "/sync.v1.Sync/Pull Unavailable "))
	require.ErrorIs(t, logger.entries[1].err, failure)
}
