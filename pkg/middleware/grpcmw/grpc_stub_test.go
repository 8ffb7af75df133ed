//go:build !grpc

package grpcmw

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/hyp3rd/complog"
)

type stubLogger struct {
	level   complog.Level
	tag     string
	message string
	err     error
}

func (l *stubLogger) LogError(level complog.Level, tag, message string, err error) {
	l.level, l.tag, l.message, l.err = level, tag, message, err
}

func TestUnaryServerInterceptorStub(t *testing.T) {
	interceptor := UnaryServerInterceptor(WithTag("Sync"))

	_, err := interceptor(context.Background(), nil, nil, nil)
	require.ErrorIs(t, err, ErrGRPCNotEnabled)
}

func TestUnaryServerInterceptorStubLogsRejection(t *testing.T) {
	logger := &stubLogger{}
	interceptor := UnaryServerInterceptor(WithLogger(logger))

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/sync.Sync/Push"}, nil)
	require.ErrorIs(t, err, ErrGRPCNotEnabled)

	assert.Equal(t, complog.ErrorLevel, logger.level)
	assert.Equal(t, "gRPC", logger.tag)
	assert.Equal(t, "/sync.Sync/Push rejected", logger.message)
	assert.ErrorIs(t, logger.err, ErrGRPCNotEnabled)
}
