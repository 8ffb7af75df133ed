//go:build grpc

package grpcmw

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hyp3rd/complog"
	"github.com/hyp3rd/complog/internal/constants"
)

// UnaryServerInterceptor enriches the gRPC context with metadata values and, when
// a logger is configured, logs "<method> <code> <latency>" for every call.
func UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := actualOptions(opts...)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(cfg.traceKey); len(values) > 0 {
				ctx = context.WithValue(ctx, constants.TraceKey{}, values[0])
			}

			if values := md.Get(cfg.requestKey); len(values) > 0 {
				ctx = context.WithValue(ctx, constants.RequestKey{}, values[0])
			}
		}

		if cfg.logger == nil {
			return handler(ctx, req)
		}

		start := time.Now()
		resp, err := handler(ctx, req)

		logCall(ctx, cfg, info, time.Since(start), err)

		return resp, err
	}
}

func logCall(ctx context.Context, cfg options, info *grpc.UnaryServerInfo, latency time.Duration, err error) {
	method := "unknown"
	if info != nil && info.FullMethod != "" {
		method = info.FullMethod
	}

	var builder strings.Builder

	builder.WriteString(method)
	builder.WriteByte(' ')
	builder.WriteString(status.Code(err).String())
	builder.WriteByte(' ')
	builder.WriteString(latency.String())

	if traceID, ok := ctx.Value(constants.TraceKey{}).(string); ok {
		builder.WriteString(" trace_id=")
		builder.WriteString(traceID)
	}

	if requestID, ok := ctx.Value(constants.RequestKey{}).(string); ok {
		builder.WriteString(" request=")
		builder.WriteString(requestID)
	}

	level := complog.InfoLevel
	if err != nil {
		level = complog.ErrorLevel
	}

	cfg.logger.LogError(level, cfg.tag, builder.String(), err)
}
