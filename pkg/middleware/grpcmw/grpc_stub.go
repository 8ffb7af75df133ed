//go:build !grpc

package grpcmw

import (
	"context"

	"github.com/hyp3rd/ewrap"
	"google.golang.org/grpc"

	"github.com/hyp3rd/complog"
)

// ErrGRPCNotEnabled is returned by every call when the package is built without
// the "grpc" tag.
var ErrGRPCNotEnabled = ewrap.New("grpc middleware requires build tag 'grpc'")

// UnaryServerInterceptor rejects every call. The rejection is logged at ERROR
// when a logger is configured.
func UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := actualOptions(opts...)

	return func(_ context.Context, _ any, info *grpc.UnaryServerInfo, _ grpc.UnaryHandler) (any, error) {
		if cfg.logger != nil {
			method := "unknown"
			if info != nil {
				method = info.FullMethod
			}

			cfg.logger.LogError(complog.ErrorLevel, cfg.tag, method+" rejected", ErrGRPCNotEnabled)
		}

		return nil, ErrGRPCNotEnabled
	}
}
