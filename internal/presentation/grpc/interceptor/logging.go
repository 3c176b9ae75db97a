package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
)

// LoggingInterceptor 単項RPCの呼び出し結果をログに記録するインターセプター
func LoggingInterceptor(logger *otelinfra.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := map[string]interface{}{
			"method":      info.FullMethod,
			"code":        status.Code(err).String(),
			"duration_ms": time.Since(start).Milliseconds(),
		}

		if err != nil && status.Code(err) != codes.NotFound {
			logger.Error(ctx, "gRPC request failed", err, fields)
		} else {
			logger.Debug(ctx, "gRPC request completed", fields)
		}

		return resp, err
	}
}
