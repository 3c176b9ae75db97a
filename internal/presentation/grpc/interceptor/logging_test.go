package interceptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
)

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		handleErr error
		wantLevel string
		wantMsg   string
		wantCode  string
	}{
		{
			name:      "正常系: 成功はDebugで記録",
			wantLevel: "debug",
			wantMsg:   "gRPC request completed",
			wantCode:  "OK",
		},
		{
			name:      "正常系: NotFoundはエラー扱いしない",
			handleErr: status.Error(codes.NotFound, "unknown service"),
			wantLevel: "debug",
			wantMsg:   "gRPC request completed",
			wantCode:  "NotFound",
		},
		{
			name:      "異常系: 失敗はErrorで記録",
			handleErr: status.Error(codes.Internal, "boom"),
			wantLevel: "error",
			wantMsg:   "gRPC request failed",
			wantCode:  "Internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			logger := otelinfra.NewLoggerWithCore(core)

			icpt := LoggingInterceptor(logger)
			info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				if tt.handleErr != nil {
					return nil, tt.handleErr
				}
				return "ok", nil
			}

			resp, err := icpt(context.Background(), "req", info, handler)
			assert.ErrorIs(t, err, tt.handleErr)
			if tt.handleErr == nil {
				assert.Equal(t, "ok", resp)
			}

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level.String())
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			fields := entries[0].ContextMap()
			assert.Equal(t, "/grpc.health.v1.Health/Check", fields["method"])
			assert.Equal(t, tt.wantCode, fields["code"])
		})
	}
}
