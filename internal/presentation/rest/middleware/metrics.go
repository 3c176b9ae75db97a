package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
)

// MetricsMiddleware メトリクス記録ミドルウェア
func MetricsMiddleware(metrics *otelinfra.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// 次のハンドラーを実行
			err := next(c)

			ctx := c.Request().Context()
			method := c.Request().Method
			path := c.Path()
			statusCode := c.Response().Status

			// リクエスト数とレスポンス時間（秒単位）を記録
			metrics.RecordRequest(ctx, method, path, statusCode)
			metrics.RecordResponseTime(ctx, method, path, time.Since(start).Seconds())

			// 4xx, 5xxの場合はエラー数を記録
			if err != nil || statusCode >= 400 {
				errorType := "client_error"
				if err != nil || statusCode >= 500 {
					errorType = "server_error"
				}
				metrics.RecordError(ctx, errorType)
			}

			return err
		}
	}
}
