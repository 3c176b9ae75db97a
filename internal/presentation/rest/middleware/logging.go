package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
)

// LoggingMiddleware ログミドルウェア
func LoggingMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			// リクエスト情報をログに記録
			logger.Debug(req.Context(), "HTTP request started", map[string]interface{}{
				"request_id":  requestID,
				"method":      req.Method,
				"path":        req.URL.Path,
				"remote_addr": req.RemoteAddr,
				"user_agent":  req.UserAgent(),
			})

			// 次のハンドラーを実行
			err := next(c)

			// レスポンス情報をログに記録
			duration := time.Since(start)
			fields := map[string]interface{}{
				"request_id":  requestID,
				"method":      req.Method,
				"path":        req.URL.Path,
				"status_code": c.Response().Status,
				"bytes_out":   c.Response().Size,
				"duration_ms": duration.Milliseconds(),
			}

			// トレーシングで差し替えられたコンテキストを使う
			ctx := c.Request().Context()
			switch {
			case err != nil:
				logger.Error(ctx, "HTTP request failed", err, fields)
			case c.Response().Status >= 500:
				logger.Warn(ctx, "HTTP request completed with server error", fields)
			default:
				logger.Info(ctx, "HTTP request completed", fields)
			}

			return err
		}
	}
}
