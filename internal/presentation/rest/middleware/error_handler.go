package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"checkout-relay/internal/domain/relay_request"
	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
)

const (
	workerErrorMessage   = "Worker Error"
	invalidActionMessage = "Invalid Action"
)

// ErrorResponse 中継処理が失敗した場合のレスポンス
type ErrorResponse struct {
	Message string `json:"message" example:"Worker Error"`
	Error   string `json:"error" example:"failed to create purchase: connection refused"`
}

// ErrorBoundaryMiddleware エラーとパニックをHTTPレスポンスに変換するミドルウェア
func ErrorBoundaryMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					panicErr, ok := r.(error)
					if !ok {
						panicErr = fmt.Errorf("%v", r)
					}
					err = handleError(c, fmt.Errorf("panic recovered: %w", panicErr), logger)
				}
			}()

			if err := next(c); err != nil {
				return handleError(c, err, logger)
			}
			return nil
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	if c.Response().Committed {
		logger.Error(ctx, "Error after response was committed", err, map[string]interface{}{
			"path": c.Request().URL.Path,
		})
		return nil
	}

	// 不正なアクション
	if errors.Is(err, relay_request.ErrInvalidAction) {
		logger.Warn(ctx, "Invalid action", map[string]interface{}{
			"error": err.Error(),
		})
		return c.String(http.StatusBadRequest, invalidActionMessage)
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message, ok := httpErr.Message.(string)
		if !ok || message == "" {
			message = http.StatusText(httpErr.Code)
		}
		return c.String(httpErr.Code, message)
	}

	// それ以外はすべて500
	logger.Error(ctx, "Worker error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: workerErrorMessage,
		Error:   err.Error(),
	})
}
