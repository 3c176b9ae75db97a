package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
)

// BearerSecretMiddleware POSTリクエストに共有シークレットのBearerトークンを要求するミドルウェア
//
// secretが空の場合は何もしない。
func BearerSecretMiddleware(secret string, logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if secret == "" {
			return next
		}
		expected := []byte(secret)

		return func(c echo.Context) error {
			if c.Request().Method != http.MethodPost {
				return next(c)
			}

			ctx := c.Request().Context()

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				logger.Warn(ctx, "Missing bearer token", nil)
				return c.String(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
			}

			if subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
				logger.Warn(ctx, "Invalid bearer token", nil)
				return c.String(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
			}

			return next(c)
		}
	}
}
