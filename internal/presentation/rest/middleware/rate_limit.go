package middleware

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
)

// RateLimitMiddleware クライアントIPごとのトークンバケットでPOSTを制限するミドルウェア
//
// クライアントIPはclientIPHeaderの値、なければ接続元アドレスを使う。
func RateLimitMiddleware(rps float64, burst int, clientIPHeader string, logger *otelinfra.Logger) echo.MiddlewareFunc {
	if burst <= 0 {
		burst = int(math.Max(1, math.Ceil(rps)))
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodOptions
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return clientIdentifier(c, clientIPHeader), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.String(http.StatusForbidden, http.StatusText(http.StatusForbidden))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.Warn(c.Request().Context(), "Rate limit exceeded", map[string]interface{}{
				"client": identifier,
			})
			return c.String(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		},
	})
}

func clientIdentifier(c echo.Context, clientIPHeader string) string {
	if clientIPHeader != "" {
		if ip := c.Request().Header.Get(clientIPHeader); ip != "" {
			return ip
		}
	}
	return c.RealIP()
}
