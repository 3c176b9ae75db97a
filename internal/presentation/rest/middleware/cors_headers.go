package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSHeadersMiddleware すべてのレスポンスにCORSヘッダーを付与するミドルウェア
//
// プリフライトへの応答は中継ハンドラーが行う。
func CORSHeadersMiddleware(allowAuthorization bool) echo.MiddlewareFunc {
	allowHeaders := []string{echo.HeaderContentType}
	if allowAuthorization {
		allowHeaders = append(allowHeaders, echo.HeaderAuthorization)
	}
	allowHeadersValue := strings.Join(allowHeaders, ", ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			h.Set(echo.HeaderAccessControlAllowMethods, "POST, OPTIONS")
			h.Set(echo.HeaderAccessControlAllowHeaders, allowHeadersValue)
			return next(c)
		}
	}
}
