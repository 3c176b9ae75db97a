package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	relayapp "checkout-relay/internal/application/relay"
	"checkout-relay/internal/infrastructure/config"
	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
	"checkout-relay/internal/infrastructure/serializer"
	"checkout-relay/internal/presentation/rest/handler"
	restmiddleware "checkout-relay/internal/presentation/rest/middleware"
)

// Router REST APIルーター
type Router struct {
	echo         *echo.Echo
	relayHandler *handler.RelayHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	relayService *relayapp.RelayApplicationService,
) (*Router, error) {
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = serializer.NewSonicJSONSerializer()

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// ミドルウェアの設定
	setupMiddleware(e, cfg, logger, metrics)

	// ハンドラーの作成
	relayHandler := handler.NewRelayHandler(relayService, cfg.Relay.ClientIPHeader)

	// ルーティングの設定
	setupRoutes(e, cfg, logger, relayHandler)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return &Router{
		echo:         e,
		relayHandler: relayHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定（外側から順に適用される）
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	// リクエストIDの設定
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// トレーシングミドルウェア
	e.Use(restmiddleware.TracingMiddleware())

	// ログミドルウェア
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// メトリクスミドルウェア
	e.Use(restmiddleware.MetricsMiddleware(metrics))

	// エラーハンドリング（パニックの回復を含む）
	e.Use(restmiddleware.ErrorBoundaryMiddleware(logger))

	// CORSヘッダー
	e.Use(restmiddleware.CORSHeadersMiddleware(cfg.Relay.BearerSecret != ""))

	// リクエストボディのサイズ制限
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *otelinfra.Logger,
	relayHandler *handler.RelayHandler,
) {
	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", handler.Health)

	relayMiddleware := []echo.MiddlewareFunc{
		restmiddleware.BearerSecretMiddleware(cfg.Relay.BearerSecret, logger),
	}
	if cfg.RateLimit.Enabled() {
		relayMiddleware = append(relayMiddleware, restmiddleware.RateLimitMiddleware(
			cfg.RateLimit.RPS,
			cfg.RateLimit.Burst,
			cfg.Relay.ClientIPHeader,
			logger,
		))
	}

	// 中継エンドポイント（パスは問わない）
	e.Any("/", relayHandler.Handle, relayMiddleware...)
	e.Any("/*", relayHandler.Handle, relayMiddleware...)
}

// ServeHTTP http.Handlerを実装
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.echo.ServeHTTP(w, req)
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown 処理中のリクエストを待ってサーバーを停止
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
