package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	relayapp "checkout-relay/internal/application/relay"
	"checkout-relay/internal/domain/relay_request"
	"checkout-relay/internal/infrastructure/config"
	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
	"checkout-relay/internal/infrastructure/upstream"
	grpcserver "checkout-relay/internal/presentation/grpc"
	"checkout-relay/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	logger, err := otelinfra.NewLoggerWithLevel(cfg.Logger.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	if missing := cfg.MissingSecrets(); len(missing) > 0 {
		logger.Warn(ctx, "Upstream credentials are not configured", map[string]interface{}{
			"missing": missing,
		})
	}

	metrics, err := otelinfra.NewMetrics(cfg.OpenTelemetry.ServiceName)
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// 外部サービスクライアントの初期化
	upstreamOpts := upstream.Options{
		HTTPClient: &http.Client{},
		Timeout:    cfg.Relay.UpstreamTimeout,
		Logger:     logger,
		Metrics:    metrics,
	}
	chipClient := upstream.NewChipClient(cfg.PaymentGateway.Endpoint, cfg.PaymentGateway.SecretKey, upstreamOpts)
	brevoClient := upstream.NewBrevoClient(cfg.EmailService.Endpoint, cfg.EmailService.APIKey, upstreamOpts)

	// アプリケーションサービスの初期化
	relayService := relayapp.NewRelayApplicationService(
		chipClient,
		brevoClient,
		relay_request.EmailDefaults{
			SenderName:  cfg.EmailService.SenderName,
			SenderEmail: cfg.EmailService.DefaultSenderEmail,
			AdminEmail:  cfg.EmailService.DefaultAdminEmail,
			Subject:     cfg.EmailService.Subject,
		},
		logger,
		metrics,
	)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(cfg, logger, metrics, relayService)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// gRPCヘルスチェックサーバーの初期化
	var grpcSrv *grpcserver.Server
	if cfg.GRPC.Enabled {
		grpcSrv, err = grpcserver.NewServer(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to create gRPC server: %v", err)
		}
	}

	address := fmt.Sprintf(":%d", cfg.Server.Port)

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// REST APIサーバーを別ゴルーチンで起動
	go func() {
		logger.Info(ctx, "REST API server starting", map[string]interface{}{
			"address":     address,
			"environment": cfg.Environment,
		})
		if err := router.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "REST API server error", err, nil)
		}
	}()

	// gRPCサーバーを別ゴルーチンで起動
	if grpcSrv != nil {
		go func() {
			if err := grpcSrv.Start(); err != nil {
				logger.Error(ctx, "gRPC server error", err, nil)
			}
		}()
	}

	// シグナルを待機
	<-quit
	logger.Info(ctx, "Shutting down servers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Error shutting down REST API server", err, nil)
	}

	if grpcSrv != nil {
		if err := grpcSrv.Stop(shutdownCtx); err != nil {
			logger.Error(ctx, "Error shutting down gRPC server", err, nil)
		}
	}

	logger.Info(ctx, "Servers stopped", nil)
}
