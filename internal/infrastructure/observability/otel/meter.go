package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"checkout-relay/internal/infrastructure/config"
)

// upstreamDurationBuckets 外部サービス呼び出し時間のバケット境界（秒）
//
// 決済ゲートウェイとメールAPIはどちらも数百ミリ秒から数秒で応答する。
var upstreamDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

// responseTimeBuckets 中継全体の応答時間のバケット境界（秒）
var responseTimeBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

// InitMeter メーターを初期化
func InitMeter(cfg *config.OpenTelemetryConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	var exporter metric.Exporter
	switch cfg.MetricsExporter {
	case "otlp":
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint),
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		var err error
		exporter, err = otlpmetrichttp.New(context.Background(), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		}
	case "stdout":
		// 標準出力へのエクスポートは未対応のため計測しない
		return func(context.Context) error { return nil }, nil
	default:
		return nil, fmt.Errorf("unsupported metrics exporter: %s", cfg.MetricsExporter)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	mp := newMeterProvider(metric.NewPeriodicReader(exporter), res)
	otel.SetMeterProvider(mp)

	return mp.Shutdown, nil
}

// newMeterProvider 中継用のヒストグラム境界を適用したメータープロバイダーを作成
func newMeterProvider(reader metric.Reader, res *resource.Resource) *metric.MeterProvider {
	return metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(res),
		metric.WithView(relayViews()...),
	)
}

func relayViews() []metric.View {
	return []metric.View{
		metric.NewView(
			metric.Instrument{Name: "upstream_duration_seconds"},
			metric.Stream{Aggregation: metric.AggregationExplicitBucketHistogram{Boundaries: upstreamDurationBuckets}},
		),
		metric.NewView(
			metric.Instrument{Name: "response_time_seconds"},
			metric.Stream{Aggregation: metric.AggregationExplicitBucketHistogram{Boundaries: responseTimeBuckets}},
		),
	}
}
