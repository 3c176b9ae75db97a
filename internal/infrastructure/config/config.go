package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultPaymentGatewayURL = "https://gate.chip-in.asia/api/v1/purchases/"
	DefaultEmailServiceURL   = "https://api.brevo.com/v3/smtp/email"
	DefaultClientIPHeader    = "CF-Connecting-IP"

	// upstreamTimeoutMargin 書き込みタイムアウトから差し引く、エラー応答を書くための余裕
	upstreamTimeoutMargin = 2 * time.Second
)

// Config アプリケーション全体の設定
type Config struct {
	Server         ServerConfig
	GRPC           GRPCConfig
	PaymentGateway PaymentGatewayConfig
	EmailService   EmailServiceConfig
	Relay          RelayConfig
	RateLimit      RateLimitConfig
	Logger         LoggerConfig
	OpenTelemetry  OpenTelemetryConfig
	Environment    string `validate:"required"`
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port         int `validate:"min=1,max=65535"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    string `validate:"required"`
}

// GRPCConfig gRPCヘルスチェックサーバー設定
type GRPCConfig struct {
	Enabled bool
	Port    int `validate:"min=1,max=65535"`
}

// PaymentGatewayConfig 決済ゲートウェイ（CHIP）設定
type PaymentGatewayConfig struct {
	SecretKey string
	Endpoint  string `validate:"required,url"`
}

// EmailServiceConfig メールサービス（Brevo）設定
type EmailServiceConfig struct {
	APIKey             string
	Endpoint           string `validate:"required,url"`
	DefaultSenderEmail string `validate:"omitempty,email"`
	DefaultAdminEmail  string `validate:"omitempty,email"`
	SenderName         string `validate:"required"`
	Subject            string `validate:"required"`
}

// RelayConfig 中継処理の設定
type RelayConfig struct {
	ClientIPHeader  string `validate:"required"`
	BearerSecret    string
	UpstreamTimeout time.Duration
}

// RateLimitConfig レート制限設定（RPSが0の場合は無効）
type RateLimitConfig struct {
	RPS   float64 `validate:"min=0"`
	Burst int     `validate:"min=0"`
}

// Enabled レート制限が有効かどうか
func (c *RateLimitConfig) Enabled() bool {
	return c.RPS > 0
}

// LoggerConfig ロガー設定
type LoggerConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// OpenTelemetryConfig OpenTelemetry設定
type OpenTelemetryConfig struct {
	Enabled         bool
	ServiceName     string
	ServiceVersion  string
	OTLPEndpoint    string
	OTLPInsecure    bool
	TraceExporter   string `validate:"omitempty,oneof=otlp stdout"`
	MetricsExporter string `validate:"omitempty,oneof=otlp stdout"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load 設定を読み込む
func Load() (*Config, error) {
	// .envファイルを読み込む（存在しない場合は無視）
	_ = godotenv.Load()

	serverPort := getEnvAsInt("SERVER_PORT", 8080)
	writeTimeout := getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         serverPort,
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: writeTimeout,
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			BodyLimit:    getEnv("SERVER_BODY_LIMIT", "10M"),
		},
		GRPC: GRPCConfig{
			Enabled: getEnvAsBool("GRPC_ENABLED", true),
			Port:    getEnvAsInt("GRPC_PORT", serverPort+1),
		},
		PaymentGateway: PaymentGatewayConfig{
			SecretKey: getEnv("CHIP_SECRET_KEY", ""),
			Endpoint:  getEnv("CHIP_API_URL", DefaultPaymentGatewayURL),
		},
		EmailService: EmailServiceConfig{
			APIKey:             getEnv("BREVO_API_KEY", ""),
			Endpoint:           getEnv("BREVO_API_URL", DefaultEmailServiceURL),
			DefaultSenderEmail: getEnv("SENDER_EMAIL", ""),
			DefaultAdminEmail:  getEnv("ADMIN_EMAIL", ""),
			SenderName:         getEnv("EMAIL_SENDER_NAME", "Atlas Novus"),
			Subject:            getEnv("EMAIL_SUBJECT", "Receipt Received: Atlas Novus Workshop"),
		},
		Relay: RelayConfig{
			ClientIPHeader:  getEnv("CLIENT_IP_HEADER", DefaultClientIPHeader),
			BearerSecret:    getEnv("RELAY_BEARER_SECRET", ""),
			UpstreamTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", DefaultUpstreamTimeout(writeTimeout)),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("RATE_LIMIT_RPS", 0),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 0),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
		OpenTelemetry: OpenTelemetryConfig{
			Enabled:         getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:     getEnv("OTEL_SERVICE_NAME", "checkout-relay"),
			ServiceVersion:  getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			OTLPInsecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			TraceExporter:   getEnv("OTEL_TRACES_EXPORTER", "otlp"),
			MetricsExporter: getEnv("OTEL_METRICS_EXPORTER", "otlp"),
		},
	}

	// 必須設定の検証
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate 設定の検証
func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Relay.UpstreamTimeout < 0 {
		return errors.New("UPSTREAM_TIMEOUT must not be negative")
	}
	// 上流の応答待ちが書き込みタイムアウトを超えると、応答を返せないまま接続が切れる
	if c.Server.WriteTimeout > 0 &&
		(c.Relay.UpstreamTimeout == 0 || c.Relay.UpstreamTimeout >= c.Server.WriteTimeout) {
		return fmt.Errorf("UPSTREAM_TIMEOUT (%s) must be set below SERVER_WRITE_TIMEOUT (%s)",
			c.Relay.UpstreamTimeout, c.Server.WriteTimeout)
	}
	return nil
}

// DefaultUpstreamTimeout 書き込みタイムアウトから外部サービス呼び出しの既定タイムアウトを決める
//
// 書き込みタイムアウトが無効（0以下）の場合は0（上限なし）を返す。
func DefaultUpstreamTimeout(writeTimeout time.Duration) time.Duration {
	switch {
	case writeTimeout <= 0:
		return 0
	case writeTimeout > 2*upstreamTimeoutMargin:
		return writeTimeout - upstreamTimeoutMargin
	default:
		return writeTimeout / 2
	}
}

// MissingSecrets 未設定の外部サービス認証情報の環境変数名を返す
//
// 起動は止めない。未設定のまま中継すると上流で認証エラーになる。
func (c *Config) MissingSecrets() []string {
	var missing []string
	if c.PaymentGateway.SecretKey == "" {
		missing = append(missing, "CHIP_SECRET_KEY")
	}
	if c.EmailService.APIKey == "" {
		missing = append(missing, "BREVO_API_KEY")
	}
	return missing
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 環境変数を整数として取得
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat 環境変数を浮動小数点数として取得
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool 環境変数を真偽値として取得
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration 環境変数を時間として取得
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
