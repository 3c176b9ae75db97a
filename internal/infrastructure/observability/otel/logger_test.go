package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(t *testing.T, level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(level)
	return NewLoggerWithCore(core), logs
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger()

	assert.NotNil(t, logger)
	assert.NotNil(t, logger.zap)
}

func TestNewLoggerWithLevel(t *testing.T) {
	t.Run("正常系: 有効なレベル", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			logger, err := NewLoggerWithLevel(level)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		}
	})

	t.Run("異常系: 不正なレベル", func(t *testing.T) {
		logger, err := NewLoggerWithLevel("verbose")
		assert.Error(t, err)
		assert.Nil(t, logger)
	})
}

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name      string
		level     LogLevel
		message   string
		fields    map[string]interface{}
		wantLevel zapcore.Level
	}{
		{
			name:      "Infoレベルのログ",
			level:     LogLevelInfo,
			message:   "test message",
			fields:    map[string]interface{}{"key": "value"},
			wantLevel: zapcore.InfoLevel,
		},
		{
			name:      "Debugレベルのログ",
			level:     LogLevelDebug,
			message:   "debug message",
			fields:    nil,
			wantLevel: zapcore.DebugLevel,
		},
		{
			name:      "Warnレベルのログ",
			level:     LogLevelWarn,
			message:   "warn message",
			fields:    map[string]interface{}{"count": 42},
			wantLevel: zapcore.WarnLevel,
		},
		{
			name:      "Errorレベルのログ",
			level:     LogLevelError,
			message:   "error message",
			fields:    map[string]interface{}{"error": "test error"},
			wantLevel: zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := newObservedLogger(t, zapcore.DebugLevel)

			logger.Log(context.Background(), tt.level, tt.message, tt.fields)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
			assert.Equal(t, tt.message, entries[0].Message)
			for k, v := range tt.fields {
				assert.EqualValues(t, v, entries[0].ContextMap()[k])
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, logs := newObservedLogger(t, zapcore.WarnLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0].Message)
}

func TestLogger_LogWithTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewLoggerWithCore(core)

	ctx, span := tp.Tracer("test").Start(context.Background(), "test-span")
	defer span.End()

	logger.Info(ctx, "traced", nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestLogger_LogWithoutTraceContext(t *testing.T) {
	logger, logs := newObservedLogger(t, zapcore.InfoLevel)

	logger.Info(context.Background(), "untraced", nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	_, ok := entries[0].ContextMap()["trace_id"]
	assert.False(t, ok)
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		fields    map[string]interface{}
		wantError interface{}
	}{
		{
			name:      "エラーあり、フィールドなし",
			err:       assert.AnError,
			fields:    nil,
			wantError: assert.AnError.Error(),
		},
		{
			name:      "エラーあり、既存のerrorフィールドを上書き",
			err:       assert.AnError,
			fields:    map[string]interface{}{"error": "existing", "key": "value"},
			wantError: assert.AnError.Error(),
		},
		{
			name:      "エラーなし、フィールドあり",
			err:       nil,
			fields:    map[string]interface{}{"key": "value"},
			wantError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := newObservedLogger(t, zapcore.DebugLevel)

			logger.Error(context.Background(), "error message", tt.err, tt.fields)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
			assert.Equal(t, tt.wantError, entries[0].ContextMap()["error"])
		})
	}
}

func TestLogger_ErrorDoesNotMutateFields(t *testing.T) {
	logger, _ := newObservedLogger(t, zapcore.DebugLevel)
	fields := map[string]interface{}{"key": "value"}

	logger.Error(context.Background(), "error message", assert.AnError, fields)

	_, ok := fields["error"]
	assert.False(t, ok)
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, string(tt.level))
		})
	}
}
