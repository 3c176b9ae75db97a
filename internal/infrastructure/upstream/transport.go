package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"checkout-relay/internal/domain/relay_request"
	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
)

// transport 外部サービスへJSONをPOSTする共通処理
type transport struct {
	name     string
	endpoint string
	client   *http.Client
	timeout  time.Duration
	logger   *otelinfra.Logger
	metrics  *otelinfra.Metrics
	tracer   trace.Tracer
}

// Options クライアント共通の設定
type Options struct {
	// HTTPClient nilの場合はhttp.DefaultClient
	HTTPClient *http.Client
	// Timeout 0以下の場合は呼び出し元のコンテキストのみに従う
	Timeout time.Duration
	Logger  *otelinfra.Logger
	Metrics *otelinfra.Metrics
}

func newTransport(name, endpoint string, opts Options) *transport {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &transport{
		name:     name,
		endpoint: endpoint,
		client:   client,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		tracer:   otel.Tracer("upstream-" + name),
	}
}

// postJSON ボディをPOSTし、レスポンスをステータスに関わらずJSONとして読み取る
func (t *transport) postJSON(ctx context.Context, header http.Header, body []byte) (*relay_request.UpstreamResponse, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	ctx, span := t.tracer.Start(ctx, t.name+" POST",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodPost),
			attribute.String("http.url", t.endpoint),
			attribute.String("upstream", t.name),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to create %s request: %w", t.name, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.record(ctx, "error", start)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		t.logError(ctx, "Upstream request failed", err, nil)
		return nil, fmt.Errorf("failed to send %s request: %w", t.name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	t.record(ctx, strconv.Itoa(resp.StatusCode), start)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		t.logError(ctx, "Failed to read upstream response", err, map[string]interface{}{
			"status_code": resp.StatusCode,
		})
		return nil, fmt.Errorf("failed to read %s response: %w", t.name, err)
	}

	upstream, err := relay_request.NewUpstreamResponse(resp.StatusCode, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		t.logError(ctx, "Upstream returned a non-JSON body", err, map[string]interface{}{
			"status_code": resp.StatusCode,
			"body_size":   len(data),
		})
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}

	if !upstream.OK() {
		span.SetStatus(otelcodes.Error, resp.Status)
	}

	return upstream, nil
}

func (t *transport) record(ctx context.Context, status string, start time.Time) {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordUpstream(ctx, t.name, status, time.Since(start).Seconds())
}

func (t *transport) logError(ctx context.Context, message string, err error, fields map[string]interface{}) {
	if t.logger == nil {
		return
	}
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["upstream"] = t.name
	t.logger.Error(ctx, message, err, fields)
}
