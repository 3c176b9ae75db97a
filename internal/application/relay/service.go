package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"checkout-relay/internal/domain/relay_request"
	otelinfra "checkout-relay/internal/infrastructure/observability/otel"
)

// RelayApplicationService 中継アプリケーションサービス
//
// 1リクエストにつき外部サービスへの呼び出しは高々1回。リトライや重複排除は行わない。
type RelayApplicationService struct {
	paymentGateway relay_request.PaymentGateway
	emailSender    relay_request.EmailSender
	emailDefaults  relay_request.EmailDefaults
	logger         *otelinfra.Logger
	metrics        *otelinfra.Metrics
	tracer         trace.Tracer
}

// NewRelayApplicationService 新しいRelayApplicationServiceを作成
func NewRelayApplicationService(
	paymentGateway relay_request.PaymentGateway,
	emailSender relay_request.EmailSender,
	emailDefaults relay_request.EmailDefaults,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *RelayApplicationService {
	return &RelayApplicationService{
		paymentGateway: paymentGateway,
		emailSender:    emailSender,
		emailDefaults:  emailDefaults,
		logger:         logger,
		metrics:        metrics,
		tracer:         otel.Tracer("relay-service"),
	}
}

// Relay リクエストボディのアクションに応じて外部サービスへ中継する
func (s *RelayApplicationService) Relay(ctx context.Context, req *RelayRequest) (*RelayResponse, error) {
	ctx, span := s.tracer.Start(ctx, "RelayApplicationService.Relay")
	defer span.End()

	cmd, err := relay_request.ParseCommand(req.Body)
	if err != nil {
		outcome := "error"
		if errors.Is(err, relay_request.ErrInvalidAction) {
			outcome = "invalid_action"
		}
		s.metrics.RecordRelay(ctx, "none", outcome)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("relay.action", cmd.Action().String()))

	var resp *RelayResponse
	switch c := cmd.(type) {
	case *relay_request.PaymentCreateCommand:
		resp, err = s.createPayment(ctx, c, req.ClientIP)
	case *relay_request.EmailSendCommand:
		resp, err = s.sendEmail(ctx, c)
	default:
		err = relay_request.ErrInvalidAction
	}

	if err != nil {
		s.metrics.RecordRelay(ctx, cmd.Action().String(), "error")
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	outcome := "success"
	if resp.StatusCode >= http.StatusBadRequest {
		outcome = "upstream_error"
	}
	s.metrics.RecordRelay(ctx, resp.Action, outcome)
	span.SetAttributes(attribute.Int("relay.status_code", resp.StatusCode))

	return resp, nil
}

// createPayment 決済ゲートウェイへ購入作成を中継（ステータスとボディはそのまま返す）
func (s *RelayApplicationService) createPayment(ctx context.Context, cmd *relay_request.PaymentCreateCommand, clientIP string) (*RelayResponse, error) {
	if err := cmd.SetClientIP(clientIP); err != nil {
		return nil, err
	}

	payload, err := cmd.Payload()
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Relaying purchase to payment gateway", map[string]interface{}{
		"client_ip":    clientIP,
		"payload_size": len(payload),
	})

	upstream, err := s.paymentGateway.CreatePurchase(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	if !upstream.OK() {
		s.logger.Warn(ctx, "Payment gateway returned an error status", map[string]interface{}{
			"status_code": upstream.StatusCode,
		})
	}

	return &RelayResponse{
		Action:     relay_request.ActionCreatePayment.String(),
		StatusCode: upstream.StatusCode,
		Body:       upstream.Body,
	}, nil
}

// sendEmail 受領確認メールを送信（成功は200、失敗は500に変換）
func (s *RelayApplicationService) sendEmail(ctx context.Context, cmd *relay_request.EmailSendCommand) (*RelayResponse, error) {
	msg := relay_request.ComposeReceiptEmail(cmd, s.emailDefaults)

	s.logger.Info(ctx, "Sending receipt email", map[string]interface{}{
		"recipients":     len(msg.To),
		"has_attachment": len(msg.Attachments) > 0,
	})

	upstream, err := s.emailSender.SendEmail(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	if !upstream.OK() {
		s.logger.Warn(ctx, "Email service returned an error status", map[string]interface{}{
			"status_code": upstream.StatusCode,
		})
		return &RelayResponse{
			Action:     relay_request.ActionSendEmail.String(),
			StatusCode: http.StatusInternalServerError,
			Body: EmailFailedResponse{
				Error:   EmailErrorLabel,
				Details: upstream.Body,
			},
		}, nil
	}

	messageID, _ := upstream.Field("messageId")
	return &RelayResponse{
		Action:     relay_request.ActionSendEmail.String(),
		StatusCode: http.StatusOK,
		Body: EmailSentResponse{
			Message: EmailSentMessage,
			ID:      messageID,
		},
	}, nil
}
