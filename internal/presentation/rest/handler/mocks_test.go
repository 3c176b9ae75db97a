package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"checkout-relay/internal/domain/relay_request"
)

// MockPaymentGateway モック決済ゲートウェイ
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreatePurchase(ctx context.Context, payload []byte) (*relay_request.UpstreamResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*relay_request.UpstreamResponse), args.Error(1)
}

// MockEmailSender モックメール送信サービス
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, msg *relay_request.EmailMessage) (*relay_request.UpstreamResponse, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*relay_request.UpstreamResponse), args.Error(1)
}
