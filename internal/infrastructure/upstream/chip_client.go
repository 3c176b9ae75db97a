package upstream

import (
	"context"
	"net/http"

	"checkout-relay/internal/domain/relay_request"
)

// ChipClient CHIP決済ゲートウェイのクライアント
type ChipClient struct {
	secretKey string
	transport *transport
}

// NewChipClient 新しいChipClientを作成
func NewChipClient(endpoint, secretKey string, opts Options) *ChipClient {
	return &ChipClient{
		secretKey: secretKey,
		transport: newTransport("chip", endpoint, opts),
	}
}

// CreatePurchase 購入を作成する（ペイロードは加工せずに送信する）
func (c *ChipClient) CreatePurchase(ctx context.Context, payload []byte) (*relay_request.UpstreamResponse, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.secretKey)
	header.Set("Content-Type", "application/json")

	return c.transport.postJSON(ctx, header, payload)
}

var _ relay_request.PaymentGateway = (*ChipClient)(nil)
