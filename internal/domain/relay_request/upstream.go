package relay_request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// UpstreamResponse 外部サービスのレスポンス
type UpstreamResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// NewUpstreamResponse ステータスコードに関わらずボディをJSONとして検証してレスポンスを作成
func NewUpstreamResponse(statusCode int, body []byte) (*UpstreamResponse, error) {
	var v interface{}
	if err := sonic.ConfigStd.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("%w (status %d): %w", ErrMalformedUpstreamResponse, statusCode, err)
	}
	return &UpstreamResponse{
		StatusCode: statusCode,
		Body:       json.RawMessage(bytes.TrimSpace(body)),
	}, nil
}

// OK 2xxのステータスかどうかを判定
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Field ボディがオブジェクトの場合にフィールドの生JSONを返す
func (r *UpstreamResponse) Field(key string) (json.RawMessage, bool) {
	if len(r.Body) == 0 || r.Body[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := sonic.ConfigStd.Unmarshal(r.Body, &fields); err != nil {
		return nil, false
	}
	v, ok := fields[key]
	return v, ok
}

// PaymentGateway 決済ゲートウェイ
type PaymentGateway interface {
	CreatePurchase(ctx context.Context, payload []byte) (*UpstreamResponse, error)
}

// EmailSender トランザクションメール送信サービス
type EmailSender interface {
	SendEmail(ctx context.Context, msg *EmailMessage) (*UpstreamResponse, error)
}
