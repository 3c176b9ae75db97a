package relay

import "encoding/json"

// RelayRequest 中継リクエスト
type RelayRequest struct {
	Body     []byte
	ClientIP string
}

// RelayResponse 中継レスポンス（Bodyはそのまま JSON としてクライアントへ返す）
type RelayResponse struct {
	Action     string
	StatusCode int
	Body       interface{}
}

// EmailSentResponse メール送信成功レスポンス
type EmailSentResponse struct {
	Message string          `json:"message"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// EmailFailedResponse メールサービスがエラーを返した場合のレスポンス
type EmailFailedResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

const (
	EmailSentMessage = "Email sent"
	EmailErrorLabel  = "Brevo Error"
)
