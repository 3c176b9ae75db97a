package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"checkout-relay/internal/domain/relay_request"
)

// brevoContact Brevo APIの送信者・受信者（空の値は送らない）
type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// brevoAttachment Brevo APIの添付ファイル
type brevoAttachment struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// brevoEmailRequest Brevo トランザクションメール送信リクエスト
type brevoEmailRequest struct {
	Sender      brevoContact      `json:"sender"`
	To          []brevoContact    `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Attachment  []brevoAttachment `json:"attachment,omitempty"`
}

// BrevoClient Brevoトランザクションメールのクライアント
type BrevoClient struct {
	apiKey    string
	transport *transport
}

// NewBrevoClient 新しいBrevoClientを作成
func NewBrevoClient(endpoint, apiKey string, opts Options) *BrevoClient {
	return &BrevoClient{
		apiKey:    apiKey,
		transport: newTransport("brevo", endpoint, opts),
	}
}

// SendEmail メールを送信する
func (c *BrevoClient) SendEmail(ctx context.Context, msg *relay_request.EmailMessage) (*relay_request.UpstreamResponse, error) {
	body, err := sonic.ConfigStd.Marshal(toBrevoRequest(msg))
	if err != nil {
		return nil, fmt.Errorf("failed to encode email request: %w", err)
	}

	header := http.Header{}
	header.Set("accept", "application/json")
	header.Set("api-key", c.apiKey)
	header.Set("content-type", "application/json")

	return c.transport.postJSON(ctx, header, body)
}

func toBrevoRequest(msg *relay_request.EmailMessage) brevoEmailRequest {
	req := brevoEmailRequest{
		Sender:      brevoContact{Name: msg.Sender.Name, Email: msg.Sender.Email},
		To:          make([]brevoContact, 0, len(msg.To)),
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLContent,
	}
	for _, to := range msg.To {
		req.To = append(req.To, brevoContact{Name: to.Name, Email: to.Email})
	}
	for _, a := range msg.Attachments {
		req.Attachment = append(req.Attachment, brevoAttachment{Name: a.Name, Content: a.Content})
	}
	return req
}

var _ relay_request.EmailSender = (*BrevoClient)(nil)
