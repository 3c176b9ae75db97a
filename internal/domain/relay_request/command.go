package relay_request

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// ClientIPField 決済ペイロードに注入するクライアントIPのフィールド名
const ClientIPField = "client_ip"

var utf8BOM = []byte("\xef\xbb\xbf")

// Command 中継コマンド
//
// 実装は PaymentCreateCommand と EmailSendCommand のみ。
type Command interface {
	Action() Action
	isCommand()
}

// PaymentCreateCommand 決済作成コマンド
//
// 値はJSONの生バイト列のまま保持し、数値やネストしたオブジェクトを変形せずに転送する。
type PaymentCreateCommand struct {
	fields map[string]json.RawMessage
}

// NewPaymentCreateCommand フィールドから決済作成コマンドを作成（actionは除去される）
func NewPaymentCreateCommand(fields map[string]json.RawMessage) *PaymentCreateCommand {
	copied := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	delete(copied, ActionField)
	return &PaymentCreateCommand{fields: copied}
}

// Action アクションを返す
func (c *PaymentCreateCommand) Action() Action {
	return ActionCreatePayment
}

func (c *PaymentCreateCommand) isCommand() {}

// SetClientIP クライアントIPを注入する（空の場合は何もしない）
func (c *PaymentCreateCommand) SetClientIP(ip string) error {
	if ip == "" {
		return nil
	}
	encoded, err := sonic.ConfigStd.Marshal(ip)
	if err != nil {
		return fmt.Errorf("failed to encode client ip: %w", err)
	}
	c.fields[ClientIPField] = encoded
	return nil
}

// Field フィールドの生JSONを返す
func (c *PaymentCreateCommand) Field(key string) (json.RawMessage, bool) {
	v, ok := c.fields[key]
	return v, ok
}

// Payload 決済ゲートウェイへ送信するJSONを返す
func (c *PaymentCreateCommand) Payload() ([]byte, error) {
	payload, err := sonic.ConfigStd.Marshal(c.fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment payload: %w", err)
	}
	return payload, nil
}

// EmailSendCommand メール送信コマンド
type EmailSendCommand struct {
	UserName       Text
	UserEmail      Text
	TotalAmount    Text
	ItemsPurchased Text
	FileName       Text
	FileContent    Text
	SenderEmail    Text
	AdminEmail     Text
}

// NewEmailSendCommand フィールドからメール送信コマンドを作成
//
// キーは完全一致で参照する。大文字小文字の違うキーは無視される。
func NewEmailSendCommand(fields map[string]json.RawMessage) (*EmailSendCommand, error) {
	cmd := &EmailSendCommand{}
	targets := []struct {
		key string
		dst *Text
	}{
		{"user_name", &cmd.UserName},
		{"user_email", &cmd.UserEmail},
		{"total_amount", &cmd.TotalAmount},
		{"items_purchased", &cmd.ItemsPurchased},
		{"file_name", &cmd.FileName},
		{"file_content", &cmd.FileContent},
		{"sender_email", &cmd.SenderEmail},
		{"admin_email", &cmd.AdminEmail},
	}
	for _, t := range targets {
		raw, ok := fields[t.key]
		if !ok {
			continue
		}
		if err := t.dst.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("%w: field %s: %w", ErrMalformedPayload, t.key, err)
		}
	}
	return cmd, nil
}

// Action アクションを返す
func (c *EmailSendCommand) Action() Action {
	return ActionSendEmail
}

func (c *EmailSendCommand) isCommand() {}

// HasAttachment ファイル名と内容の両方が指定されているかを判定
func (c *EmailSendCommand) HasAttachment() bool {
	return !c.FileName.IsEmpty() && !c.FileContent.IsEmpty()
}

// ParseCommand リクエストボディを解析してコマンドを返す
//
// オブジェクト以外の有効なJSONはアクションを持たないため ErrInvalidAction を返す。
func ParseCommand(body []byte) (Command, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: unexpected end of JSON input", ErrMalformedPayload)
	}

	if trimmed[0] != '{' {
		var v interface{}
		if err := sonic.ConfigStd.Unmarshal(trimmed, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		if v == nil {
			return nil, ErrNullPayload
		}
		return nil, ErrInvalidAction
	}

	var fields map[string]json.RawMessage
	if err := sonic.ConfigStd.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	rawAction, ok := fields[ActionField]
	if !ok {
		return nil, ErrInvalidAction
	}
	var action string
	if err := sonic.ConfigStd.Unmarshal(rawAction, &action); err != nil {
		return nil, ErrInvalidAction
	}

	switch Action(action) {
	case ActionCreatePayment:
		return NewPaymentCreateCommand(fields), nil
	case ActionSendEmail:
		cmd, err := NewEmailSendCommand(fields)
		if err != nil {
			return nil, err
		}
		return cmd, nil
	default:
		return nil, ErrInvalidAction
	}
}
