package relay_request

import "errors"

var (
	// ErrInvalidAction 未対応または欠落したアクション
	ErrInvalidAction = errors.New("invalid action")
	// ErrMalformedPayload JSONとして解析できないリクエストボディ
	ErrMalformedPayload = errors.New("malformed request payload")
	// ErrNullPayload nullのリクエストボディ
	ErrNullPayload = errors.New("cannot read action from null payload")
	// ErrMalformedUpstreamResponse JSONとして解析できない外部サービスのレスポンス
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")
)
