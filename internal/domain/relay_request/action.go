package relay_request

// Action 中継先を選択するための識別子
type Action string

const (
	ActionCreatePayment Action = "create_payment" // 決済ゲートウェイへの購入作成
	ActionSendEmail     Action = "send_email"     // メールサービスへの送信
)

// ActionField リクエストボディ内の識別子フィールド名
const ActionField = "action"

// String 文字列表現を返す
func (a Action) String() string {
	return string(a)
}

// IsValid 対応しているアクションかどうかを判定
func (a Action) IsValid() bool {
	switch a {
	case ActionCreatePayment, ActionSendEmail:
		return true
	default:
		return false
	}
}
