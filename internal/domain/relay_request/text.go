package relay_request

import (
	"bytes"
	"strings"

	"github.com/bytedance/sonic"
)

// Text 任意のJSON値を文字列として保持する値オブジェクト
//
// 文字列はそのまま、数値や真偽値はJSON上の表記、配列は要素をカンマで連結した
// 文字列になる。nullは空文字列として扱う。
type Text string

// UnmarshalJSON JSON値をTextに変換する
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := sonic.ConfigStd.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var items []Text
		if err := sonic.ConfigStd.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.String()
		}
		*t = Text(strings.Join(parts, ","))
	default:
		*t = Text(trimmed)
	}
	return nil
}

// String 文字列表現を返す
func (t Text) String() string {
	return string(t)
}

// IsEmpty 空文字列かどうかを判定
func (t Text) IsEmpty() bool {
	return t == ""
}
