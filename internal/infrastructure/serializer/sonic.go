package serializer

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// SonicJSONSerializer sonicを使ったecho.JSONSerializer
type SonicJSONSerializer struct {
	api sonic.API
}

// NewSonicJSONSerializer 標準ライブラリ互換設定のSonicJSONSerializerを作成
func NewSonicJSONSerializer() *SonicJSONSerializer {
	return &SonicJSONSerializer{api: sonic.ConfigStd}
}

// Serialize レスポンスへJSONを書き込む
func (s *SonicJSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := s.api.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

// Deserialize リクエストボディをJSONとして読み込む
func (s *SonicJSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := s.api.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err)).SetInternal(err)
	}
	return nil
}

var _ echo.JSONSerializer = (*SonicJSONSerializer)(nil)
