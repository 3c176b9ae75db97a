package serializer

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSonicJSONSerializer_Serialize(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = NewSonicJSONSerializer()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := c.JSON(http.StatusOK, map[string]string{"message": "Email sent"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Email sent"}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

func TestSonicJSONSerializer_SerializeIndent(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := NewSonicJSONSerializer().Serialize(c, map[string]int{"a": 1}, "  ")
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "\n  \"a\": 1")
}

func TestSonicJSONSerializer_Deserialize(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "正常系: 有効なJSON", body: `{"action":"send_email"}`},
		{name: "異常系: 不正なJSON", body: `{"action":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c := e.NewContext(req, httptest.NewRecorder())

			var v map[string]string
			err := NewSonicJSONSerializer().Deserialize(c, &v)
			if tt.wantErr {
				var he *echo.HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, http.StatusBadRequest, he.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "send_email", v["action"])
		})
	}
}
