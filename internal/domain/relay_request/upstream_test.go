package relay_request

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpstreamResponse(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
	}{
		{name: "正常系: オブジェクト", statusCode: http.StatusCreated, body: `{"id":"p1"}`},
		{name: "正常系: エラーステータスでもJSONなら成功", statusCode: http.StatusBadRequest, body: `{"error":"bad"}`},
		{name: "正常系: 配列", statusCode: http.StatusOK, body: `[1,2]`},
		{name: "異常系: 空のボディ", statusCode: http.StatusOK, body: ``, wantErr: true},
		{name: "異常系: HTML", statusCode: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewUpstreamResponse(tt.statusCode, []byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedUpstreamResponse)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.statusCode, resp.StatusCode)
			assert.JSONEq(t, tt.body, string(resp.Body))
		})
	}
}

func TestUpstreamResponse_OK(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{http.StatusOK, true},
		{http.StatusCreated, true},
		{http.StatusNoContent, true},
		{http.StatusMultipleChoices, false},
		{http.StatusBadRequest, false},
		{http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.statusCode), func(t *testing.T) {
			resp := &UpstreamResponse{StatusCode: tt.statusCode}
			assert.Equal(t, tt.want, resp.OK())
		})
	}
}

func TestUpstreamResponse_Field(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		key    string
		want   json.RawMessage
		wantOK bool
	}{
		{name: "文字列フィールド", body: `{"messageId":"m1"}`, key: "messageId", want: json.RawMessage(`"m1"`), wantOK: true},
		{name: "nullフィールド", body: `{"messageId":null}`, key: "messageId", want: json.RawMessage(`null`), wantOK: true},
		{name: "フィールドなし", body: `{"other":1}`, key: "messageId", wantOK: false},
		{name: "オブジェクトでない", body: `["m1"]`, key: "messageId", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &UpstreamResponse{StatusCode: http.StatusOK, Body: json.RawMessage(tt.body)}
			got, ok := resp.Field(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.JSONEq(t, string(tt.want), string(got))
			}
		})
	}
}
