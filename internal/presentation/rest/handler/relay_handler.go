package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	relayapp "checkout-relay/internal/application/relay"
)

const methodNotAllowedMessage = "Method Not Allowed"

// RelayHandler 中継ハンドラー
type RelayHandler struct {
	relayService   *relayapp.RelayApplicationService
	clientIPHeader string
}

// NewRelayHandler 新しいRelayHandlerを作成
func NewRelayHandler(relayService *relayapp.RelayApplicationService, clientIPHeader string) *RelayHandler {
	return &RelayHandler{
		relayService:   relayService,
		clientIPHeader: clientIPHeader,
	}
}

// Handle 中継リクエストハンドラー
// @Summary 決済作成またはメール送信を中継
// @Description ボディのactionに応じて決済ゲートウェイ（create_payment）またはメールサービス（send_email）へ中継します
// @Tags relay
// @Accept json
// @Produce json
// @Param request body RelayRequestBody true "中継リクエスト"
// @Success 200 {object} relayapp.EmailSentResponse "メール送信成功、または決済ゲートウェイのレスポンス"
// @Failure 400 {string} string "Invalid Action"
// @Failure 401 {string} string "Unauthorized"
// @Failure 405 {string} string "Method Not Allowed"
// @Failure 429 {string} string "Too Many Requests"
// @Failure 500 {object} middleware.ErrorResponse "Worker Error"
// @Router / [post]
func (h *RelayHandler) Handle(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodOptions:
		// プリフライト
		return c.NoContent(http.StatusOK)
	case http.MethodPost:
	default:
		return c.String(http.StatusMethodNotAllowed, methodNotAllowedMessage)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}

	resp, err := h.relayService.Relay(c.Request().Context(), &relayapp.RelayRequest{
		Body:     body,
		ClientIP: c.Request().Header.Get(h.clientIPHeader),
	})
	if err != nil {
		return err
	}

	return c.JSON(resp.StatusCode, resp.Body)
}
