package handler

// RelayRequestBody 中継リクエスト
// @Description actionがcreate_paymentの場合、action以外のフィールドはそのまま決済ゲートウェイへ送信される
type RelayRequestBody struct {
	Action         string `json:"action" example:"send_email" enums:"create_payment,send_email"`
	UserName       string `json:"user_name,omitempty" example:"Aisyah"`
	UserEmail      string `json:"user_email,omitempty" example:"aisyah@example.com"`
	TotalAmount    string `json:"total_amount,omitempty" example:"150.00"`
	ItemsPurchased string `json:"items_purchased,omitempty" example:"Workshop Ticket"`
	FileName       string `json:"file_name,omitempty" example:"receipt.pdf"`
	FileContent    string `json:"file_content,omitempty" example:"JVBERi0xLjQK"`
	SenderEmail    string `json:"sender_email,omitempty" example:"hello@atlasnovus.co"`
	AdminEmail     string `json:"admin_email,omitempty" example:"admin@atlasnovus.co"`
}

// HealthResponse ヘルスチェックレスポンス
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
