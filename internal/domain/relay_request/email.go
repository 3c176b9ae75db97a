package relay_request

import (
	"fmt"
	"html"
)

const (
	FallbackSenderEmail = "hello@atlasnovus.co"
	FallbackAdminEmail  = "admin@atlasnovus.co"
	DefaultSenderName   = "Atlas Novus"
	DefaultEmailSubject = "Receipt Received: Atlas Novus Workshop"
	AdminRecipientName  = "Admin"
)

// Contact メールの送信者・受信者
type Contact struct {
	Name  string
	Email string
}

// Attachment 添付ファイル（Contentは送信先APIが期待するエンコード済みの値）
type Attachment struct {
	Name    string
	Content string
}

// EmailMessage 送信するメール
type EmailMessage struct {
	Sender      Contact
	To          []Contact
	Subject     string
	HTMLContent string
	Attachments []Attachment
}

// EmailDefaults 設定から与えられるメールの既定値
type EmailDefaults struct {
	SenderName  string
	SenderEmail string
	AdminEmail  string
	Subject     string
}

// ComposeReceiptEmail 受領確認メールを組み立てる
//
// 送信元・管理者アドレスはペイロード、設定値、固定値の順に最初の空でない値を使う。
func ComposeReceiptEmail(cmd *EmailSendCommand, defaults EmailDefaults) *EmailMessage {
	fromEmail := firstNonEmpty(cmd.SenderEmail.String(), defaults.SenderEmail, FallbackSenderEmail)
	adminDest := firstNonEmpty(cmd.AdminEmail.String(), defaults.AdminEmail, FallbackAdminEmail)

	msg := &EmailMessage{
		Sender: Contact{
			Name:  firstNonEmpty(defaults.SenderName, DefaultSenderName),
			Email: fromEmail,
		},
		To: []Contact{
			{Name: cmd.UserName.String(), Email: cmd.UserEmail.String()},
			{Name: AdminRecipientName, Email: adminDest},
		},
		Subject:     firstNonEmpty(defaults.Subject, DefaultEmailSubject),
		HTMLContent: RenderReceiptHTML(cmd),
	}

	if cmd.HasAttachment() {
		msg.Attachments = []Attachment{
			{Name: cmd.FileName.String(), Content: cmd.FileContent.String()},
		}
	}

	return msg
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; background-color: #F5F5F7; padding: 40px 20px;">
  <div style="max-width: 36rem; margin: 0 auto; background: #ffffff; border-radius: 20px; padding: 40px;">
    <h2 style="color: #000; margin-top: 0;">Receipt Received</h2>
    <p><strong>Applicant:</strong> %s (%s)</p>
    <p><strong>Items:</strong> %s</p>
    <p><strong>Amount:</strong> %s</p>
    <hr style="border: 0; border-top: 1px solid #eee; margin: 20px 0;">
    <p>We have received your proof of payment. Our team will verify it shortly.</p>
  </div>
</body>
</html>
`

// RenderReceiptHTML 受領確認メールのHTML本文を生成する（差し込む値はすべてHTMLエスケープする）
func RenderReceiptHTML(cmd *EmailSendCommand) string {
	return fmt.Sprintf(receiptTemplate,
		html.EscapeString(cmd.UserName.String()),
		html.EscapeString(cmd.UserEmail.String()),
		html.EscapeString(cmd.ItemsPurchased.String()),
		html.EscapeString(cmd.TotalAmount.String()),
	)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
