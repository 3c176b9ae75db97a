package relay_request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeReceiptEmail_AddressPriority(t *testing.T) {
	tests := []struct {
		name       string
		cmd        EmailSendCommand
		defaults   EmailDefaults
		wantSender string
		wantAdmin  string
	}{
		{
			name:       "ペイロードの値を優先",
			cmd:        EmailSendCommand{SenderEmail: "p-from@x.com", AdminEmail: "p-admin@x.com"},
			defaults:   EmailDefaults{SenderEmail: "c-from@x.com", AdminEmail: "c-admin@x.com"},
			wantSender: "p-from@x.com",
			wantAdmin:  "p-admin@x.com",
		},
		{
			name:       "設定値にフォールバック",
			cmd:        EmailSendCommand{},
			defaults:   EmailDefaults{SenderEmail: "c-from@x.com", AdminEmail: "c-admin@x.com"},
			wantSender: "c-from@x.com",
			wantAdmin:  "c-admin@x.com",
		},
		{
			name:       "固定値にフォールバック",
			cmd:        EmailSendCommand{},
			defaults:   EmailDefaults{},
			wantSender: FallbackSenderEmail,
			wantAdmin:  FallbackAdminEmail,
		},
		{
			name:       "片方だけ指定",
			cmd:        EmailSendCommand{AdminEmail: "p-admin@x.com"},
			defaults:   EmailDefaults{},
			wantSender: FallbackSenderEmail,
			wantAdmin:  "p-admin@x.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ComposeReceiptEmail(&tt.cmd, tt.defaults)

			assert.Equal(t, tt.wantSender, msg.Sender.Email)
			require.Len(t, msg.To, 2)
			assert.Equal(t, tt.wantAdmin, msg.To[1].Email)
			assert.Equal(t, AdminRecipientName, msg.To[1].Name)
		})
	}
}

func TestComposeReceiptEmail_Recipients(t *testing.T) {
	cmd := &EmailSendCommand{
		UserName:       "A",
		UserEmail:      "a@x.com",
		TotalAmount:    "10",
		ItemsPurchased: "Widget",
	}

	msg := ComposeReceiptEmail(cmd, EmailDefaults{})

	assert.Equal(t, DefaultSenderName, msg.Sender.Name)
	assert.Equal(t, DefaultEmailSubject, msg.Subject)
	assert.Equal(t, []Contact{
		{Name: "A", Email: "a@x.com"},
		{Name: AdminRecipientName, Email: FallbackAdminEmail},
	}, msg.To)
	assert.Empty(t, msg.Attachments)
	assert.Contains(t, msg.HTMLContent, "<strong>Applicant:</strong> A (a@x.com)")
	assert.Contains(t, msg.HTMLContent, "<strong>Items:</strong> Widget")
	assert.Contains(t, msg.HTMLContent, "<strong>Amount:</strong> 10")
}

func TestComposeReceiptEmail_ConfiguredNameAndSubject(t *testing.T) {
	msg := ComposeReceiptEmail(&EmailSendCommand{}, EmailDefaults{
		SenderName: "Shop",
		Subject:    "Thanks",
	})

	assert.Equal(t, "Shop", msg.Sender.Name)
	assert.Equal(t, "Thanks", msg.Subject)
}

func TestComposeReceiptEmail_Attachment(t *testing.T) {
	tests := []struct {
		name           string
		fileName       Text
		fileContent    Text
		wantAttachment bool
	}{
		{name: "両方あり", fileName: "r.pdf", fileContent: "ZmlsZQ==", wantAttachment: true},
		{name: "名前のみ", fileName: "r.pdf", fileContent: "", wantAttachment: false},
		{name: "内容のみ", fileName: "", fileContent: "ZmlsZQ==", wantAttachment: false},
		{name: "どちらもなし", wantAttachment: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ComposeReceiptEmail(&EmailSendCommand{
				FileName:    tt.fileName,
				FileContent: tt.fileContent,
			}, EmailDefaults{})

			if tt.wantAttachment {
				assert.Equal(t, []Attachment{{Name: tt.fileName.String(), Content: tt.fileContent.String()}}, msg.Attachments)
			} else {
				assert.Nil(t, msg.Attachments)
			}
		})
	}
}

func TestRenderReceiptHTML_EscapesValues(t *testing.T) {
	html := RenderReceiptHTML(&EmailSendCommand{
		UserName:       `<script>alert("x")</script>`,
		UserEmail:      "a&b@x.com",
		ItemsPurchased: "<b>Widget</b>",
		TotalAmount:    `"10"`,
	})

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<b>Widget</b>")
	assert.Contains(t, html, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.Contains(t, html, "a&amp;b@x.com")
	assert.Contains(t, html, "&lt;b&gt;Widget&lt;/b&gt;")
	assert.Contains(t, html, "&#34;10&#34;")
}
