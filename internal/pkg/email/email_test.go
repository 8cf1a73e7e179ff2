package email

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCompanyReviewEmail_NotConfigured(t *testing.T) {
	svc := NewEmailService(SMTPConfig{}, zerolog.Nop())
	assert.NoError(t, svc.SendCompanyReviewEmail(CompanyReviewMessage{ToEmail: "a@b.co", Status: "VERIFIED"}))
}

func TestSendCompanyReviewEmail_RendersMessage(t *testing.T) {
	svc := NewEmailService(SMTPConfig{
		Host: "smtp.example.com", Port: 587, Username: "u", Password: "p",
		FromName: "EventHub", FromEmail: "no-reply@eventhub.app", BaseURL: "https://eventhub.app/",
	}, zerolog.Nop()).(*EmailServiceImpl)

	var gotTo, gotMessage string
	svc.send = func(to, message string) error {
		gotTo, gotMessage = to, message
		return nil
	}

	err := svc.SendCompanyReviewEmail(CompanyReviewMessage{
		ToEmail:     "owner@acme.io",
		ToName:      "Ada",
		CompanyName: "Acme <Labs>",
		Status:      "REJECTED",
		Notes:       "Missing tax document",
	})
	require.NoError(t, err)

	assert.Equal(t, "owner@acme.io", gotTo)
	assert.Contains(t, gotMessage, "Subject: EventHub: Acme <Labs> verification rejected\r\n")
	assert.Contains(t, gotMessage, "Your company verification was rejected")
	assert.Contains(t, gotMessage, "Acme &lt;Labs&gt;")
	assert.Contains(t, gotMessage, "Missing tax document")
	assert.Contains(t, gotMessage, `href="https://eventhub.app/company/dashboard"`)
}
