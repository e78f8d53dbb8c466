package channels

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/lumaensino/notify/internal/logger"
)

// SendGrid sends template-based transactional email through the SendGrid
// v3 mail API. The message Ref selects the dynamic template and Fields become
// its dynamic template data.
type SendGrid struct {
	APIKey      string
	FromName    string
	FromAddress string
	// Host overrides the SendGrid API host. Used by tests.
	Host string
}

func NewSendGrid(apiKey, fromName, fromAddress string) *SendGrid {
	return &SendGrid{
		APIKey:      apiKey,
		FromName:    fromName,
		FromAddress: fromAddress,
	}
}

func (s *SendGrid) Send(ctx context.Context, m Message) Result {
	if s.APIKey == "" {
		logger.Log().Error("SendGrid API error: 403. Here is the error message: No API Key was provided")
		return Result{Code: http.StatusForbidden, Message: "No API Key was provided"}
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.FromName, s.FromAddress))
	message.SetTemplateID(m.Ref)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", m.To))
	for name, value := range m.Fields {
		p.SetDynamicTemplateData(name, value)
	}
	message.AddPersonalizations(p)

	request := sendgrid.GetRequest(s.APIKey, "/v3/mail/send", s.Host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)
	if m.MessageID != "" {
		request.Headers["Idempotency-Key"] = m.MessageID
	}

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		logger.WithFields(map[string]interface{}{"template": m.Ref}).
			Errorf("SendGrid API error: %v", err)
		return Result{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	if response.StatusCode >= 400 {
		logger.WithFields(map[string]interface{}{"template": m.Ref, "status": response.StatusCode}).
			Error("SendGrid API error")
		return Result{Code: response.StatusCode, Message: response.Body}
	}

	return Result{
		Code:    response.StatusCode,
		Message: fmt.Sprintf("Message %s sent to %s", m.Ref, m.To),
	}
}
