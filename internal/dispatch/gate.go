package dispatch

import (
	"fmt"

	"github.com/lumaensino/notify/internal/models"
)

// Request is the caller-submitted dispatch payload. Channel fields are only
// expected when the referenced template enables that channel.
type Request struct {
	Email          string            `json:"email"`
	EmailFields    map[string]string `json:"email_fields"`
	Cellphone      string            `json:"cellphone"`
	WhatsAppFields map[string]string `json:"whatsapp_fields"`
}

// Validate is the gate onto the queue: a pure check that the request carries a
// destination and every required field for each channel the template enables.
func Validate(tmpl *models.Template, req Request) (bool, string) {
	if tmpl.SendEmail {
		if req.Email == "" {
			return false, "Email was not found in body"
		}
		for _, field := range tmpl.EmailFields {
			if _, ok := req.EmailFields[field]; !ok {
				return false, fmt.Sprintf("Email field %s was not found", field)
			}
		}
	}

	if tmpl.SendWhatsApp {
		if req.Cellphone == "" {
			return false, "Cellphone was not found in body"
		}
		for _, field := range tmpl.WhatsAppFields {
			if _, ok := req.WhatsAppFields[field]; !ok {
				return false, fmt.Sprintf("Whatsapp field %s was not found", field)
			}
		}
	}

	return true, "Notification body is valid"
}
