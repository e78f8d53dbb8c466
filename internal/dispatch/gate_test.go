package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumaensino/notify/internal/models"
)

func emailTemplate() *models.Template {
	return &models.Template{
		ID:          "t1",
		Title:       "Welcome",
		SendEmail:   true,
		EmailID:     "tmpl-1",
		EmailFields: models.FieldList{"name"},
	}
}

func bothChannelsTemplate() *models.Template {
	tmpl := emailTemplate()
	tmpl.SendWhatsApp = true
	tmpl.TemplateName = "welcome_rule"
	tmpl.WhatsAppFields = models.FieldList{"name", "course"}
	return tmpl
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    *models.Template
		req     Request
		ok      bool
		message string
	}{
		{
			name:    "valid email request",
			tmpl:    emailTemplate(),
			req:     Request{Email: "a@b.com", EmailFields: map[string]string{"name": "Ana"}},
			ok:      true,
			message: "Notification body is valid",
		},
		{
			name:    "missing email destination",
			tmpl:    emailTemplate(),
			req:     Request{EmailFields: map[string]string{"name": "Ana"}},
			ok:      false,
			message: "Email was not found in body",
		},
		{
			name:    "missing email field",
			tmpl:    emailTemplate(),
			req:     Request{Email: "a@b.com", EmailFields: map[string]string{}},
			ok:      false,
			message: "Email field name was not found",
		},
		{
			name: "missing cellphone",
			tmpl: bothChannelsTemplate(),
			req: Request{
				Email:       "a@b.com",
				EmailFields: map[string]string{"name": "Ana"},
			},
			ok:      false,
			message: "Cellphone was not found in body",
		},
		{
			name: "missing whatsapp field",
			tmpl: bothChannelsTemplate(),
			req: Request{
				Email:          "a@b.com",
				EmailFields:    map[string]string{"name": "Ana"},
				Cellphone:      "5527000000000",
				WhatsAppFields: map[string]string{"name": "Ana"},
			},
			ok:      false,
			message: "Whatsapp field course was not found",
		},
		{
			name: "valid both channels",
			tmpl: bothChannelsTemplate(),
			req: Request{
				Email:          "a@b.com",
				EmailFields:    map[string]string{"name": "Ana"},
				Cellphone:      "5527000000000",
				WhatsAppFields: map[string]string{"name": "Ana", "course": "Math"},
			},
			ok:      true,
			message: "Notification body is valid",
		},
		{
			name:    "no channels enabled accepts anything",
			tmpl:    &models.Template{ID: "t2", Title: "Noop"},
			req:     Request{},
			ok:      true,
			message: "Notification body is valid",
		},
		{
			name:    "field value may be empty as long as the key is present",
			tmpl:    emailTemplate(),
			req:     Request{Email: "a@b.com", EmailFields: map[string]string{"name": ""}},
			ok:      true,
			message: "Notification body is valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := Validate(tt.tmpl, tt.req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.message, msg)
		})
	}
}
