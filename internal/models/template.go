package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FieldList is an ordered set of required field names, stored as JSON text.
type FieldList []string

func (f FieldList) Value() (driver.Value, error) {
	if f == nil {
		f = FieldList{}
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *FieldList) Scan(value interface{}) error {
	if value == nil {
		*f = FieldList{}
		return nil
	}
	switch v := value.(type) {
	case string:
		return json.Unmarshal([]byte(v), f)
	case []byte:
		return json.Unmarshal(v, f)
	default:
		return fmt.Errorf("unsupported field list column type %T", value)
	}
}

// Template defines a notification: which channels it fans out to, the
// provider-side template identifiers and the field names every dispatch
// request must supply per channel.
type Template struct {
	ID             string    `gorm:"primaryKey" json:"notification_id"`
	Title          string    `json:"title"`
	SendEmail      bool      `json:"send_email"`
	SendWhatsApp   bool      `json:"send_whatsapp"`
	EmailID        string    `json:"email_id"`
	EmailFields    FieldList `gorm:"type:text" json:"email_fields"`
	TemplateName   string    `json:"template_name"`
	WhatsAppFields FieldList `gorm:"type:text" json:"whatsapp_fields"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}

// ValidationError is a caller error carrying the user-facing message.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// TemplatePayload is the create/update request body. The channel toggles are
// pointers so a missing toggle can be told apart from an explicit false.
type TemplatePayload struct {
	Title          string    `json:"title"`
	SendEmail      *bool     `json:"send_email"`
	SendWhatsApp   *bool     `json:"send_whatsapp"`
	EmailID        string    `json:"email_id"`
	EmailFields    FieldList `json:"email_fields"`
	TemplateName   string    `json:"template_name"`
	WhatsAppFields FieldList `json:"whatsapp_fields"`
}

// Validate enforces the channel invariants: an enabled channel always carries
// its provider template id and a non-empty required-field list.
func (p *TemplatePayload) Validate() (bool, string) {
	if p.Title == "" {
		return false, "No title was provided"
	}
	if p.SendEmail == nil || p.SendWhatsApp == nil {
		return false, "Please, toggle the send_email or whatsapp"
	}
	if *p.SendEmail {
		if p.EmailID == "" {
			return false, "No email template id was provided"
		}
		if len(p.EmailFields) == 0 {
			return false, "No email fields were provided"
		}
	}
	if *p.SendWhatsApp {
		if p.TemplateName == "" {
			return false, "No template name was provided"
		}
		if len(p.WhatsAppFields) == 0 {
			return false, "No whatsapp fields were provided"
		}
	}
	return true, "OK"
}

// Apply copies the payload onto a template row. Update is a full replace of
// every caller-settable field.
func (p *TemplatePayload) Apply(t *Template) {
	t.Title = p.Title
	t.SendEmail = p.SendEmail != nil && *p.SendEmail
	t.SendWhatsApp = p.SendWhatsApp != nil && *p.SendWhatsApp
	t.EmailID = p.EmailID
	t.EmailFields = p.EmailFields
	t.TemplateName = p.TemplateName
	t.WhatsAppFields = p.WhatsAppFields
}
