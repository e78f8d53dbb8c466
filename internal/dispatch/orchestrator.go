package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/lumaensino/notify/internal/channels"
	"github.com/lumaensino/notify/internal/logger"
	"github.com/lumaensino/notify/internal/metrics"
	"github.com/lumaensino/notify/internal/models"
	"github.com/lumaensino/notify/internal/services"
)

// Reader is the queue transport seen from the dispatch path.
type Reader interface {
	Read(ctx context.Context) (kafka.Message, error)
}

// Orchestrator consumes queue messages and drives per-channel delivery. Each
// enabled channel is attempted independently and in a fixed order, so one
// provider failing never blocks the other and audit entries for a message are
// always written email first, whatsapp second.
type Orchestrator struct {
	templates *services.TemplateService
	audit     *services.AuditService
	email     channels.Adapter
	whatsapp  channels.Adapter
}

func NewOrchestrator(templates *services.TemplateService, audit *services.AuditService, email, whatsapp channels.Adapter) *Orchestrator {
	return &Orchestrator{
		templates: templates,
		audit:     audit,
		email:     email,
		whatsapp:  whatsapp,
	}
}

// Run consumes messages until the context is cancelled or the reader fails.
func (o *Orchestrator) Run(ctx context.Context, r Reader) error {
	for {
		m, err := r.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		o.Handle(ctx, m)
	}
}

// Handle processes one queue message. Redelivery of the same message writes
// additional audit entries; it never corrupts state.
func (o *Orchestrator) Handle(ctx context.Context, m kafka.Message) {
	now := time.Now()

	notificationID := headerValue(m, HeaderNotificationID)
	if notificationID == "" {
		notificationID = string(m.Key)
	}
	messageID := headerValue(m, HeaderMessageID)

	log := logger.WithFields(map[string]interface{}{
		"notification_id": notificationID,
		"message_id":      messageID,
	})

	var req Request
	if err := json.Unmarshal(m.Value, &req); err != nil {
		log.Errorf("dropping malformed dispatch message: %v", err)
		return
	}

	tmpl, err := o.templates.Get(notificationID)
	if err != nil {
		// Fatal to this message: no fan-out without a resolved template.
		metrics.IncTemplateMiss()
		log.Errorf("couldn't find the notification to send. Here is the error message: %v", err)
		return
	}

	for _, a := range o.attempts(tmpl, req, messageID) {
		res := a.adapter.Send(ctx, a.msg)
		o.audit.Record(now, res.Code, res.Message, a.entryType, a.msg.To, tmpl.ID, tmpl.Title)
		metrics.IncChannelAttempt(string(a.entryType), res.OK())
	}
}

type attempt struct {
	entryType models.EntryType
	adapter   channels.Adapter
	msg       channels.Message
}

// attempts resolves the template's channel flags into an ordered list of
// (adapter, destination, fields) tuples. A template with no channel enabled
// yields an empty list, which is a legal no-op.
func (o *Orchestrator) attempts(tmpl *models.Template, req Request, messageID string) []attempt {
	var out []attempt
	if tmpl.SendEmail {
		out = append(out, attempt{
			entryType: models.EntryTypeEmail,
			adapter:   o.email,
			msg: channels.Message{
				Ref:       tmpl.EmailID,
				To:        req.Email,
				Fields:    req.EmailFields,
				MessageID: messageID,
			},
		})
	}
	if tmpl.SendWhatsApp {
		out = append(out, attempt{
			entryType: models.EntryTypeWhatsApp,
			adapter:   o.whatsapp,
			msg: channels.Message{
				Ref:       tmpl.TemplateName,
				To:        req.Cellphone,
				Fields:    req.WhatsAppFields,
				MessageID: messageID,
			},
		})
	}
	return out
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
