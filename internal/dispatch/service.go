package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"github.com/lumaensino/notify/internal/channels"
	"github.com/lumaensino/notify/internal/metrics"
	"github.com/lumaensino/notify/internal/models"
	"github.com/lumaensino/notify/internal/services"
)

// Header keys carrying routing metadata alongside the raw request body.
const (
	HeaderNotificationID = "notification_id"
	HeaderMessageID      = "message_id"
)

// Enqueuer is the queue transport seen from the accept path.
type Enqueuer interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

// Service runs the synchronous accept path: resolve the template, run the
// validation gate and hand the raw body to the queue. Every outcome, accepted
// or not, produces one api_call audit entry.
type Service struct {
	templates *services.TemplateService
	audit     *services.AuditService
	queue     Enqueuer
}

func NewService(templates *services.TemplateService, audit *services.AuditService, queue Enqueuer) *Service {
	return &Service{templates: templates, audit: audit, queue: queue}
}

// Reject records a caller error that was detected before the template lookup,
// such as a missing body or missing notification id.
func (s *Service) Reject(message string) channels.Result {
	metrics.IncDispatchRejected()
	res := channels.Result{Code: http.StatusBadRequest, Message: message}
	s.audit.Record(time.Now(), res.Code, res.Message, models.EntryTypeAPICall, "", "", "")
	return res
}

// Accept validates the raw request body against the referenced template and
// enqueues it. The returned result reflects admission only, never delivery.
func (s *Service) Accept(ctx context.Context, notificationID string, raw []byte) channels.Result {
	now := time.Now()

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return s.Reject("No body was found")
	}

	tmpl, err := s.templates.Get(notificationID)
	if err != nil {
		res := channels.Result{Code: http.StatusInternalServerError, Message: err.Error()}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res = channels.Result{Code: http.StatusNotFound, Message: "Notification not found"}
		}
		metrics.IncDispatchRejected()
		s.audit.Record(now, res.Code, res.Message, models.EntryTypeAPICall, "", "", "")
		return res
	}

	if ok, msg := Validate(tmpl, req); !ok {
		metrics.IncDispatchRejected()
		s.audit.Record(now, http.StatusBadRequest, msg, models.EntryTypeAPICall, "", "", "")
		return channels.Result{Code: http.StatusBadRequest, Message: msg}
	}

	messageID := uuid.New().String()
	headers := []kafka.Header{
		{Key: HeaderNotificationID, Value: []byte(notificationID)},
		{Key: HeaderMessageID, Value: []byte(messageID)},
	}
	if err := s.queue.Publish(ctx, []byte(notificationID), raw, headers...); err != nil {
		res := channels.Result{Code: http.StatusInternalServerError, Message: err.Error()}
		s.audit.Record(now, res.Code, res.Message, models.EntryTypeAPICall, "", "", "")
		return res
	}

	metrics.IncDispatchAccepted()
	msg := fmt.Sprintf("Message %s accepted!", notificationID)
	s.audit.Record(now, http.StatusOK, msg, models.EntryTypeAPICall, "", "", "")
	return channels.Result{Code: http.StatusOK, Message: msg}
}
