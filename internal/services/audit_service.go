package services

import (
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/lumaensino/notify/internal/channels"
	"github.com/lumaensino/notify/internal/logger"
	"github.com/lumaensino/notify/internal/metrics"
	"github.com/lumaensino/notify/internal/models"
)

// AuditService is the audit logger: it turns outcomes into append-only log
// entries. Appends are best effort; a failed write is reported in the returned
// result and logged locally, never escalated to the triggering operation.
type AuditService struct {
	DB    *gorm.DB
	Actor string
}

func NewAuditService(db *gorm.DB, actor string) *AuditService {
	return &AuditService{DB: db, Actor: actor}
}

// Record appends one entry for one attempted operation.
func (s *AuditService) Record(at time.Time, status int, message string, entryType models.EntryType, toUser, notificationID, notificationTitle string) channels.Result {
	entry := models.LogEntry{
		Actor:             s.Actor,
		CreatedAt:         at,
		Status:            status,
		Type:              entryType,
		ToUser:            toUser,
		NotificationID:    notificationID,
		NotificationTitle: notificationTitle,
		Message:           message,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		metrics.IncAuditWriteFailure()
		msg := fmt.Sprintf("Couldn't add log %s to %s. Here's why: %v", entryType, toUser, err)
		logger.WithFields(map[string]interface{}{"type": entryType, "to_user": toUser}).
			Errorf("failed to append audit entry: %v", err)
		return channels.Result{Code: http.StatusInternalServerError, Message: msg}
	}
	return channels.Result{
		Code:    http.StatusOK,
		Message: fmt.Sprintf("Log %s created successfully to %s", entryType, toUser),
	}
}

// Scan returns entries from the given trailing window, newest first.
func (s *AuditService) Scan(window time.Duration) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	since := time.Now().Add(-window)
	err := s.DB.Where("created_at >= ?", since).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Prune deletes entries older than the retention window and reports how many
// rows were removed.
func (s *AuditService) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res := s.DB.Where("created_at < ?", cutoff).Delete(&models.LogEntry{})
	return res.RowsAffected, res.Error
}
