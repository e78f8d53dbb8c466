package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryType marks which pipeline stage produced an audit entry.
type EntryType string

const (
	EntryTypeAPICall  EntryType = "api_call"
	EntryTypeEmail    EntryType = "email"
	EntryTypeWhatsApp EntryType = "whatsapp"
)

// LogEntry is one append-only audit record of one attempted operation.
// Entries are never updated or deleted by the pipeline; the retention sweep
// may prune them by age.
type LogEntry struct {
	ID                string    `gorm:"primaryKey" json:"log_id"`
	Actor             string    `json:"actor"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`
	Status            int       `json:"status"`
	Type              EntryType `json:"type"`
	ToUser            string    `json:"to_user"`
	NotificationID    string    `json:"notification_id"`
	NotificationTitle string    `json:"notification_title"`
	Message           string    `json:"message"`
}

func (e *LogEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}
