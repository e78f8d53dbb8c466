package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumaensino/notify/internal/models"
	"github.com/lumaensino/notify/internal/services"
)

func openDispatchTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Template{}, &models.LogEntry{}))
	return db
}

func seedTemplate(t *testing.T, db *gorm.DB, tmpl *models.Template) *models.Template {
	t.Helper()
	require.NoError(t, db.Create(tmpl).Error)
	return tmpl
}

type published struct {
	key     []byte
	value   []byte
	headers []kafka.Header
}

type fakeEnqueuer struct {
	err       error
	published []published
}

func (f *fakeEnqueuer) Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{key: key, value: value, headers: headers})
	return nil
}

func auditEntries(t *testing.T, db *gorm.DB) []models.LogEntry {
	t.Helper()
	var entries []models.LogEntry
	require.NoError(t, db.Order("created_at asc").Find(&entries).Error)
	return entries
}

func newAcceptService(db *gorm.DB, q Enqueuer) *Service {
	return NewService(services.NewTemplateService(db), services.NewAuditService(db, "notify"), q)
}

func TestService_AcceptValidRequest(t *testing.T) {
	db := openDispatchTestDB(t)
	tmpl := seedTemplate(t, db, emailTemplate())
	q := &fakeEnqueuer{}
	svc := newAcceptService(db, q)

	raw := []byte(`{"email":"a@b.com","email_fields":{"name":"Ana"}}`)
	res := svc.Accept(context.Background(), tmpl.ID, raw)

	require.True(t, res.OK())
	assert.Equal(t, fmt.Sprintf("Message %s accepted!", tmpl.ID), res.Message)

	require.Len(t, q.published, 1)
	assert.Equal(t, []byte(tmpl.ID), q.published[0].key)
	assert.Equal(t, raw, q.published[0].value)

	headers := map[string]string{}
	for _, h := range q.published[0].headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, tmpl.ID, headers[HeaderNotificationID])
	assert.NotEmpty(t, headers[HeaderMessageID])

	entries := auditEntries(t, db)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntryTypeAPICall, entries[0].Type)
	assert.Equal(t, http.StatusOK, entries[0].Status)
}

func TestService_AcceptValidationFailureNotEnqueued(t *testing.T) {
	db := openDispatchTestDB(t)
	tmpl := seedTemplate(t, db, emailTemplate())
	q := &fakeEnqueuer{}
	svc := newAcceptService(db, q)

	res := svc.Accept(context.Background(), tmpl.ID, []byte(`{"email":"a@b.com","email_fields":{}}`))

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Email field name was not found", res.Message)
	assert.Empty(t, q.published)

	entries := auditEntries(t, db)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntryTypeAPICall, entries[0].Type)
	assert.Equal(t, http.StatusBadRequest, entries[0].Status)
	assert.Equal(t, "Email field name was not found", entries[0].Message)
}

func TestService_AcceptUnknownTemplate(t *testing.T) {
	db := openDispatchTestDB(t)
	q := &fakeEnqueuer{}
	svc := newAcceptService(db, q)

	res := svc.Accept(context.Background(), "missing", []byte(`{"email":"a@b.com"}`))

	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Notification not found", res.Message)
	assert.Empty(t, q.published)

	entries := auditEntries(t, db)
	require.Len(t, entries, 1)
	assert.Equal(t, http.StatusNotFound, entries[0].Status)
}

func TestService_AcceptEnqueueFailure(t *testing.T) {
	db := openDispatchTestDB(t)
	tmpl := seedTemplate(t, db, emailTemplate())
	q := &fakeEnqueuer{err: errors.New("broker unreachable")}
	svc := newAcceptService(db, q)

	res := svc.Accept(context.Background(), tmpl.ID, []byte(`{"email":"a@b.com","email_fields":{"name":"Ana"}}`))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "broker unreachable", res.Message)

	entries := auditEntries(t, db)
	require.Len(t, entries, 1)
	assert.Equal(t, http.StatusInternalServerError, entries[0].Status)
}

func TestService_AcceptTwiceWritesIndependentEntries(t *testing.T) {
	db := openDispatchTestDB(t)
	tmpl := seedTemplate(t, db, emailTemplate())
	q := &fakeEnqueuer{}
	svc := newAcceptService(db, q)

	raw := []byte(`{"email":"a@b.com","email_fields":{"name":"Ana"}}`)
	require.True(t, svc.Accept(context.Background(), tmpl.ID, raw).OK())
	require.True(t, svc.Accept(context.Background(), tmpl.ID, raw).OK())

	assert.Len(t, q.published, 2)
	assert.Len(t, auditEntries(t, db), 2)
}

func TestService_Reject(t *testing.T) {
	db := openDispatchTestDB(t)
	svc := newAcceptService(db, &fakeEnqueuer{})

	res := svc.Reject("No body was found")

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "No body was found", res.Message)

	entries := auditEntries(t, db)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntryTypeAPICall, entries[0].Type)
	assert.Equal(t, "No body was found", entries[0].Message)
}
