package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumaensino/notify/internal/services"
)

// LogHandler exposes a windowed read over the audit trail. The pipeline only
// ever writes entries; this is the single read surface.
type LogHandler struct {
	service *services.AuditService
	window  time.Duration
}

func NewLogHandler(s *services.AuditService, window time.Duration) *LogHandler {
	return &LogHandler{service: s, window: window}
}

func (h *LogHandler) List(c *gin.Context) {
	entries, err := h.service.Scan(h.window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve logs"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
