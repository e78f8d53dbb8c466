package handlers

import (
	"bytes"

	"github.com/gin-gonic/gin"

	"github.com/lumaensino/notify/internal/dispatch"
)

// DispatchHandler is the accept path: it admits dispatch requests onto the
// queue. The response reflects admission only; delivery outcome is observable
// solely through the audit log.
type DispatchHandler struct {
	service *dispatch.Service
}

func NewDispatchHandler(s *dispatch.Service) *DispatchHandler {
	return &DispatchHandler{service: s}
}

func (h *DispatchHandler) Dispatch(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		res := h.service.Reject("No body was found")
		c.JSON(res.Code, gin.H{"message": res.Message})
		return
	}

	id := c.Param("id")
	if id == "" {
		res := h.service.Reject("No notification Id was provided")
		c.JSON(res.Code, gin.H{"message": res.Message})
		return
	}

	res := h.service.Accept(c.Request.Context(), id, raw)
	c.JSON(res.Code, gin.H{"detail": res.Message})
}

// DispatchMissingID handles the dispatch route without a notification id so
// the caller gets the explicit message instead of a bare 404.
func (h *DispatchHandler) DispatchMissingID(c *gin.Context) {
	res := h.service.Reject("No notification Id was provided")
	c.JSON(res.Code, gin.H{"message": res.Message})
}
