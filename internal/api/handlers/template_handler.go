package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lumaensino/notify/internal/models"
	"github.com/lumaensino/notify/internal/services"
)

// TemplateHandler exposes template store CRUD over HTTP.
type TemplateHandler struct {
	service *services.TemplateService
}

func NewTemplateHandler(s *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: s}
}

func (h *TemplateHandler) Create(c *gin.Context) {
	var p models.TemplatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No body was found"})
		return
	}
	tmpl, err := h.service.Create(&p)
	if err != nil {
		var verr models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create notification"})
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

func (h *TemplateHandler) List(c *gin.Context) {
	list, err := h.service.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TemplateHandler) Get(c *gin.Context) {
	tmpl, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get notification"})
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (h *TemplateHandler) Update(c *gin.Context) {
	var p models.TemplatePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No body was found"})
		return
	}
	tmpl, err := h.service.Update(c.Param("id"), &p)
	if err != nil {
		var verr models.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		}
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	tmpl, err := h.service.Delete(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete notification"})
		return
	}
	c.JSON(http.StatusOK, tmpl)
}
