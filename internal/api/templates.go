package api

import (
	"net/http"

	"whatsapp-console/internal/models"
	"whatsapp-console/internal/store"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	store *store.Store
}

func NewTemplateHandler(st *store.Store) *TemplateHandler {
	return &TemplateHandler{store: st}
}

// GetTemplates lists templates, optionally filtered by approval status via
// ?status=.
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	var (
		templates []models.Template
		err       error
	)
	if status := c.Query("status"); status != "" {
		templates, err = h.store.ListTemplatesByStatus(status)
	} else {
		templates, err = h.store.ListTemplates()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	tpl, err := h.store.GetTemplate(c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch template"})
		return
	}
	c.JSON(http.StatusOK, tpl)
}

type CreateTemplateRequest struct {
	Name               string  `json:"name" binding:"required"`
	Content            string  `json:"content" binding:"required"`
	Category           string  `json:"category" binding:"required"`
	Language           string  `json:"language"`
	Status             string  `json:"status" binding:"required,oneof=approved pending rejected"`
	WhatsAppTemplateID *string `json:"whatsappTemplateId"`
}

func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl := models.Template{
		Name:               req.Name,
		Content:            req.Content,
		Category:           req.Category,
		Language:           req.Language,
		Status:             req.Status,
		WhatsAppTemplateID: req.WhatsAppTemplateID,
	}
	if err := h.store.CreateTemplate(&tpl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

type UpdateTemplateRequest struct {
	Name               *string `json:"name"`
	Content            *string `json:"content"`
	Category           *string `json:"category"`
	Language           *string `json:"language"`
	Status             *string `json:"status"`
	WhatsAppTemplateID *string `json:"whatsappTemplateId"`
}

func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl, err := h.store.UpdateTemplate(c.Param("id"), store.TemplateUpdate{
		Name:               req.Name,
		Content:            req.Content,
		Category:           req.Category,
		Language:           req.Language,
		Status:             req.Status,
		WhatsAppTemplateID: req.WhatsAppTemplateID,
	})
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template"})
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.store.DeleteTemplate(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template"})
		return
	}
	c.Status(http.StatusNoContent)
}
