package api

import (
	"encoding/json"
	"net/http"

	"whatsapp-console/internal/models"
	"whatsapp-console/internal/store"

	"github.com/gin-gonic/gin"
)

type FlowHandler struct {
	store *store.Store
}

func NewFlowHandler(st *store.Store) *FlowHandler {
	return &FlowHandler{store: st}
}

func (h *FlowHandler) GetFlows(c *gin.Context) {
	flows, err := h.store.ListFlows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flows"})
		return
	}
	c.JSON(http.StatusOK, flows)
}

func (h *FlowHandler) GetActiveFlows(c *gin.Context) {
	flows, err := h.store.ListActiveFlows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch active flows"})
		return
	}
	c.JSON(http.StatusOK, flows)
}

func (h *FlowHandler) GetFlow(c *gin.Context) {
	flow, err := h.store.GetFlow(c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flow"})
		return
	}
	c.JSON(http.StatusOK, flow)
}

type CreateFlowRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	IsActive    int             `json:"isActive"`
	FlowData    json.RawMessage `json:"flowData" binding:"required"`
}

func (h *FlowHandler) CreateFlow(c *gin.Context) {
	var req CreateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow := models.Flow{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		FlowData:    models.JSONText(req.FlowData),
	}
	if err := h.store.CreateFlow(&flow); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create flow"})
		return
	}
	c.JSON(http.StatusCreated, flow)
}

type UpdateFlowRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	IsActive    *int            `json:"isActive"`
	FlowData    json.RawMessage `json:"flowData"`
}

func (h *FlowHandler) UpdateFlow(c *gin.Context) {
	var req UpdateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flow, err := h.store.UpdateFlow(c.Param("id"), store.FlowUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		FlowData:    req.FlowData,
	})
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flow not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update flow"})
		return
	}
	c.JSON(http.StatusOK, flow)
}

func (h *FlowHandler) DeleteFlow(c *gin.Context) {
	if err := h.store.DeleteFlow(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete flow"})
		return
	}
	c.Status(http.StatusNoContent)
}
