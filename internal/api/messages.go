package api

import (
	"net/http"

	"whatsapp-console/internal/models"
	"whatsapp-console/internal/store"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	store *store.Store
}

func NewMessageHandler(st *store.Store) *MessageHandler {
	return &MessageHandler{store: st}
}

func (h *MessageHandler) GetMessages(c *gin.Context) {
	messages, err := h.store.ListMessages()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) GetMessagesByContact(c *gin.Context) {
	messages, err := h.store.ListMessagesByContact(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

type CreateMessageRequest struct {
	ContactID         string  `json:"contactId" binding:"required"`
	Direction         string  `json:"direction" binding:"required,oneof=inbound outbound"`
	Content           string  `json:"content" binding:"required"`
	MessageType       string  `json:"messageType" binding:"required"`
	Status            string  `json:"status"`
	WhatsAppMessageID *string `json:"whatsappMessageId"`
}

func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.GetContact(req.ContactID); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown contact"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	msg := models.Message{
		ContactID:         req.ContactID,
		Direction:         req.Direction,
		Content:           req.Content,
		MessageType:       req.MessageType,
		Status:            req.Status,
		WhatsAppMessageID: req.WhatsAppMessageID,
	}
	if err := h.store.CreateMessage(&msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateMessageStatus sets a message's status directly. Unlike the webhook
// path this is unconditional; it backs manual corrections from the console.
func (h *MessageHandler) UpdateMessageStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	msg, err := h.store.SetMessageStatus(c.Param("id"), req.Status)
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update message status"})
		return
	}
	c.JSON(http.StatusOK, msg)
}
