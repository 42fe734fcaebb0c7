package api

import (
	"net/http"

	"whatsapp-console/internal/models"
	"whatsapp-console/internal/store"
	"whatsapp-console/internal/whatsapp"
	"whatsapp-console/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SendHandler struct {
	store  *store.Store
	client *whatsapp.Client
	hub    *ws.Hub
}

func NewSendHandler(st *store.Store, client *whatsapp.Client, hub *ws.Hub) *SendHandler {
	return &SendHandler{store: st, client: client, hub: hub}
}

type SendMessageRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Message     string `json:"message" binding:"required"`
	TemplateID  string `json:"templateId"`
}

// SendMessage dispatches a text to the provider and records it. The record
// is created even when dispatch fails: conversation history must not depend
// on the provider being reachable, so transport errors only cost the
// provider message id.
func (h *SendHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and message are required"})
		return
	}

	contact, _, err := h.store.UpsertContact(req.PhoneNumber, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	waMessageID, err := h.client.SendText(c.Request.Context(), req.PhoneNumber, req.Message)
	if err != nil {
		log.Warn().Err(err).Str("to", req.PhoneNumber).Msg("whatsapp dispatch failed, recording message anyway")
		waMessageID = ""
	}

	messageType := "text"
	if req.TemplateID != "" {
		messageType = "template"
	}
	msg := models.Message{
		ContactID:   contact.ID,
		Direction:   models.DirectionOutbound,
		Content:     req.Message,
		MessageType: messageType,
		Status:      models.StatusSent,
	}
	if waMessageID != "" {
		msg.WhatsAppMessageID = &waMessageID
	}
	if err := h.store.CreateMessage(&msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	h.hub.NotifyMessage(&msg)
	c.JSON(http.StatusCreated, msg)
}
