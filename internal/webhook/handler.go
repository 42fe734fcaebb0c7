// Package webhook ingests WhatsApp Cloud API callbacks: the one-time
// registration handshake, inbound messages, and delivery status updates.
// Processing is synchronous within the request; a non-2xx answer makes the
// provider redeliver, and the store-level dedup keeps redeliveries from
// duplicating state.
package webhook

import (
	"context"
	"net/http"

	"whatsapp-console/internal/config"
	"whatsapp-console/internal/models"
	"whatsapp-console/internal/store"
	"whatsapp-console/internal/whatsapp"
	"whatsapp-console/internal/ws"
	wire "whatsapp-console/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	cfg    *config.Config
	store  *store.Store
	client *whatsapp.Client
	hub    *ws.Hub
}

func NewHandler(cfg *config.Config, st *store.Store, client *whatsapp.Client, hub *ws.Hub) *Handler {
	return &Handler{cfg: cfg, store: st, client: client, hub: hub}
}

// Verify answers the provider's webhook-registration handshake: echo
// hub.challenge only when the verify token matches.
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || token != h.cfg.VerifyToken {
		c.Status(http.StatusForbidden)
		return
	}

	log.Info().Msg("webhook verified")
	c.String(http.StatusOK, challenge)
}

// HandleEvents consumes an event delivery. Missing entry/changes/messages/
// statuses arrays are valid no-ops; only store failures produce a 500 so the
// provider retries.
func (h *Handler) HandleEvents(c *gin.Context) {
	var payload wire.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if payload.Object != "whatsapp_business_account" {
		c.Status(http.StatusOK)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			if err := h.processValue(c.Request.Context(), change.Value); err != nil {
				log.Error().Err(err).Msg("webhook processing failed")
				c.Status(http.StatusInternalServerError)
				return
			}
		}
	}

	c.Status(http.StatusOK)
}

func (h *Handler) processValue(ctx context.Context, value wire.ChangeValue) error {
	for _, msg := range value.Messages {
		if err := h.ingestMessage(ctx, value, msg); err != nil {
			return err
		}
	}
	for _, status := range value.Statuses {
		if err := h.applyStatus(status); err != nil {
			return err
		}
	}
	return nil
}

// ingestMessage records one inbound message: resolve the contact by phone
// number (creating it with the sender's profile name when the payload has
// one), then store the message keyed by the provider id so replays dedup.
func (h *Handler) ingestMessage(ctx context.Context, value wire.ChangeValue, msg wire.WebhookMessage) error {
	var name *string
	if len(value.Contacts) > 0 && value.Contacts[0].Profile.Name != "" {
		n := value.Contacts[0].Profile.Name
		name = &n
	}

	contact, _, err := h.store.UpsertContact(msg.From, name)
	if err != nil {
		return err
	}

	content := ""
	if msg.Text != nil {
		content = msg.Text.Body
	}

	waID := msg.ID
	stored, created, err := h.store.CreateInboundMessage(&models.Message{
		ContactID:         contact.ID,
		Direction:         models.DirectionInbound,
		Content:           content,
		MessageType:       msg.Type,
		Status:            models.StatusReceived,
		WhatsAppMessageID: &waID,
	})
	if err != nil {
		return err
	}
	if !created {
		log.Debug().Str("wa_message_id", msg.ID).Msg("duplicate webhook delivery ignored")
		return nil
	}

	log.Info().Str("from", msg.From).Str("type", msg.Type).Msg("inbound message stored")
	h.hub.NotifyMessage(stored)

	// Read receipt is best effort; delivery must not fail on it.
	if err := h.client.MarkRead(ctx, msg.ID); err != nil {
		log.Warn().Err(err).Str("wa_message_id", msg.ID).Msg("mark read failed")
	}
	return nil
}

// applyStatus correlates a delivery callback with the message carrying that
// provider id. Unknown ids and stale (out-of-order) statuses are dropped
// silently.
func (h *Handler) applyStatus(status wire.WebhookStatus) error {
	msg, applied, err := h.store.ApplyStatusUpdate(status.ID, status.Status)
	if err != nil {
		return err
	}
	if msg == nil {
		log.Debug().Str("wa_message_id", status.ID).Msg("status for unknown message dropped")
		return nil
	}
	if !applied {
		log.Debug().
			Str("wa_message_id", status.ID).
			Str("current", msg.Status).
			Str("reported", status.Status).
			Msg("stale status ignored")
		return nil
	}

	log.Info().Str("wa_message_id", status.ID).Str("status", status.Status).Msg("message status updated")
	h.hub.NotifyStatus(msg)
	return nil
}
