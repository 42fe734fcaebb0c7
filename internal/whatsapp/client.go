// Package whatsapp wraps the WhatsApp Cloud API messages endpoint. The
// client distinguishes configuration failures (missing credentials, reported
// in-band so callers can keep recording locally) from transport failures
// (returned as errors).
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"whatsapp-console/internal/config"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://graph.facebook.com"

// requestTimeout bounds every provider call so a stalled upstream cannot
// stall the record-first path at the send endpoint.
const requestTimeout = 10 * time.Second

type Client struct {
	cfg *config.Config

	// BaseURL is overridable for tests; defaults to the Graph API host.
	BaseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:        cfg,
		BaseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether provider credentials are present. When false,
// sends degrade to soft no-ops instead of erroring.
func (c *Client) Configured() bool {
	return c.cfg.WhatsAppToken != "" && c.cfg.PhoneNumberID != ""
}

type textObj struct {
	Body string `json:"body"`
}

type templateObj struct {
	Name       string        `json:"name"`
	Language   languageObj   `json:"language"`
	Components []interface{} `json:"components"`
}

type languageObj struct {
	Code string `json:"code"`
}

type outboundMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type,omitempty"`
	To               string       `json:"to,omitempty"`
	Type             string       `json:"type,omitempty"`
	Text             *textObj     `json:"text,omitempty"`
	Template         *templateObj `json:"template,omitempty"`
	Status           string       `json:"status,omitempty"`
	MessageID        string       `json:"message_id,omitempty"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendText delivers a text message and returns the provider-assigned message
// id. With unconfigured credentials it returns ("", nil): the caller records
// the message locally without a provider id.
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	if !c.Configured() {
		log.Warn().Str("to", to).Msg("whatsapp credentials not configured, message not dispatched")
		return "", nil
	}

	msg := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               normalizeNumber(to),
		Type:             "text",
		Text:             &textObj{Body: body},
	}
	return c.postMessage(ctx, msg)
}

// SendTemplate delivers a pre-approved template message.
func (c *Client) SendTemplate(ctx context.Context, to, name, languageCode string, components []interface{}) (string, error) {
	if !c.Configured() {
		log.Warn().Str("to", to).Str("template", name).Msg("whatsapp credentials not configured, template not dispatched")
		return "", nil
	}
	if languageCode == "" {
		languageCode = "en"
	}
	if components == nil {
		components = []interface{}{}
	}

	msg := outboundMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               normalizeNumber(to),
		Type:             "template",
		Template: &templateObj{
			Name:       name,
			Language:   languageObj{Code: languageCode},
			Components: components,
		},
	}
	return c.postMessage(ctx, msg)
}

// MarkRead sends a read receipt for an inbound message. Best effort.
func (c *Client) MarkRead(ctx context.Context, waMessageID string) error {
	if !c.Configured() {
		return nil
	}

	msg := outboundMessage{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        waMessageID,
	}
	_, err := c.postMessage(ctx, msg)
	return err
}

func (c *Client) postMessage(ctx context.Context, msg outboundMessage) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/messages", c.BaseURL, c.cfg.APIVersion, c.cfg.PhoneNumberID)

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.WhatsAppToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("whatsapp API error: %s - %s", resp.Status, string(respBody))
	}

	var parsed sendResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil
	}
	if len(parsed.Messages) == 0 {
		return "", nil
	}
	return parsed.Messages[0].ID, nil
}

// normalizeNumber strips the leading + the console UI tends to include; the
// Cloud API expects bare digits.
func normalizeNumber(phone string) string {
	return strings.ReplaceAll(phone, "+", "")
}
