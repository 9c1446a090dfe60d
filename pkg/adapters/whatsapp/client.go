// Package whatsapp implements ports.Sender against the Meta Graph API and
// models the webhook payloads the platform delivers.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avasarlabs/santosh/internal/logging"
	"github.com/avasarlabs/santosh/pkg/domain"
)

// DefaultBaseURL is the Graph API root the client talks to.
const DefaultBaseURL = "https://graph.facebook.com/v20.0"

// maxButtons is the platform cap on interactive reply buttons per message.
const maxButtons = 3

// Client sends messages through the WhatsApp Business send API.
type Client struct {
	baseURL       string
	token         string
	phoneNumberID string
	httpClient    *http.Client
	logger        *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the Graph API root (used in tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for one business phone number.
func NewClient(token, phoneNumberID string, opts ...Option) *Client {
	c := &Client{
		baseURL:       DefaultBaseURL,
		token:         token,
		phoneNumberID: phoneNumberID,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send implements ports.Sender. Replies with CTAs go out as interactive
// button messages, replies with media as image messages, everything else as
// plain text. One attempt only; the caller decides what a failure means.
func (c *Client) Send(ctx context.Context, to string, reply domain.Reply) error {
	payload := c.buildPayload(to, reply)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding send payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("send rejected: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

func (c *Client) buildPayload(to string, reply domain.Reply) map[string]any {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
	}

	ctas := reply.ReplyCTAs()
	switch {
	case len(ctas) > 0:
		if len(ctas) > maxButtons {
			c.logger.Warn("truncating reply buttons to platform cap",
				"have", len(ctas),
				"cap", maxButtons,
			)
			ctas = ctas[:maxButtons]
		}
		buttons := make([]map[string]any, 0, len(ctas))
		for _, cta := range ctas {
			buttons = append(buttons, map[string]any{
				"type": "reply",
				"reply": map[string]any{
					"id":    cta.ID,
					"title": cta.Text,
				},
			})
		}
		payload["type"] = "interactive"
		payload["interactive"] = map[string]any{
			"type":   "button",
			"body":   map[string]any{"text": reply.ReplyText()},
			"action": map[string]any{"buttons": buttons},
		}
	case reply.ReplyMedia() != "":
		payload["type"] = "image"
		payload["image"] = map[string]any{
			"link":    reply.ReplyMedia(),
			"caption": reply.ReplyText(),
		}
	default:
		payload["type"] = "text"
		payload["text"] = map[string]any{"body": reply.ReplyText()}
	}

	return payload
}
