// Package line implements the small slice of the LINE Messaging API this
// service needs: webhook signature verification, message content download,
// and text replies.
package line

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	apiBaseURL     = "https://api.line.me"
	apiDataBaseURL = "https://api-data.line.me"
)

var ErrNotConfigured = errors.New("line channel is not configured")

type Client struct {
	channelSecret string
	channelToken  string
	apiBase       string
	dataBase      string
	http          *http.Client
}

func NewClient(channelSecret, channelToken string) *Client {
	return &Client{
		channelSecret: channelSecret,
		channelToken:  channelToken,
		apiBase:       apiBaseURL,
		dataBase:      apiDataBaseURL,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.channelSecret != "" && c.channelToken != ""
}

// ValidateSignature checks the X-Line-Signature header against the raw
// request body (HMAC-SHA256 with the channel secret, base64-encoded).
func (c *Client) ValidateSignature(body []byte, signature string) bool {
	if !c.Enabled() {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type Event struct {
	Type       string  `json:"type"`
	ReplyToken string  `json:"replyToken"`
	Message    Message `json:"message"`
}

type webhookBody struct {
	Events []Event `json:"events"`
}

// ParseWebhook decodes the webhook payload into its events.
func ParseWebhook(body []byte) ([]Event, error) {
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}
	return wb.Events, nil
}

// GetMessageContent downloads the binary content (the screenshot) of a
// message from the content endpoint.
func (c *Client) GetMessageContent(ctx context.Context, messageID string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/v2/bot/message/%s/content", c.dataBase, messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download message content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download message content: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

// ReplyText sends a single text message in response to a webhook event.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(replyRequest{
		ReplyToken: replyToken,
		Messages:   []textMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v2/bot/message/reply", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.channelToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("reply message: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
