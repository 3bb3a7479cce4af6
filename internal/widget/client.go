// Package widget is the client side of the chat: an HTTP client for the
// backend plus the session logic that keeps one canonical conversation
// across restarts and reconciles optimistic entries with confirmed ones.
package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

// Client talks to the supportchat HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type apiError struct {
	Err string `json:"error"`
}

func (c *Client) CreateConversation(ctx context.Context) (chat.Conversation, error) {
	var conv chat.Conversation
	if err := c.do(ctx, http.MethodPost, "/api/conversations", nil, &conv); err != nil {
		return chat.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (c *Client) Messages(ctx context.Context, conversationID int64) ([]chat.Message, error) {
	var msgs []chat.Message
	path := "/api/conversations/" + strconv.FormatInt(conversationID, 10) + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	return msgs, nil
}

func (c *Client) Send(ctx context.Context, conversationID int64, text string) (chat.TurnResult, error) {
	body := map[string]any{
		"conversationId": conversationID,
		"text":           text,
	}
	var result chat.TurnResult
	if err := c.do(ctx, http.MethodPost, "/api/chat", body, &result); err != nil {
		return chat.TurnResult{}, fmt.Errorf("send message: %w", err)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Err != "" {
			return fmt.Errorf("api error %d: %s", resp.StatusCode, apiErr.Err)
		}
		return fmt.Errorf("api error %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
