package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/youruser/anycoder/internal/logging"
)

var (
	ErrRequestFailed = errors.New("API request failed")
	ErrEmptyResponse = errors.New("empty completion response")
	log              = logging.Get()
)

const defaultRequestTimeout = 60 * time.Second

// Client handles communication with the LLM API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new LLM client for an OpenAI-compatible endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Complete sends a non-streaming chat request and returns the assistant's
// response content. The context bounds the whole round-trip; a default
// timeout is applied when the caller's context carries no deadline.
func (c *Client) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
	}

	temp := 0.2 // completions should be deterministic-ish
	reqBody := ChatRequest{
		Model:       model,
		Messages:    messages,
		Stream:      false,
		Temperature: &temp,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Debug("HTTP POST %s/chat/completions (model: %s, messages: %d)",
		c.baseURL, model, len(messages))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("HTTP request failed: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	log.Debug("HTTP response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("API error %d: %s", resp.StatusCode, string(body))
		return "", fmt.Errorf("%w: %d - %s", ErrRequestFailed, resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrRequestFailed, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	msg := chatResp.Choices[0].Message
	if msg == nil || msg.Content == "" {
		return "", ErrEmptyResponse
	}

	return msg.Content, nil
}
