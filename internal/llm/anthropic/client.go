package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/docfolio/docfolio/internal/llm"
)

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

type KeyProvider interface {
	Key() string
}

type Client struct {
	cfg        Config
	keys       KeyProvider
	httpClient *http.Client
	logger     *slog.Logger
}

func New(cfg Config, keys KeyProvider, logger *slog.Logger) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "claude-3-5-sonnet-latest"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		keys:       keys,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *Client) Reply(ctx context.Context, input llm.MessageInput) (string, error) {
	apiKey := ""
	if c.keys != nil {
		apiKey = strings.TrimSpace(c.keys.Key())
	}
	if apiKey == "" {
		return "", fmt.Errorf("%w: missing API key", llm.ErrUnavailable)
	}

	systemPrompt := buildSystemPrompt(input)

	messages := []map[string]string{}
	for _, turn := range input.History {
		role := strings.TrimSpace(turn.Role)
		content := strings.TrimSpace(turn.Content)
		if content == "" || (role != "user" && role != "assistant") {
			continue
		}
		messages = append(messages, map[string]string{"role": role, "content": content})
	}
	messages = append(messages, map[string]string{"role": "user", "content": strings.TrimSpace(input.Text)})

	payload := map[string]any{
		"model":      c.cfg.Model,
		"max_tokens": 4096,
		"system":     systemPrompt,
		"messages":   messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal anthropic request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("content-type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Error("anthropic request failed", "status", res.StatusCode, "body", strings.TrimSpace(string(respBody)))
		return "", fmt.Errorf("%w: anthropic failed with status %d", llm.ErrUnavailable, res.StatusCode)
	}

	var response messagesResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	for _, block := range response.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}

func buildSystemPrompt(input llm.MessageInput) string {
	sections := []string{}
	if prompt := strings.TrimSpace(input.SystemPrompt); prompt != "" {
		sections = append(sections, prompt)
	}
	if workspace := strings.TrimSpace(input.WorkspaceContext); workspace != "" {
		sections = append(sections, "WORKSPACE STATE:\n"+workspace)
	}
	if attached := strings.TrimSpace(input.AttachedDocument); attached != "" {
		sections = append(sections, "ATTACHED DOCUMENT:\n"+attached)
	}
	return strings.Join(sections, "\n\n")
}
