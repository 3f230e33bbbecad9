package openai

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

// KeyProvider supplies the current API key on every call so that reloaded
// credentials take effect without rebuilding the client.
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
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o"
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

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Reply(ctx context.Context, input llm.MessageInput) (string, error) {
	apiKey := ""
	if c.keys != nil {
		apiKey = strings.TrimSpace(c.keys.Key())
	}
	if apiKey == "" {
		return "", fmt.Errorf("%w: missing API key", llm.ErrUnavailable)
	}
	userText := strings.TrimSpace(input.Text)
	if userText == "" {
		return "", nil
	}

	messages := []map[string]string{}
	if systemPrompt := buildSystemPrompt(input); systemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	}
	for _, turn := range input.History {
		role := strings.TrimSpace(turn.Role)
		content := strings.TrimSpace(turn.Content)
		if content == "" || (role != "user" && role != "assistant") {
			continue
		}
		messages = append(messages, map[string]string{"role": role, "content": content})
	}
	messages = append(messages, map[string]string{"role": "user", "content": userText})

	payload := map[string]any{
		"model":    c.cfg.Model,
		"messages": messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal openai request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

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
		c.logger.Error("openai chat completion failed", "status", res.StatusCode, "body", strings.TrimSpace(string(respBody)))
		return "", fmt.Errorf("%w: openai completion failed with status %d", llm.ErrUnavailable, res.StatusCode)
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("openai response returned no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
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
