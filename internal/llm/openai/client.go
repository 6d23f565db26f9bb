// Package openai binds the chat/completions wire format. DeepSeek serves
// the same format, so both providers are built from this client.
package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

const (
	OpenAIBaseURL   = "https://api.openai.com/v1"
	DeepSeekBaseURL = "https://api.deepseek.com/v1"
)

type Config struct {
	ID      llm.ProviderID
	APIKey  string
	Model   string
	BaseURL string

	Vision       bool
	VisionBudget int
	TextBudget   int
}

// Client is an llm.Provider for OpenAI-compatible chat completions.
type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenAIBaseURL
	}
	if cfg.ID == "" {
		cfg.ID = llm.ProviderOpenAI
	}
	return &Client{cfg: cfg}
}

// NewOpenAI is the vision-capable OpenAI binding.
func NewOpenAI(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "gpt-4o"
	}
	return New(Config{
		ID: llm.ProviderOpenAI, APIKey: apiKey, Model: model, BaseURL: baseURL,
		Vision: true, VisionBudget: 15000, TextBudget: 20000,
	})
}

// NewDeepSeek is the text-only DeepSeek binding.
func NewDeepSeek(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "deepseek-chat"
	}
	if baseURL == "" {
		baseURL = DeepSeekBaseURL
	}
	return New(Config{
		ID: llm.ProviderDeepSeek, APIKey: apiKey, Model: model, BaseURL: baseURL,
		Vision: false, TextBudget: 40000,
	})
}

func (c *Client) ID() llm.ProviderID   { return c.cfg.ID }
func (c *Client) SupportsVision() bool { return c.cfg.Vision }

func (c *Client) TextBudget(vision bool) int {
	if vision && c.cfg.Vision {
		return c.cfg.VisionBudget
	}
	return c.cfg.TextBudget
}

func (c *Client) BuildRequest(p llm.Payload) (llm.HTTPRequest, error) {
	if c.cfg.APIKey == "" {
		return llm.HTTPRequest{}, fmt.Errorf("%s: api key is empty", c.cfg.ID)
	}

	messages := make([]map[string]any, 0, 2)
	if p.System != "" {
		messages = append(messages, map[string]any{"role": "system", "content": p.System})
	}
	if len(p.Images) > 0 && c.cfg.Vision {
		parts := []map[string]any{{"type": "text", "text": p.Text}}
		for _, img := range p.Images {
			parts = append(parts, map[string]any{
				"type":      "image_url",
				"image_url": map[string]string{"url": img.DataURL()},
			})
		}
		messages = append(messages, map[string]any{"role": "user", "content": parts})
	} else {
		messages = append(messages, map[string]any{"role": "user", "content": p.Text})
	}

	body := map[string]any{
		"model":       c.cfg.Model,
		"messages":    messages,
		"temperature": p.Temperature,
	}
	if p.MaxTokens > 0 {
		body["max_tokens"] = p.MaxTokens
	}

	return llm.HTTPRequest{
		URL:     strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions",
		Headers: map[string]string{"Authorization": "Bearer " + c.cfg.APIKey},
		Body:    body,
	}, nil
}

func (c *Client) ParseResponse(raw []byte) (string, error) {
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode %s response: %w", c.cfg.ID, err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in %s response", c.cfg.ID)
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}
