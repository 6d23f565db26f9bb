// Package anthropic binds the Messages API.
package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

const (
	BaseURL    = "https://api.anthropic.com/v1"
	APIVersion = "2023-06-01"

	defaultMaxTokens = 8192
)

type Client struct {
	apiKey  string
	model   string
	baseURL string
}

func New(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{apiKey: apiKey, model: model, baseURL: baseURL}
}

func (c *Client) ID() llm.ProviderID   { return llm.ProviderAnthropic }
func (c *Client) SupportsVision() bool { return true }

func (c *Client) TextBudget(vision bool) int {
	if vision {
		return 15000
	}
	return 20000
}

func (c *Client) BuildRequest(p llm.Payload) (llm.HTTPRequest, error) {
	if c.apiKey == "" {
		return llm.HTTPRequest{}, fmt.Errorf("anthropic: api key is empty")
	}

	// images first, then the instruction text
	content := make([]map[string]any, 0, len(p.Images)+1)
	for _, img := range p.Images {
		content = append(content, map[string]any{
			"type": "image",
			"source": map[string]string{
				"type":       "base64",
				"media_type": img.MimeType,
				"data":       img.Base64,
			},
		})
	}
	content = append(content, map[string]any{"type": "text", "text": p.Text})

	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	body := map[string]any{
		"model":       c.model,
		"max_tokens":  maxTokens,
		"temperature": p.Temperature,
		"messages":    []map[string]any{{"role": "user", "content": content}},
	}
	if p.System != "" {
		body["system"] = p.System
	}

	return llm.HTTPRequest{
		URL: strings.TrimRight(c.baseURL, "/") + "/messages",
		Headers: map[string]string{
			"x-api-key":         c.apiKey,
			"anthropic-version": APIVersion,
		},
		Body: body,
	}, nil
}

func (c *Client) ParseResponse(raw []byte) (string, error) {
	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("no content in anthropic response")
	}
	return strings.TrimSpace(result.Content[0].Text), nil
}
