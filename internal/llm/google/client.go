// Package google binds the Gemini generateContent API.
package google

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

const BaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Client struct {
	apiKey  string
	model   string
	baseURL string
}

func New(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{apiKey: apiKey, model: model, baseURL: baseURL}
}

func (c *Client) ID() llm.ProviderID   { return llm.ProviderGoogle }
func (c *Client) SupportsVision() bool { return true }

func (c *Client) TextBudget(vision bool) int {
	if vision {
		return 15000
	}
	return 20000
}

func (c *Client) BuildRequest(p llm.Payload) (llm.HTTPRequest, error) {
	if c.apiKey == "" {
		return llm.HTTPRequest{}, fmt.Errorf("google: api key is empty")
	}

	parts := []map[string]any{{"text": p.Text}}
	for _, img := range p.Images {
		parts = append(parts, map[string]any{
			"inlineData": map[string]string{
				"mimeType": img.MimeType,
				"data":     img.Base64,
			},
		})
	}

	gen := map[string]any{"temperature": p.Temperature}
	if p.MaxTokens > 0 {
		gen["maxOutputTokens"] = p.MaxTokens
	}
	body := map[string]any{
		"contents":         []map[string]any{{"role": "user", "parts": parts}},
		"generationConfig": gen,
	}
	if p.System != "" {
		body["systemInstruction"] = map[string]any{"parts": []map[string]any{{"text": p.System}}}
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.baseURL, "/"), url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	return llm.HTTPRequest{URL: endpoint, Body: body}, nil
}

func (c *Client) ParseResponse(raw []byte) (string, error) {
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode google response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in google response")
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
