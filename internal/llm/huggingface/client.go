// Package huggingface binds the hosted Inference API text-generation task.
package huggingface

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

const BaseURL = "https://api-inference.huggingface.co/models"

type Client struct {
	apiKey  string
	model   string
	baseURL string
}

func New(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "mistralai/Mistral-7B-Instruct-v0.3"
	}
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{apiKey: apiKey, model: model, baseURL: baseURL}
}

func (c *Client) ID() llm.ProviderID   { return llm.ProviderHuggingFace }
func (c *Client) SupportsVision() bool { return false }
func (c *Client) TextBudget(bool) int  { return 10000 }

func (c *Client) BuildRequest(p llm.Payload) (llm.HTTPRequest, error) {
	if c.apiKey == "" {
		return llm.HTTPRequest{}, fmt.Errorf("huggingface: api key is empty")
	}

	inputs := p.Text
	if p.System != "" {
		inputs = p.System + "\n\n" + p.Text
	}
	params := map[string]any{
		"temperature":      p.Temperature,
		"do_sample":        false,
		"return_full_text": false,
	}
	if p.MaxTokens > 0 {
		params["max_new_tokens"] = p.MaxTokens
	}

	return llm.HTTPRequest{
		URL:     strings.TrimRight(c.baseURL, "/") + "/" + c.model,
		Headers: map[string]string{"Authorization": "Bearer " + c.apiKey},
		Body: map[string]any{
			"inputs":     inputs,
			"parameters": params,
		},
	}, nil
}

func (c *Client) ParseResponse(raw []byte) (string, error) {
	var result []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode huggingface response: %w", err)
	}
	if len(result) == 0 {
		return "", fmt.Errorf("empty huggingface response")
	}
	return strings.TrimSpace(result[0].GeneratedText), nil
}
