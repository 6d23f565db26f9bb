// Package providers builds the binding for a selected provider.
package providers

import (
	"fmt"

	"github.com/joseph-ayodele/catalog-cards/internal/llm"
	"github.com/joseph-ayodele/catalog-cards/internal/llm/anthropic"
	"github.com/joseph-ayodele/catalog-cards/internal/llm/google"
	"github.com/joseph-ayodele/catalog-cards/internal/llm/huggingface"
	"github.com/joseph-ayodele/catalog-cards/internal/llm/openai"
)

// Models are per-provider model overrides; empty means the binding default.
type Models struct {
	DeepSeek    string
	Anthropic   string
	HuggingFace string
	Google      string
	OpenAI      string
}

// BaseURLs override endpoints, for tests and proxies.
type BaseURLs map[llm.ProviderID]string

// New returns the binding for id. ProviderNone yields (nil, nil).
func New(id llm.ProviderID, creds llm.Credentials, models Models, urls BaseURLs) (llm.Provider, error) {
	key := creds.Key(id)
	base := urls[id]
	switch id {
	case llm.ProviderNone:
		return nil, nil
	case llm.ProviderDeepSeek:
		return openai.NewDeepSeek(key, models.DeepSeek, base), nil
	case llm.ProviderAnthropic:
		return anthropic.New(key, models.Anthropic, base), nil
	case llm.ProviderHuggingFace:
		return huggingface.New(key, models.HuggingFace, base), nil
	case llm.ProviderGoogle:
		return google.New(key, models.Google, base), nil
	case llm.ProviderOpenAI:
		return openai.NewOpenAI(key, models.OpenAI, base), nil
	}
	return nil, fmt.Errorf("unknown provider %q", id)
}

// Select picks the provider for creds and builds its binding.
func Select(creds llm.Credentials, models Models, urls BaseURLs) (llm.Provider, error) {
	return New(llm.SelectProvider(creds), creds, models, urls)
}
