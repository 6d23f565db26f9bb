package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectProvider(t *testing.T) {
	long := strings.Repeat("x", 21)

	tests := []struct {
		name  string
		creds Credentials
		want  ProviderID
	}{
		{"no credentials", Credentials{}, ProviderNone},
		{"deepseek", Credentials{DeepSeek: "sk-abc"}, ProviderDeepSeek},
		{"deepseek wrong shape", Credentials{DeepSeek: "abc"}, ProviderNone},
		{"anthropic", Credentials{Anthropic: "sk-ant-123"}, ProviderAnthropic},
		{"anthropic without prefix", Credentials{Anthropic: "sk-123"}, ProviderNone},
		{"huggingface prefix", Credentials{HuggingFace: "hf_x"}, ProviderHuggingFace},
		{"huggingface long", Credentials{HuggingFace: long}, ProviderHuggingFace},
		{"huggingface short", Credentials{HuggingFace: "short"}, ProviderNone},
		{"google long", Credentials{Google: long}, ProviderGoogle},
		{"google exactly 20", Credentials{Google: strings.Repeat("g", 20)}, ProviderNone},
		{"openai", Credentials{OpenAI: "sk-" + long}, ProviderOpenAI},
		{"openai short", Credentials{OpenAI: "sk-short"}, ProviderNone},
		{"deepseek beats everything", Credentials{DeepSeek: "sk-1", Anthropic: "sk-ant-1", OpenAI: "sk-" + long}, ProviderDeepSeek},
		{"anthropic beats google", Credentials{Anthropic: "sk-ant-1", Google: long}, ProviderAnthropic},
		{"huggingface beats google", Credentials{HuggingFace: "hf_1", Google: long}, ProviderHuggingFace},
		{"whitespace trimmed", Credentials{DeepSeek: "  sk-1  "}, ProviderDeepSeek},
		{"blank", Credentials{DeepSeek: "   "}, ProviderNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectProvider(tt.creds))
		})
	}
}

func TestProviderIDString(t *testing.T) {
	assert.Equal(t, "none", ProviderNone.String())
	assert.Equal(t, "google", ProviderGoogle.String())
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", TruncateRunes("héllo", 4))
	assert.Equal(t, "héllo", TruncateRunes("héllo", 10))
	assert.Equal(t, "", TruncateRunes("héllo", 0))
	assert.Equal(t, "سلا", TruncateRunes("سلام", 3))
}

func TestUserText(t *testing.T) {
	assert.Equal(t, "P\n\nL\nC\n\nA", userText("P", "L", "C", "A"))
	assert.Equal(t, "P", userText("P", "L", "", ""))
	assert.Equal(t, "P\n\nC", userText("P", "", "C", ""))
}

func TestProviderErrorBodyTruncated(t *testing.T) {
	pe := newStatusError(ProviderOpenAI, 500, []byte(strings.Repeat("e", 500)))
	assert.Len(t, pe.Body, 200)
	assert.Equal(t, 500, pe.Status)
	assert.False(t, pe.Timeout())
	assert.Contains(t, pe.Error(), "status 500")
}
