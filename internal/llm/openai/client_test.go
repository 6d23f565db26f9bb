package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

func TestVisionMessageParts(t *testing.T) {
	c := NewOpenAI("sk-key", "", "http://localhost:1/v1/")
	hr, err := c.BuildRequest(llm.Payload{
		Text:   "look",
		Images: []llm.EncodedImage{{MimeType: "image/png", Base64: "AAA"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1/v1/chat/completions", hr.URL)

	body := hr.Body.(map[string]any)
	assert.Equal(t, "gpt-4o", body["model"])
	msgs := body["messages"].([]map[string]any)
	require.Len(t, msgs, 1)
	parts := msgs[0]["content"].([]map[string]any)
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0]["type"])
	assert.Equal(t, map[string]string{"url": "data:image/png;base64,AAA"}, parts[1]["image_url"])
}

func TestDeepSeekIsTextOnly(t *testing.T) {
	c := NewDeepSeek("sk-1", "", "")
	assert.Equal(t, llm.ProviderDeepSeek, c.ID())
	assert.False(t, c.SupportsVision())
	assert.Equal(t, 40000, c.TextBudget(true))

	hr, err := c.BuildRequest(llm.Payload{
		System: "sys",
		Text:   "t",
		Images: []llm.EncodedImage{{MimeType: "image/png", Base64: "AAA"}},
	})
	require.NoError(t, err)
	assert.Equal(t, DeepSeekBaseURL+"/chat/completions", hr.URL)
	msgs := hr.Body.(map[string]any)["messages"].([]map[string]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "t", msgs[1]["content"])
}

func TestParseResponse(t *testing.T) {
	c := NewOpenAI("sk-key", "", "")
	text, err := c.ParseResponse([]byte(`{"choices":[{"message":{"content":"hi"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", text)

	_, err = c.ParseResponse([]byte(`not json`))
	assert.Error(t, err)
}
