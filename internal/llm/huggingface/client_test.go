package huggingface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

func TestBuildRequest(t *testing.T) {
	c := New("hf_abc", "org/model", "")
	hr, err := c.BuildRequest(llm.Payload{System: "S", Text: "T", MaxTokens: 50})
	require.NoError(t, err)
	assert.Equal(t, BaseURL+"/org/model", hr.URL)
	assert.Equal(t, "Bearer hf_abc", hr.Headers["Authorization"])

	body := hr.Body.(map[string]any)
	assert.Equal(t, "S\n\nT", body["inputs"])
	params := body["parameters"].(map[string]any)
	assert.Equal(t, 50, params["max_new_tokens"])
	assert.Equal(t, 0.0, params["temperature"])
}

func TestParseResponse(t *testing.T) {
	c := New("hf_abc", "", "")
	text, err := c.ParseResponse([]byte(`[{"generated_text":" {\"products\":[]} "}]`))
	require.NoError(t, err)
	assert.Equal(t, `{"products":[]}`, text)

	_, err = c.ParseResponse([]byte(`{"error":"loading"}`))
	assert.Error(t, err)
}

func TestTextOnly(t *testing.T) {
	c := New("hf_abc", "", "")
	assert.False(t, c.SupportsVision())
	assert.Equal(t, 10000, c.TextBudget(true))
	_, err := New("", "", "").BuildRequest(llm.Payload{Text: "x"})
	assert.Error(t, err)
}
