package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

type stubLLM struct {
	id    llm.ProviderID
	reply string
	err   error
	calls []llm.Request
}

func (s *stubLLM) Provider() llm.ProviderID { return s.id }
func (s *stubLLM) SupportsVision() bool     { return false }

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (llm.Completion, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return llm.Completion{}, s.err
	}
	return llm.Completion{Provider: s.id, Text: s.reply}, nil
}

func sampleCatalog() entity.StructuredCatalog {
	c := entity.StructuredCatalog{
		ProductFamily: "Pumps",
		Category:      "Industrial",
		Company:       entity.Company{Name: entity.StrPtr("Acme")},
		Products: []entity.Product{{
			Name:     entity.StrPtr("A100 Pump"),
			Model:    entity.StrPtr("A100"),
			Features: []string{"quiet"},
			Specifications: entity.Specifications{
				"Hydraulics": {Entries: map[string]any{"Flow": "12 m3/h"}},
			},
		}},
	}
	c.Normalize()
	return c
}

func TestTranslateEnglishIsTagOnly(t *testing.T) {
	stub := &stubLLM{id: llm.ProviderDeepSeek}
	tr := New(stub, Config{}, nil)

	out := tr.Translate(context.Background(), sampleCatalog(), constants.English)

	assert.Empty(t, stub.calls)
	assert.Equal(t, "en", out.Language)
	require.NotNil(t, out.RTL)
	assert.False(t, *out.RTL)
	assert.Equal(t, "Pumps", out.ProductFamily)
}

func TestTranslatePersian(t *testing.T) {
	stub := &stubLLM{id: llm.ProviderDeepSeek, reply: "```json\n" + `{"product_family":"پمپ‌ها","category":"صنعتی",
"company":{"name":"اکمه"},"products":[{"name":"پمپ A100","model":"A100","features":["بی‌صدا"],
"specifications":{"هیدرولیک":{"دبی":"12 m3/h"}}}]}` + "\n```"}
	tr := New(stub, Config{}, nil)

	out := tr.Translate(context.Background(), sampleCatalog(), constants.Persian)

	require.Len(t, stub.calls, 1)
	req := stub.calls[0]
	assert.Contains(t, req.Prompt, "Persian (Farsi)")
	assert.Contains(t, req.System, "Persian (Farsi)")
	assert.Contains(t, req.Content, `"product_family": "Pumps"`)
	assert.NotContains(t, req.Content, "_language")
	assert.Equal(t, 8000, req.MaxTokens)

	assert.Equal(t, "fa", out.Language)
	require.NotNil(t, out.RTL)
	assert.True(t, *out.RTL)
	assert.Equal(t, "پمپ‌ها", out.ProductFamily)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "A100", entity.Str(out.Products[0].Model))
	assert.Equal(t, []string{}, out.Products[0].Applications)
}

func TestTranslateFailureKeepsOriginal(t *testing.T) {
	cases := map[string]*stubLLM{
		"provider error": {id: llm.ProviderDeepSeek, err: errors.New("boom")},
		"not json":       {id: llm.ProviderDeepSeek, reply: "Sorry, I cannot do that."},
		"no provider":    {id: llm.ProviderNone},
	}
	for name, stub := range cases {
		t.Run(name, func(t *testing.T) {
			in := sampleCatalog()
			out := New(stub, Config{}, nil).Translate(context.Background(), in, constants.Chinese)

			assert.Equal(t, "zh", out.Language)
			require.NotNil(t, out.RTL)
			assert.False(t, *out.RTL)
			out.Language, out.RTL = "", nil
			assert.Equal(t, in, out)
			assert.Empty(t, in.Language, "input must not be mutated")
		})
	}
}

func TestTranslateCapsPayload(t *testing.T) {
	in := sampleCatalog()
	in.Products[0].Description = entity.StrPtr(strings.Repeat("x", 30000))
	stub := &stubLLM{id: llm.ProviderDeepSeek, err: errors.New("boom")}

	New(stub, Config{}, nil).Translate(context.Background(), in, constants.Persian)

	require.Len(t, stub.calls, 1)
	assert.Equal(t, 25000, len([]rune(stub.calls[0].Content)))
}

func TestTranslateText(t *testing.T) {
	stub := &stubLLM{id: llm.ProviderOpenAI, reply: "  سلام \n"}
	tr := New(stub, Config{}, nil)

	assert.Equal(t, "سلام", tr.TranslateText(context.Background(), "hello", constants.Persian))
	require.Len(t, stub.calls, 1)
	assert.Equal(t, 500, stub.calls[0].MaxTokens)

	assert.Equal(t, "hello", tr.TranslateText(context.Background(), "hello", constants.English))

	failing := New(&stubLLM{id: llm.ProviderOpenAI, err: errors.New("down")}, Config{}, nil)
	assert.Equal(t, "hello", failing.TranslateText(context.Background(), "hello", constants.Chinese))
}
