package structure

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

type reply struct {
	text string
	err  error
}

type stubLLM struct {
	id      llm.ProviderID
	vision  bool
	replies []reply

	mu    sync.Mutex
	calls []llm.Request
}

func (s *stubLLM) Provider() llm.ProviderID { return s.id }
func (s *stubLLM) SupportsVision() bool     { return s.vision }

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (llm.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	r := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	if r.err != nil {
		return llm.Completion{}, r.err
	}
	return llm.Completion{Provider: s.id, Text: r.text}, nil
}

func sampleDoc() entity.IntermediateDocument {
	return entity.IntermediateDocument{
		Metadata: entity.DocumentMetadata{TotalPages: 2},
		Pages: []entity.PageContent{
			{PageNumber: 1, Text: "Acme A100 pump"},
			{PageNumber: 2, Text: "Prices", Tables: []entity.Table{{{"Model", "Price"}, {"A100", "$10"}}}},
		},
	}
}

const goodReply = `{"product_family":"Pumps","category":"Industrial","company":{"name":"Acme"},
"products":[{"name":"A100 Pump","model":"A100","features":["quiet"],
"specifications":{"Hydraulics":{"Flow":"12 m3/h","Head":40},"Warranty":"2 years"},
"pricing":{"price":"$10","currency":"USD"},"images_count":1}]}`

func TestStructureWithoutCredentials(t *testing.T) {
	s := NewStructurer(nil, Options{UseAI: true, UseVision: true}, nil)
	res := s.Run(context.Background(), sampleDoc())

	assert.Equal(t, constants.StrategyRules, res.Strategy)
	cat := res.Catalog
	assert.Equal(t, "AI Configuration Required", cat.ProductFamily)
	assert.Equal(t, "Please Add API Key", cat.Category)
	require.Len(t, cat.Products, 1)
	assert.Equal(t, "AI API Key Required", entity.Str(cat.Products[0].Name))
	assert.Equal(t, "N/A", entity.Str(cat.Products[0].Model))
	assert.Len(t, cat.Products[0].Features, 3)
	assert.Equal(t, "Configure AI", entity.Str(cat.Products[0].Pricing.Price))
	assert.True(t, IsNotConfigured(cat))
}

func TestStructureAIDisabledSkipsProvider(t *testing.T) {
	stub := &stubLLM{id: llm.ProviderOpenAI, vision: true, replies: []reply{{text: goodReply}}}
	s := NewStructurer(stub, Options{UseAI: false}, nil)
	cat := s.Structure(context.Background(), sampleDoc())
	assert.True(t, IsNotConfigured(cat))
	assert.Empty(t, stub.calls)
}

func TestStructureTextStrategy(t *testing.T) {
	stub := &stubLLM{id: llm.ProviderDeepSeek, replies: []reply{{text: "```json\n" + goodReply + "\n```"}}}
	s := NewStructurer(stub, Options{UseAI: true, UseVision: true}, nil)
	res := s.Run(context.Background(), sampleDoc())

	assert.Equal(t, constants.StrategyText, res.Strategy)
	assert.Equal(t, "Pumps", res.Catalog.ProductFamily)
	require.Len(t, res.Catalog.Products, 1)
	p := res.Catalog.Products[0]
	assert.Equal(t, "A100", entity.Str(p.Model))
	assert.Equal(t, 1, int(p.ImagesCount))
	assert.True(t, p.Specifications["Hydraulics"].IsMap())
	assert.False(t, p.Specifications["Warranty"].IsMap())
	assert.Equal(t, "2 years", p.Specifications["Warranty"].Scalar)
	assert.Equal(t, []string{}, p.Applications)

	require.Len(t, stub.calls, 1)
	req := stub.calls[0]
	assert.False(t, req.Vision)
	assert.Contains(t, req.Content, "=== Page 1 ===\nAcme A100 pump")
	assert.Contains(t, req.Appendix, "Model | Price\nA100 | $10")
	assert.Equal(t, 8000, req.MaxTokens)
}

func TestStructureVisionFallsBackToText(t *testing.T) {
	stub := &stubLLM{id: llm.ProviderAnthropic, vision: true, replies: []reply{
		{err: &llm.ProviderError{Provider: llm.ProviderAnthropic, Status: 529, Body: "overloaded"}},
		{text: goodReply},
	}}
	s := NewStructurer(stub, Options{UseAI: true, UseVision: true}, nil)
	res := s.Run(context.Background(), sampleDoc())

	assert.Equal(t, constants.StrategyText, res.Strategy)
	assert.Equal(t, "Pumps", res.Catalog.ProductFamily)
	require.Len(t, stub.calls, 2)
	assert.True(t, stub.calls[0].Vision)
	assert.False(t, stub.calls[1].Vision)
}

func TestStructureAllTiersFailEndsInRules(t *testing.T) {
	stub := &stubLLM{id: llm.ProviderOpenAI, vision: true, replies: []reply{
		{err: &llm.ProviderError{Provider: llm.ProviderOpenAI, Err: errors.New("connection refused")}},
	}}
	s := NewStructurer(stub, Options{UseAI: true, UseVision: true}, nil)
	res := s.Run(context.Background(), sampleDoc())

	assert.Equal(t, constants.StrategyRules, res.Strategy)
	assert.True(t, IsNotConfigured(res.Catalog))
	assert.Len(t, stub.calls, 2)
}

func TestStructureInvalidResponseIsTerminal(t *testing.T) {
	stub := &stubLLM{id: llm.ProviderAnthropic, vision: true, replies: []reply{{text: "Sorry, I cannot help with { that"}}}
	s := NewStructurer(stub, Options{UseAI: true, UseVision: true}, nil)

	res := s.Run(context.Background(), sampleDoc())
	assert.True(t, res.Invalid)
	assert.Equal(t, "AI Response Invalid", res.Catalog.Category)
	assert.Equal(t, "Extraction Error", res.Catalog.ProductFamily)
	assert.Empty(t, res.Catalog.Products)
	assert.NotNil(t, res.Catalog.Products)
	assert.Len(t, stub.calls, 1)
}

func TestStructureIsIdempotent(t *testing.T) {
	doc := sampleDoc()
	stub := &stubLLM{id: llm.ProviderDeepSeek, replies: []reply{{text: goodReply}}}
	s := NewStructurer(stub, Options{UseAI: true}, nil)

	a, err := json.Marshal(s.Structure(context.Background(), doc))
	require.NoError(t, err)
	b, err := json.Marshal(s.Structure(context.Background(), doc))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestVisionImagesSelection(t *testing.T) {
	dir := t.TempDir()
	mk := func(n int) string {
		p := filepath.Join(dir, "page_"+string(rune('0'+n))+"_full.png")
		require.NoError(t, os.WriteFile(p, []byte("png"), 0o644))
		return p
	}
	var pages []entity.PageContent
	for i := 1; i <= 7; i++ {
		pc := entity.PageContent{PageNumber: i}
		switch i {
		case 1:
			pc.Images = []entity.ImageRef{{Type: "full_page", Path: filepath.Join(dir, "gone.png")}}
		case 2:
			pc.Images = []entity.ImageRef{{Type: "full_page", Path: mk(2)}, {Type: "full_page", Path: mk(8)}}
		case 3:
			pc.Images = []entity.ImageRef{{Type: "embedded", Path: mk(3)}}
		default:
			pc.Images = []entity.ImageRef{{Type: "full_page", Path: mk(i)}}
		}
		pages = append(pages, pc)
	}
	got := VisionImages(entity.IntermediateDocument{Pages: pages})
	require.Len(t, got, 3)
	assert.True(t, strings.HasSuffix(got[0], "page_2_full.png"))
	assert.True(t, strings.HasSuffix(got[1], "page_4_full.png"))
	assert.True(t, strings.HasSuffix(got[2], "page_5_full.png"))
}

func TestFlattenAndAppendix(t *testing.T) {
	doc := sampleDoc()
	doc.Pages = append(doc.Pages, entity.PageContent{PageNumber: 3})
	text, tables := Flatten(doc)
	assert.Equal(t, "=== Page 1 ===\nAcme A100 pump\n\n=== Page 2 ===\nPrices", text)
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Page)

	var many []entity.PageTable
	for i := 0; i < 12; i++ {
		var grid entity.Table
		for r := 0; r < 25; r++ {
			grid = append(grid, []string{"a", "b"})
		}
		many = append(many, entity.PageTable{Page: i + 1, Data: grid})
	}
	app := TableAppendix(many)
	assert.True(t, strings.HasPrefix(app, "Tables Found: 12\n"))
	assert.Equal(t, 10, strings.Count(app, "\nTable "))
	assert.Equal(t, 200, strings.Count(app, "a | b"))
	assert.Equal(t, "", TableAppendix(nil))
}

func TestStructureKeepsValidJSONWithLooseFields(t *testing.T) {
	for _, text := range []string{
		`{"product_family":"X","category":"Pumps","products":[{"name":"A100","model":"A100","specifications":[]}]}`,
		`{"product_family":"X","category":"Pumps","products":[{"name":"A100","model":"A100","features":["quiet",3]}]}`,
		`{"product_family":"X","category":"Pumps","products":[{"name":"A100","model":"A100","applications":"Irrigation"}]}`,
	} {
		stub := &stubLLM{id: llm.ProviderDeepSeek, replies: []reply{{text: text}}}
		s := NewStructurer(stub, Options{UseAI: true}, nil)

		res := s.Run(context.Background(), sampleDoc())
		assert.False(t, res.Invalid, text)
		assert.Equal(t, "X", res.Catalog.ProductFamily, text)
		assert.Equal(t, "Pumps", res.Catalog.Category, text)
		require.Len(t, res.Catalog.Products, 1, text)
		assert.Equal(t, "A100", entity.Str(res.Catalog.Products[0].Model), text)
	}
}

func TestStructureNonObjectReplyIsTerminal(t *testing.T) {
	stub := &stubLLM{id: llm.ProviderDeepSeek, replies: []reply{{text: `["A100","B200"]`}}}
	s := NewStructurer(stub, Options{UseAI: true}, nil)

	res := s.Run(context.Background(), sampleDoc())
	assert.True(t, res.Invalid)
	assert.Equal(t, "AI Response Invalid", res.Catalog.Category)
	assert.Len(t, stub.calls, 1)
}
