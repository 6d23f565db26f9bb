package structure

import (
	"context"
	"time"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

// Input is what every strategy sees: the flattened document.
type Input struct {
	Doc    entity.IntermediateDocument
	Text   string
	Tables []entity.PageTable
}

// Strategy is one tier of the fallback chain. A returned error moves the
// structurer to the next tier.
type Strategy interface {
	Name() string
	Run(ctx context.Context, in Input) (entity.StructuredCatalog, []byte, error)
}

type visionStrategy struct {
	llm       llm.Completer
	maxTokens int
	timeout   time.Duration
}

func (s visionStrategy) Name() string { return constants.StrategyVision }

func (s visionStrategy) Run(ctx context.Context, in Input) (entity.StructuredCatalog, []byte, error) {
	out, err := s.llm.Complete(ctx, llm.Request{
		System:       systemPrompt,
		Prompt:       analysisPrompt,
		ContentLabel: visionContentLabel,
		Content:      in.Text,
		Images:       VisionImages(in.Doc),
		Vision:       true,
		MaxTokens:    s.maxTokens,
		Timeout:      s.timeout,
	})
	if err != nil {
		return entity.StructuredCatalog{}, nil, err
	}
	return ParseCatalog(out.Text)
}

type textStrategy struct {
	llm       llm.Completer
	maxTokens int
	timeout   time.Duration
}

func (s textStrategy) Name() string { return constants.StrategyText }

func (s textStrategy) Run(ctx context.Context, in Input) (entity.StructuredCatalog, []byte, error) {
	out, err := s.llm.Complete(ctx, llm.Request{
		System:       systemPrompt,
		Prompt:       analysisPrompt,
		ContentLabel: textContentLabel,
		Content:      in.Text,
		Appendix:     TableAppendix(in.Tables),
		MaxTokens:    s.maxTokens,
		Timeout:      s.timeout,
	})
	if err != nil {
		return entity.StructuredCatalog{}, nil, err
	}
	return ParseCatalog(out.Text)
}

// rulesStrategy is the last tier. It never fails and never guesses.
type rulesStrategy struct{}

func (rulesStrategy) Name() string { return constants.StrategyRules }

func (rulesStrategy) Run(context.Context, Input) (entity.StructuredCatalog, []byte, error) {
	return NotConfigured(), nil, nil
}
