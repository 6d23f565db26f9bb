// Package structure turns an IntermediateDocument into a StructuredCatalog
// through an ordered chain of strategies: vision, text, then rules.
package structure

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
	"github.com/joseph-ayodele/catalog-cards/internal/llm"
)

type Options struct {
	UseAI     bool // false skips every provider tier
	UseVision bool
	MaxTokens int           // default 8000
	Timeout   time.Duration // per provider call, default 180s
}

// Result is the catalog plus which tier produced it.
type Result struct {
	Catalog  entity.StructuredCatalog
	Strategy string
	Provider llm.ProviderID
	// Invalid is set when the provider answered with unparseable output.
	Invalid bool
}

type Structurer struct {
	llm    llm.Completer
	opts   Options
	logger *slog.Logger
}

// NewStructurer builds a structurer. completer may be nil when no provider
// is configured.
func NewStructurer(completer llm.Completer, opts Options, logger *slog.Logger) *Structurer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 8000
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 180 * time.Second
	}
	return &Structurer{llm: completer, opts: opts, logger: logger}
}

func (s *Structurer) provider() llm.ProviderID {
	if s.llm == nil {
		return llm.ProviderNone
	}
	return s.llm.Provider()
}

// Chain returns the strategies tried, in order.
func (s *Structurer) Chain() []Strategy {
	if !s.opts.UseAI || s.provider() == llm.ProviderNone {
		return []Strategy{rulesStrategy{}}
	}
	var chain []Strategy
	if s.opts.UseVision && s.llm.SupportsVision() {
		chain = append(chain, visionStrategy{llm: s.llm, maxTokens: s.opts.MaxTokens, timeout: s.opts.Timeout})
	}
	chain = append(chain,
		textStrategy{llm: s.llm, maxTokens: s.opts.MaxTokens, timeout: s.opts.Timeout},
		rulesStrategy{},
	)
	return chain
}

// Structure never fails: provider errors step down the chain, invalid
// model output yields the invalid-response sentinel.
func (s *Structurer) Structure(ctx context.Context, doc entity.IntermediateDocument) entity.StructuredCatalog {
	return s.Run(ctx, doc).Catalog
}

func (s *Structurer) Run(ctx context.Context, doc entity.IntermediateDocument) Result {
	start := time.Now()
	logger := common.LoggerFrom(ctx, s.logger)

	text, tables := Flatten(doc)
	in := Input{Doc: doc, Text: text, Tables: tables}
	provider := s.provider()

	for _, st := range s.Chain() {
		cat, raw, err := st.Run(ctx, in)
		if err == nil {
			if raw != nil {
				if vErr := ValidateCatalogJSON(raw); vErr != nil {
					logger.Warn("structure.schema_mismatch", "strategy", st.Name(), "error", vErr)
				}
			}
			logger.Info("structure.ok",
				"strategy", st.Name(),
				"provider", provider.String(),
				"products", len(cat.Products),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return Result{Catalog: cat, Strategy: st.Name(), Provider: provider}
		}

		if common.IsResponseError(err) {
			event := "structure.invalid_response"
			if errors.Is(err, common.ErrResponseShape) {
				event = "structure.unexpected_shape"
			}
			logger.Error(event, "strategy", st.Name(), "error", err)
			return Result{Catalog: InvalidResponse(), Strategy: st.Name(), Provider: provider, Invalid: true}
		}
		logger.Warn("structure.tier_failed", "strategy", st.Name(), "error", err)
	}

	// rulesStrategy ends every chain, so this is unreachable in practice.
	return Result{Catalog: NotConfigured(), Strategy: constants.StrategyRules, Provider: provider}
}
