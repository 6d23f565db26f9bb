package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
	"github.com/joseph-ayodele/catalog-cards/internal/structure"
)

type StructureStage struct {
	Structurer CatalogStructurer
	Translator CatalogTranslator // nil disables translation
	Logger     *slog.Logger
}

func NewStructureStage(s CatalogStructurer, t CatalogTranslator, logger *slog.Logger) *StructureStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &StructureStage{Structurer: s, Translator: t, Logger: logger}
}

// Run structures doc, translates the result when lang is not English and,
// when jsonPath is set, persists the final catalog there. It only fails on
// the write.
func (s *StructureStage) Run(ctx context.Context, doc entity.IntermediateDocument, lang constants.Language, jsonPath string) (structure.Result, error) {
	logger := common.LoggerFrom(ctx, s.Logger)

	res := s.Structurer.Run(ctx, doc)
	if res.Invalid {
		logger.Warn("pipeline.structure.invalid_response", "strategy", res.Strategy)
	}

	if lang != constants.English && s.Translator != nil {
		res.Catalog = s.Translator.Translate(ctx, res.Catalog, lang)
	}

	if jsonPath != "" {
		if err := writeJSON(jsonPath, res.Catalog); err != nil {
			return res, err
		}
		logger.Info("pipeline.structure.saved", "path", jsonPath)
	}
	return res, nil
}
