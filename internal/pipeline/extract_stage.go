package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
	"github.com/joseph-ayodele/catalog-cards/internal/extract"
	"github.com/joseph-ayodele/catalog-cards/internal/repository"
)

type ExtractStage struct {
	Extractor extract.ContentExtractor
	Runs      repository.ConversionRunRepository // optional
	Logger    *slog.Logger
}

func NewExtractStage(ex extract.ContentExtractor, runs repository.ConversionRunRepository, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{Extractor: ex, Runs: runs, Logger: logger}
}

// Run extracts the PDF, advances the run to EXTRACTED and, when jsonPath is
// set, persists the intermediate document there.
func (s *ExtractStage) Run(ctx context.Context, runID uuid.UUID, pdfPath, jsonPath string) (entity.IntermediateDocument, error) {
	logger := common.LoggerFrom(ctx, s.Logger)
	start := time.Now()

	doc, err := s.Extractor.Extract(ctx, pdfPath)
	if err != nil {
		logger.Error("pipeline.extract.failed", "path", pdfPath, "error", err)
		return doc, err
	}

	if s.Runs != nil {
		if err := s.Runs.MarkExtracted(ctx, runID, len(doc.Pages)); err != nil {
			logger.Warn("pipeline.history.update_failed", "error", err)
		}
	}

	if jsonPath != "" {
		if err := writeJSON(jsonPath, doc); err != nil {
			return doc, err
		}
		logger.Info("pipeline.extract.saved", "path", jsonPath)
	}

	logger.Info("pipeline.extract.ok",
		"pages", len(doc.Pages),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}
