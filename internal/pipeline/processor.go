// Package pipeline wires extraction, structuring, translation and rendering
// into a single PDF → shopping page conversion.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
	"github.com/joseph-ayodele/catalog-cards/internal/repository"
)

type Options struct {
	Output    string // explicit html path; derived from the input when empty
	OutputDir string
	SaveJSON  bool
	Language  constants.Language
	XLSXPath  string // optional workbook export
}

// Outcome describes a finished conversion.
type Outcome struct {
	RunID    uuid.UUID
	Paths    OutputPaths
	XLSXPath string
	Pages    int
	Catalog  entity.StructuredCatalog
	Strategy string
	Provider string
}

// Converter coordinates extraction, structuring (+ translation) and
// rendering, and records each run when a history store is configured.
type Converter struct {
	Logger    *slog.Logger
	Extract   *ExtractStage
	Structure *StructureStage
	Renderer  PageRenderer
	Exporter  WorkbookExporter                   // optional
	Runs      repository.ConversionRunRepository // optional
	Out       io.Writer                          // summary destination, nil for none

	now func() time.Time
}

func NewConverter(logger *slog.Logger, ex *ExtractStage, st *StructureStage, r PageRenderer, exporter WorkbookExporter, runs repository.ConversionRunRepository, out io.Writer) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		Logger:    logger,
		Extract:   ex,
		Structure: st,
		Renderer:  r,
		Exporter:  exporter,
		Runs:      runs,
		Out:       out,
		now:       time.Now,
	}
}

// Convert runs the whole conversion for pdfPath. Only a missing input, an
// unreadable PDF or an output write failure is returned as an error; every
// provider problem degrades to a fallback catalog.
func (c *Converter) Convert(ctx context.Context, pdfPath string, opts Options) (Outcome, error) {
	if opts.Language == "" {
		opts.Language = constants.English
	}
	paths := ResolveOutputPaths(pdfPath, opts.Output, opts.OutputDir)
	out := Outcome{RunID: uuid.New(), Paths: paths}

	if c.Runs != nil {
		run, err := c.Runs.Start(ctx, pdfPath, paths.HTML, string(opts.Language))
		if err != nil {
			c.Logger.Warn("pipeline.history.start_failed", "error", err)
		} else {
			out.RunID = run.ID
		}
	}
	ctx = common.WithRunID(ctx, out.RunID.String())
	logger := common.LoggerFrom(ctx, c.Logger)
	start := c.now()

	logger.Info("pipeline.convert.start",
		"input", pdfPath,
		"output", paths.HTML,
		"language", string(opts.Language),
	)

	jsonPath := func(p string) string {
		if opts.SaveJSON {
			return p
		}
		return ""
	}

	doc, err := c.Extract.Run(ctx, out.RunID, pdfPath, jsonPath(paths.ExtractedJSON))
	if err != nil {
		return out, c.fail(ctx, out.RunID, err)
	}
	out.Pages = len(doc.Pages)

	res, err := c.Structure.Run(ctx, doc, opts.Language, jsonPath(paths.CatalogJSON))
	if err != nil {
		return out, c.fail(ctx, out.RunID, err)
	}
	out.Catalog = res.Catalog
	out.Strategy = res.Strategy
	out.Provider = res.Provider.String()

	if err := c.Renderer.WriteFile(res.Catalog, paths.HTML); err != nil {
		return out, c.fail(ctx, out.RunID, err)
	}

	if opts.XLSXPath != "" && c.Exporter != nil {
		if err := c.Exporter.WriteFile(ctx, res.Catalog, opts.XLSXPath); err != nil {
			return out, c.fail(ctx, out.RunID, err)
		}
		out.XLSXPath = opts.XLSXPath
	}

	if c.Runs != nil {
		if err := c.Runs.FinishSuccess(ctx, out.RunID, out.Strategy, out.Provider, len(res.Catalog.Products)); err != nil {
			logger.Warn("pipeline.history.finish_failed", "error", err)
		}
	}

	finished := c.now()
	logger.Info("pipeline.convert.ok",
		"pages", out.Pages,
		"products", len(res.Catalog.Products),
		"strategy", out.Strategy,
		"provider", out.Provider,
		"elapsed_ms", finished.Sub(start).Milliseconds(),
	)
	if c.Out != nil {
		WriteSummary(c.Out, paths.HTML, res.Catalog, finished)
	}
	return out, nil
}

func (c *Converter) fail(ctx context.Context, runID uuid.UUID, err error) error {
	common.LoggerFrom(ctx, c.Logger).Error("pipeline.convert.failed", "error", err)
	if c.Runs != nil {
		if hErr := c.Runs.FinishFailure(ctx, runID, err.Error()); hErr != nil {
			c.Logger.Warn("pipeline.history.finish_failed", "error", hErr)
		}
	}
	return err
}
