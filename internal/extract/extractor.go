// Package extract turns a PDF file into a page-indexed IntermediateDocument:
// text, tables, a full-page raster, layout stats and positioned text blocks
// for every page.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

type Config struct {
	PdfToText string  // binary name or absolute path; if empty -> "pdftotext"
	ImagesDir string  // where page rasters are written; default "output/images"
	DPI       float64 // raster resolution, default 144 (2x)
	Workers   int     // pages extracted concurrently, default 1
	CellGap   float64 // points between table cells, default 12

	// Tesseract enables OCR of rendered pages that yield no text; empty disables it.
	Tesseract     string
	TesseractLang string // default "eng"
	TessdataDir   string
}

// ProgressFunc is called after each page with the number of pages done.
type ProgressFunc func(done, total int)

type Extractor struct {
	cfg      Config
	runner   Runner
	openDoc  DocumentOpener
	openRows RowOpener
	progress ProgressFunc
	logger   *slog.Logger
}

type Option func(*Extractor)

func WithRunner(r Runner) Option                { return func(e *Extractor) { e.runner = r } }
func WithDocumentOpener(o DocumentOpener) Option { return func(e *Extractor) { e.openDoc = o } }
func WithRowOpener(o RowOpener) Option           { return func(e *Extractor) { e.openRows = o } }
func WithProgress(p ProgressFunc) Option         { return func(e *Extractor) { e.progress = p } }

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PdfToText == "" {
		cfg.PdfToText = "pdftotext"
	}
	if cfg.ImagesDir == "" {
		cfg.ImagesDir = "output/images"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 144
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.CellGap <= 0 {
		cfg.CellGap = defaultCellGap
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	e := &Extractor{
		cfg:      cfg,
		runner:   execRunner{},
		openDoc:  openFitz,
		openRows: openLedongthuc,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads every page of the PDF at path. It fails only when the file
// is missing or no backend can open it; per-page failures are logged and
// the page is emitted with whatever succeeded.
func (e *Extractor) Extract(ctx context.Context, path string) (entity.IntermediateDocument, error) {
	start := time.Now()
	logger := common.LoggerFrom(ctx, e.logger)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.IntermediateDocument{}, common.NotFoundError(path)
		}
		return entity.IntermediateDocument{}, common.ExtractionError(path, err)
	}

	doc, docErr := e.openDoc(path)
	if docErr != nil {
		logger.Warn("extract.open.mupdf_failed", "path", path, "error", docErr)
		doc = nil
	} else {
		defer doc.Close()
	}
	rows, rowsErr := e.openRows(path)
	if rowsErr != nil {
		logger.Warn("extract.open.rows_failed", "path", path, "error", rowsErr)
		rows = nil
	} else {
		defer rows.Close()
	}
	if doc == nil && rows == nil {
		return entity.IntermediateDocument{}, common.ExtractionError(path, errors.Join(docErr, rowsErr))
	}

	if err := os.MkdirAll(e.cfg.ImagesDir, 0o755); err != nil {
		logger.Warn("extract.images_dir_failed", "dir", e.cfg.ImagesDir, "error", err)
	}

	md := e.documentMetadata(path, doc, rows)
	total := md.TotalPages
	logger.Info("extract.start", "path", path, "pages", total, "workers", e.cfg.Workers)

	pages := make([]entity.PageContent, total)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := 0; i < total; i++ {
		pageNumber := i + 1
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pages[pageNumber-1] = e.extractPage(gctx, logger, path, pageNumber, doc, rows)
			n := done.Add(1)
			if e.progress != nil {
				e.progress(int(n), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.IntermediateDocument{}, err
	}

	logger.Info("extract.ok",
		"path", path,
		"pages", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return entity.IntermediateDocument{Metadata: md, Pages: pages}, nil
}

func (e *Extractor) extractPage(ctx context.Context, logger *slog.Logger, path string, pageNumber int, doc Document, rows RowSource) entity.PageContent {
	page := entity.PageContent{PageNumber: pageNumber}
	log := logger.With("page", pageNumber)

	var pageRows []Row
	if rows != nil {
		r, err := rows.Rows(pageNumber)
		if err != nil {
			log.Warn("extract.page.rows_failed", "error", err)
		}
		pageRows = r
	}

	page.Text = e.pageText(ctx, log, path, pageNumber, doc, pageRows)
	page.Tables = detectTables(pageRows, e.cfg.CellGap)

	if ref, err := e.renderPage(doc, pageNumber); err != nil {
		log.Warn("extract.page.render_failed", "error", err)
	} else {
		page.Images = []entity.ImageRef{ref}
		if page.Text == "" && e.cfg.Tesseract != "" {
			if txt, err := e.ocrImage(ctx, ref.Path); err != nil {
				log.Debug("extract.page.ocr_failed", "error", err)
			} else if txt != "" {
				log.Info("extract.page.ocr_ok", "text_length", len(txt))
				page.Text = txt
			}
		}
	}

	if layout, err := pageLayout(doc, pageNumber-1); err != nil {
		log.Warn("extract.page.layout_failed", "error", err)
		page.Layout = entity.Layout{Error: err.Error()}
	} else {
		page.Layout = layout
	}

	if blocks, err := e.textBlocks(ctx, path, pageNumber); err != nil {
		log.Debug("extract.page.blocks_failed", "error", err)
	} else {
		page.TextBlocks = blocks
	}

	page.Finalize()
	log.Debug("extract.page.ok",
		"text_length", page.TextLength,
		"tables", page.TableCount,
		"images", page.ImageCount,
	)
	return page
}

// pageText runs the layout-aware and the stream pass and keeps the longer
// result; the layout pass wins ties.
func (e *Extractor) pageText(ctx context.Context, log *slog.Logger, path string, pageNumber int, doc Document, rows []Row) string {
	layout, err := e.layoutText(ctx, path, pageNumber)
	if err != nil {
		log.Debug("extract.page.layout_text_fallback", "error", err)
		layout = rowsText(rows, e.cfg.CellGap)
	}

	var stream string
	if doc != nil {
		s, err := doc.Text(pageNumber - 1)
		if err != nil {
			log.Warn("extract.page.stream_text_failed", "error", err)
		}
		stream = strings.TrimSpace(s)
	}

	if len(stream) > len(layout) {
		return stream
	}
	return layout
}

func (e *Extractor) layoutText(ctx context.Context, path string, pageNumber int) (string, error) {
	n := strconv.Itoa(pageNumber)
	// pdftotext -layout -enc UTF-8 -eol unix -f N -l N <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.PdfToText, "-layout", "-enc", "UTF-8", "-eol", "unix", "-f", n, "-l", n, path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	// a form-feed terminates each page
	return strings.TrimSpace(strings.ReplaceAll(string(out), "\f", "")), nil
}
