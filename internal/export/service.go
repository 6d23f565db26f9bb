package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

const (
	productsSheet = "Products"
	specsSheet    = "Specifications"
	maxCellText   = 500
)

// Service produces XLSX workbooks from structured catalogs.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportCatalogXLSX returns a workbook (as bytes) with one row per product
// and one row per specification entry.
func (s *Service) ExportCatalogXLSX(ctx context.Context, cat entity.StructuredCatalog) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// the default sheet becomes the products sheet
	if err := f.SetSheetName(f.GetSheetName(0), productsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(specsSheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(productsSheet)
	f.SetActiveSheet(activeIndex)

	writeRow(f, productsSheet, 1, "Product Family", "Category", "Name", "Model", "Tagline",
		"Description", "Features", "Applications", "Price", "Currency", "Price Note", "Images")
	writeRow(f, specsSheet, 1, "Product", "Model", "Category", "Specification", "Value")

	specRow := 2
	for i, p := range cat.Products {
		var price, currency, note string
		if p.Pricing != nil {
			price = entity.Str(p.Pricing.Price)
			currency = entity.Str(p.Pricing.Currency)
			note = entity.Str(p.Pricing.Note)
		}
		writeRow(f, productsSheet, i+2,
			cat.ProductFamily,
			cat.Category,
			entity.Str(p.Name),
			entity.Str(p.Model),
			entity.Str(p.Tagline),
			truncate(entity.Str(p.Description), maxCellText),
			strings.Join(p.Features, "; "),
			strings.Join(p.Applications, "; "),
			price,
			currency,
			note,
			int(p.ImagesCount),
		)

		for _, category := range p.Specifications.Categories() {
			g := p.Specifications[category]
			if !g.IsMap() {
				writeRow(f, specsSheet, specRow, entity.Str(p.Name), entity.Str(p.Model), category, "", entity.FormatSpecValue(g.Scalar))
				specRow++
				continue
			}
			for _, k := range g.Keys() {
				writeRow(f, specsSheet, specRow, entity.Str(p.Name), entity.Str(p.Model), category, k, entity.FormatSpecValue(g.Entries[k]))
				specRow++
			}
		}
	}

	_ = f.SetColWidth(productsSheet, "A", "B", 22)
	_ = f.SetColWidth(productsSheet, "C", "E", 28)
	_ = f.SetColWidth(productsSheet, "F", "H", 48)
	_ = f.SetColWidth(productsSheet, "I", "L", 14)
	_ = f.SetColWidth(specsSheet, "A", "D", 26)
	_ = f.SetColWidth(specsSheet, "E", "E", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	common.LoggerFrom(ctx, s.logger).Info("export.xlsx.ok",
		"products", len(cat.Products),
		"spec_rows", specRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteFile exports cat to path.
func (s *Service) WriteFile(ctx context.Context, cat entity.StructuredCatalog, path string) error {
	b, err := s.ExportCatalogXLSX(ctx, cat)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
