package pipeline

import (
	"context"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
	"github.com/joseph-ayodele/catalog-cards/internal/structure"
)

// CatalogStructurer is Stage 2: intermediate document -> catalog.
type CatalogStructurer interface {
	Run(ctx context.Context, doc entity.IntermediateDocument) structure.Result
}

// CatalogTranslator is the optional Stage 3.
type CatalogTranslator interface {
	Translate(ctx context.Context, cat entity.StructuredCatalog, lang constants.Language) entity.StructuredCatalog
}

// PageRenderer writes the final HTML page.
type PageRenderer interface {
	WriteFile(cat entity.StructuredCatalog, path string) error
}

// WorkbookExporter writes the optional XLSX export.
type WorkbookExporter interface {
	WriteFile(ctx context.Context, cat entity.StructuredCatalog, path string) error
}
