package extract

import (
	"context"

	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

// ContentExtractor is Stage 1: PDF file -> page-indexed intermediate document.
type ContentExtractor interface {
	Extract(ctx context.Context, path string) (entity.IntermediateDocument, error)
}

var _ ContentExtractor = (*Extractor)(nil)
