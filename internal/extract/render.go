package extract

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

const imageTypeFullPage = "full_page"

// renderPage rasterizes one page and writes <ImagesDir>/page_<N>_full.png,
// replacing any previous file at that path.
func (e *Extractor) renderPage(doc Document, pageNumber int) (entity.ImageRef, error) {
	if doc == nil {
		return entity.ImageRef{}, fmt.Errorf("no rendering backend")
	}
	img, err := doc.ImageDPI(pageNumber-1, e.cfg.DPI)
	if err != nil {
		return entity.ImageRef{}, fmt.Errorf("rasterize: %w", err)
	}

	path := filepath.Join(e.cfg.ImagesDir, fmt.Sprintf("page_%d_full.png", pageNumber))
	f, err := os.Create(path)
	if err != nil {
		return entity.ImageRef{}, fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return entity.ImageRef{}, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return entity.ImageRef{}, err
	}

	b := img.Bounds()
	return entity.ImageRef{
		Page:   pageNumber,
		Type:   imageTypeFullPage,
		Path:   filepath.ToSlash(path),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}
