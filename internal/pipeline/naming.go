package pipeline

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/catalog-cards/constants"
)

const maxBaseName = 100

// OutputPaths are the files one conversion writes.
type OutputPaths struct {
	HTML          string
	ExtractedJSON string
	CatalogJSON   string
}

// SanitizeBaseName keeps letters, digits, spaces, '-' and '_' from the
// input file's stem, trimmed and capped at 100 characters.
func SanitizeBaseName(pdfPath string) string {
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	var b strings.Builder
	for _, r := range stem {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	base := strings.TrimSpace(b.String())
	if r := []rune(base); len(r) > maxBaseName {
		base = strings.TrimSpace(string(r[:maxBaseName]))
	}
	if base == "" {
		base = "catalog"
	}
	return base
}

// ResolveOutputPaths derives the output set. An explicit html path wins;
// otherwise the page goes to dir/<base>_shopping_card.html. The JSON files
// sit next to the page.
func ResolveOutputPaths(pdfPath, html, dir string) OutputPaths {
	if html == "" {
		html = filepath.Join(dir, SanitizeBaseName(pdfPath)+constants.SuffixHTML)
	}
	stem := strings.TrimSuffix(html, filepath.Ext(html))
	return OutputPaths{
		HTML:          html,
		ExtractedJSON: stem + constants.SuffixExtractedJSON,
		CatalogJSON:   stem + constants.SuffixCatalogJSON,
	}
}
