package structure

import (
	"fmt"
	"os"
	"strings"

	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

const (
	maxVisionImages = 3
	visionPageScan  = 5
	maxTables       = 10
	maxTableRows    = 20
)

// Flatten joins page texts as "=== Page N ===" blocks separated by blank
// lines and collects every table tagged with its page, both in page order.
func Flatten(doc entity.IntermediateDocument) (string, []entity.PageTable) {
	blocks := make([]string, 0, len(doc.Pages))
	var tables []entity.PageTable
	for _, p := range doc.Pages {
		if p.Text != "" {
			blocks = append(blocks, fmt.Sprintf("=== Page %d ===\n%s", p.PageNumber, p.Text))
		}
		for _, t := range p.Tables {
			tables = append(tables, entity.PageTable{Page: p.PageNumber, Data: t})
		}
	}
	return strings.Join(blocks, "\n\n"), tables
}

// TableAppendix renders up to maxTables tables, maxTableRows rows each, as
// pipe-delimited text.
func TableAppendix(tables []entity.PageTable) string {
	if len(tables) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Tables Found: %d\n", len(tables))
	for i, t := range tables {
		if i == maxTables {
			break
		}
		fmt.Fprintf(&b, "\nTable %d (page %d):\n", i+1, t.Page)
		for j, row := range t.Data {
			if j == maxTableRows {
				break
			}
			b.WriteString(strings.Join(row, " | "))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// VisionImages picks at most one existing full-page raster from each of
// the first pages, up to maxVisionImages, in page order.
func VisionImages(doc entity.IntermediateDocument) []string {
	var out []string
	for i, p := range doc.Pages {
		if i == visionPageScan || len(out) == maxVisionImages {
			break
		}
		for _, img := range p.Images {
			if img.Type != "full_page" || img.Path == "" {
				continue
			}
			if st, err := os.Stat(img.Path); err != nil || st.IsDir() {
				continue
			}
			out = append(out, img.Path)
			break
		}
	}
	return out
}
