package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

const summaryProducts = 10

var rule = strings.Repeat("=", 80)

// WriteSummary prints the post-conversion report: catalog header fields,
// then up to ten products with feature and spec counts.
func WriteSummary(w io.Writer, htmlPath string, cat entity.StructuredCatalog, finished time.Time) {
	fmt.Fprintf(w, "\n%s\nCONVERSION COMPLETE!\n%s\n\n", rule, rule)
	fmt.Fprintf(w, "Output HTML: %s\n", htmlPath)
	fmt.Fprintf(w, "Product Family: %s\n", orNA(cat.ProductFamily))
	fmt.Fprintf(w, "Category: %s\n", orNA(cat.Category))
	fmt.Fprintf(w, "Company: %s\n", orNA(entity.Str(cat.Company.Name)))
	fmt.Fprintf(w, "Products Found: %d\n", len(cat.Products))
	fmt.Fprintf(w, "Completed: %s\n\n", finished.Format("2006-01-02 15:04:05"))

	if len(cat.Products) > 0 {
		fmt.Fprintf(w, "%s\nPRODUCTS EXTRACTED\n%s\n\n", rule, rule)
		for i, p := range cat.Products {
			if i == summaryProducts {
				break
			}
			fmt.Fprintf(w, "%2d. %s\n", i+1, orNA(entity.Str(p.Name)))
			fmt.Fprintf(w, "    Model: %s\n", orNA(entity.Str(p.Model)))
			fmt.Fprintf(w, "    Features: %d\n", len(p.Features))
			fmt.Fprintf(w, "    Specs: %d\n\n", specCount(p))
		}
		if n := len(cat.Products) - summaryProducts; n > 0 {
			fmt.Fprintf(w, "    ... and %d more products\n\n", n)
		}
	}
	fmt.Fprintf(w, "%s\nOpen %s in your browser to view the shopping card!\n%s\n", rule, htmlPath, rule)
}

func specCount(p entity.Product) int {
	n := 0
	for _, g := range p.Specifications {
		n += g.Len()
	}
	return n
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
