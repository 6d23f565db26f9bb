package extract

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

// textBlocks runs `pdftotext -bbox-layout` for one page and reads the
// <block xMin yMin xMax yMax> elements of its XHTML output.
func (e *Extractor) textBlocks(ctx context.Context, path string, pageNumber int) ([]entity.TextBlock, error) {
	n := strconv.Itoa(pageNumber)
	out, errb, err := e.runner.Run(ctx, e.cfg.PdfToText, "-bbox-layout", "-enc", "UTF-8", "-f", n, "-l", n, path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext -bbox-layout: %w: %s", err, truncate(string(errb), 512))
	}
	return parseBBoxLayout(string(out))
}

func parseBBoxLayout(xhtml string) ([]entity.TextBlock, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(xhtml))
	if err != nil {
		return nil, err
	}
	blocks := []entity.TextBlock{}
	doc.Find("block").Each(func(_ int, s *goquery.Selection) {
		var lines []string
		s.Find("line").Each(func(_ int, l *goquery.Selection) {
			var words []string
			l.Find("word").Each(func(_ int, w *goquery.Selection) {
				words = append(words, strings.TrimSpace(w.Text()))
			})
			if len(words) > 0 {
				lines = append(lines, strings.Join(words, " "))
			}
		})
		text := strings.Join(lines, "\n")
		if text == "" {
			text = strings.Join(strings.Fields(s.Text()), " ")
		}
		blocks = append(blocks, entity.TextBlock{
			X0:   attrFloat(s, "xmin"),
			Y0:   attrFloat(s, "ymin"),
			X1:   attrFloat(s, "xmax"),
			Y1:   attrFloat(s, "ymax"),
			Text: text,
			// poppler only reports text blocks
			BlockType: 0,
		})
	})
	return blocks, nil
}

// attrFloat reads a numeric attribute. The HTML parser lowercases names.
func attrFloat(s *goquery.Selection, name string) float64 {
	v, ok := s.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}
