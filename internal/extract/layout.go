package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

// pageLayout summarizes page geometry from the page bounds and the
// backend's HTML rendering of the page.
func pageLayout(doc Document, idx int) (entity.Layout, error) {
	if doc == nil {
		return entity.Layout{}, fmt.Errorf("no rendering backend")
	}
	bound, err := doc.Bound(idx)
	if err != nil {
		return entity.Layout{}, fmt.Errorf("bound: %w", err)
	}
	html, err := doc.HTML(idx, false)
	if err != nil {
		return entity.Layout{}, fmt.Errorf("html: %w", err)
	}
	text, images, err := countBlocks(html)
	if err != nil {
		return entity.Layout{}, err
	}
	return entity.Layout{
		Width:       float64(bound.Dx()),
		Height:      float64(bound.Dy()),
		BlockCount:  text + images,
		TextBlocks:  text,
		ImageBlocks: images,
	}, nil
}

func countBlocks(html string) (text, images int, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, 0, fmt.Errorf("parse page html: %w", err)
	}
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) != "" {
			text++
		}
	})
	images = doc.Find("img").Length()
	return text, images, nil
}
