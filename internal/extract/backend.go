package extract

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// Document is the rendering backend. Page indexes are 0-based;
// *fitz.Document satisfies it directly.
type Document interface {
	NumPage() int
	Text(pageNumber int) (string, error)
	HTML(pageNumber int, header bool) (string, error)
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
	Bound(pageNumber int) (image.Rectangle, error)
	Metadata() map[string]string
	Close() error
}

// TextRun is one positioned piece of text in PDF user space (y grows up).
type TextRun struct {
	X, Y, W  float64
	FontSize float64
	S        string
}

// Row is a horizontal line of runs sharing a baseline, runs sorted by X.
type Row struct {
	Y    float64
	Runs []TextRun
}

// RowSource yields positioned text rows per page. Page numbers are 1-based.
type RowSource interface {
	NumPage() int
	Rows(pageNumber int) ([]Row, error)
	Close() error
}

// DocumentOpener and RowOpener are swapped out in tests.
type (
	DocumentOpener func(path string) (Document, error)
	RowOpener      func(path string) (RowSource, error)
)

func openFitz(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// pdfRows adapts ledongthuc/pdf. The reader is not safe for concurrent use.
type pdfRows struct {
	mu     sync.Mutex
	closer interface{ Close() error }
	r      *pdf.Reader
}

func openLedongthuc(path string) (RowSource, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &pdfRows{closer: f, r: r}, nil
}

func (p *pdfRows) NumPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.NumPage()
}

func (p *pdfRows) Rows(pageNumber int) (rows []Row, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// The parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read rows page %d: %v", pageNumber, r)
		}
	}()

	page := p.r.Page(pageNumber)
	if page.V.IsNull() {
		return nil, nil
	}
	raw, err := page.GetTextByRow()
	if err != nil {
		return nil, err
	}
	rows = make([]Row, 0, len(raw))
	for _, pr := range raw {
		if pr == nil || len(pr.Content) == 0 {
			continue
		}
		row := Row{Y: float64(pr.Position)}
		for _, t := range pr.Content {
			row.Runs = append(row.Runs, TextRun{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
		}
		sort.SliceStable(row.Runs, func(i, j int) bool { return row.Runs[i].X < row.Runs[j].X })
		rows = append(rows, row)
	}
	// top of the page first
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Y > rows[j].Y })
	return rows, nil
}

func (p *pdfRows) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
