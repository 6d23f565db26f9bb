// Package extracttest provides in-memory PDF backends for tests.
package extracttest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/joseph-ayodele/catalog-cards/internal/extract"
)

// Page describes one fake page.
type Page struct {
	Text        string
	Rows        []extract.Row
	HTML        string
	RenderError error
}

// Document is an in-memory extract.Document.
type Document struct {
	Pages  []Page
	Meta   map[string]string
	Width  int
	Height int

	mu     sync.Mutex
	closed bool
}

func (d *Document) NumPage() int { return len(d.Pages) }

func (d *Document) page(idx int) (Page, error) {
	if idx < 0 || idx >= len(d.Pages) {
		return Page{}, fmt.Errorf("page %d out of range", idx)
	}
	return d.Pages[idx], nil
}

func (d *Document) Text(idx int) (string, error) {
	p, err := d.page(idx)
	return p.Text, err
}

func (d *Document) HTML(idx int, _ bool) (string, error) {
	p, err := d.page(idx)
	if err != nil {
		return "", err
	}
	if p.HTML != "" {
		return p.HTML, nil
	}
	var b strings.Builder
	b.WriteString("<div>")
	for _, line := range strings.Split(p.Text, "\n") {
		if strings.TrimSpace(line) != "" {
			b.WriteString("<p>" + line + "</p>")
		}
	}
	b.WriteString("</div>")
	return b.String(), nil
}

func (d *Document) ImageDPI(idx int, dpi float64) (*image.RGBA, error) {
	p, err := d.page(idx)
	if err != nil {
		return nil, err
	}
	if p.RenderError != nil {
		return nil, p.RenderError
	}
	w, h := d.size()
	scale := dpi / 72
	return image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale))), nil
}

func (d *Document) Bound(idx int) (image.Rectangle, error) {
	if _, err := d.page(idx); err != nil {
		return image.Rectangle{}, err
	}
	w, h := d.size()
	return image.Rect(0, 0, w, h), nil
}

func (d *Document) size() (int, int) {
	w, h := d.Width, d.Height
	if w == 0 {
		w = 612
	}
	if h == 0 {
		h = 792
	}
	return w, h
}

func (d *Document) Metadata() map[string]string {
	if d.Meta == nil {
		return map[string]string{}
	}
	return d.Meta
}

func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Closed reports whether Close was called.
func (d *Document) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Rows is an in-memory extract.RowSource backed by the same pages.
type Rows struct {
	Pages []Page
}

func (r *Rows) NumPage() int { return len(r.Pages) }

func (r *Rows) Rows(pageNumber int) ([]extract.Row, error) {
	if pageNumber < 1 || pageNumber > len(r.Pages) {
		return nil, fmt.Errorf("page %d out of range", pageNumber)
	}
	return r.Pages[pageNumber-1].Rows, nil
}

func (r *Rows) Close() error { return nil }

// Openers returns extractor options serving doc and rows for any path.
func Openers(doc *Document, rows *Rows) []extract.Option {
	return []extract.Option{
		extract.WithDocumentOpener(func(string) (extract.Document, error) { return doc, nil }),
		extract.WithRowOpener(func(string) (extract.RowSource, error) { return rows, nil }),
		extract.WithRunner(MissingBinary{}),
	}
}

// MissingBinary behaves as if poppler were not installed.
type MissingBinary struct{}

func (MissingBinary) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	return nil, nil, errors.New(`exec: "pdftotext": executable file not found in $PATH`)
}

// Runner answers pdftotext calls from canned per-flag output, and tesseract
// calls when OCR is set.
type Runner struct {
	Layout map[string]string // page number -> -layout output
	BBox   map[string]string // page number -> -bbox-layout output
	OCR    string            // tesseract stdout for any image
}

func (r Runner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	if strings.Contains(name, "tesseract") {
		if r.OCR == "" {
			return nil, []byte("no ocr"), errors.New("exit status 1")
		}
		return []byte(r.OCR), nil, nil
	}
	page := ""
	for i, a := range args {
		if a == "-f" && i+1 < len(args) {
			page = args[i+1]
		}
	}
	var src map[string]string
	switch {
	case contains(args, "-bbox-layout"):
		src = r.BBox
	case contains(args, "-layout"):
		src = r.Layout
	}
	out, ok := src[page]
	if !ok {
		return nil, []byte("no output"), errors.New("exit status 1")
	}
	return []byte(out), nil, nil
}

func contains(args []string, s string) bool {
	for _, a := range args {
		if a == s {
			return true
		}
	}
	return false
}

// TableRows builds positioned rows laying the grid out in columns 100pt apart.
func TableRows(top float64, grid [][]string) []extract.Row {
	rows := make([]extract.Row, 0, len(grid))
	for i, cells := range grid {
		y := top - float64(i)*14
		row := extract.Row{Y: y}
		for j, c := range cells {
			row.Runs = append(row.Runs, extract.TextRun{
				X: 50 + float64(j)*100, Y: y, W: float64(len(c)) * 5, FontSize: 10, S: c,
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// LineRows builds single-run rows, one per line of text.
func LineRows(top float64, lines ...string) []extract.Row {
	rows := make([]extract.Row, 0, len(lines))
	for i, l := range lines {
		y := top - float64(i)*14
		rows = append(rows, extract.Row{Y: y, Runs: []extract.TextRun{{X: 50, Y: y, W: float64(len(l)) * 5, FontSize: 10, S: l}}})
	}
	return rows
}

// MinimalPDF builds a small well-formed PDF with blank pages and an info
// dictionary, with a correct xref table so strict readers accept it.
func MinimalPDF(title, author string, pages int) []byte {
	var objs []string
	kids := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+i))
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages),
	)
	for i := 0; i < pages; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	}
	infoNum := len(objs) + 1
	objs = append(objs, fmt.Sprintf("<< /Title (%s) /Author (%s) /Producer (extracttest) >>", title, author))

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, infoNum, xref)
	return []byte(b.String())
}
