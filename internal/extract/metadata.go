package extract

import (
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

// documentMetadata reads the info dictionary from the rendering backend, or
// from pdfcpu when the backend could not open the file. Page count falls
// back to the row source when pdfcpu cannot supply one.
func (e *Extractor) documentMetadata(path string, doc Document, rows RowSource) entity.DocumentMetadata {
	md := entity.DocumentMetadata{SourceFile: path}

	if doc != nil {
		m := doc.Metadata()
		md.Title = m["title"]
		md.Author = m["author"]
		md.Subject = m["subject"]
		md.Creator = m["creator"]
		md.Producer = m["producer"]
		md.CreationDate = m["creationDate"]
		md.ModificationDate = m["modDate"]
		md.TotalPages = doc.NumPage()
		return md
	}

	if info, err := pdfcpuInfo(path); err == nil {
		md.Title = info.Title
		md.Author = info.Author
		md.Subject = info.Subject
		md.Creator = info.Creator
		md.Producer = info.Producer
		md.CreationDate = info.CreationDate
		md.ModificationDate = info.ModDate
		md.TotalPages = info.PageCount
	} else {
		e.logger.Warn("extract.metadata.pdfcpu_failed", "path", path, "error", err)
	}
	if md.TotalPages == 0 && rows != nil {
		md.TotalPages = rows.NumPage()
	}
	return md
}

type pdfInfo struct {
	Title, Author, Subject, Creator, Producer string
	CreationDate, ModDate                      string
	PageCount                                  int
}

func pdfcpuInfo(path string) (pdfInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return pdfInfo{}, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return pdfInfo{}, err
	}
	// Context embeds both Configuration and XRefTable; the info fields live
	// on the xref table.
	xt := ctx.XRefTable
	return pdfInfo{
		Title:        xt.Title,
		Author:       xt.Author,
		Subject:      xt.Subject,
		Creator:      xt.Creator,
		Producer:     xt.Producer,
		CreationDate: xt.CreationDate,
		ModDate:      xt.ModDate,
		PageCount:    xt.PageCount,
	}, nil
}
