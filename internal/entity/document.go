package entity

// DocumentMetadata is captured once when extraction starts.
type DocumentMetadata struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	Subject          string `json:"subject"`
	Creator          string `json:"creator"`
	Producer         string `json:"producer"`
	CreationDate     string `json:"creation_date"`
	ModificationDate string `json:"modification_date"`
	SourceFile       string `json:"source_file"`
	TotalPages       int    `json:"total_pages"`
}

// ImageRef points at a raster written to disk during extraction.
type ImageRef struct {
	Page   int    `json:"page"`
	Type   string `json:"type"` // "full_page"
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Layout is a best-effort geometry summary. When it could not be computed
// only Error is set.
type Layout struct {
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	BlockCount  int     `json:"block_count,omitempty"`
	TextBlocks  int     `json:"text_blocks,omitempty"`
	ImageBlocks int     `json:"image_blocks,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// TextBlock is a positioned text fragment in PDF points.
type TextBlock struct {
	X0        float64 `json:"x0"`
	Y0        float64 `json:"y0"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	Text      string  `json:"text"`
	BlockType int     `json:"block_type"`
}

// Table is a raw grid: rows of cells, ragged rows allowed, missing cells "".
type Table [][]string

// PageContent is everything extracted from a single page.
type PageContent struct {
	PageNumber int         `json:"page_number"`
	Text       string      `json:"text"`
	TextLength int         `json:"text_length"`
	Tables     []Table     `json:"tables"`
	TableCount int         `json:"table_count"`
	Images     []ImageRef  `json:"images"`
	ImageCount int         `json:"image_count"`
	Layout     Layout      `json:"layout"`
	TextBlocks []TextBlock `json:"text_blocks"`
	HasContent bool        `json:"has_content"`
}

// Finalize fills the derived counters and HasContent from whatever fields
// were populated, defaulting missing collections to empty.
func (p *PageContent) Finalize() {
	if p.Tables == nil {
		p.Tables = []Table{}
	}
	if p.Images == nil {
		p.Images = []ImageRef{}
	}
	if p.TextBlocks == nil {
		p.TextBlocks = []TextBlock{}
	}
	p.TextLength = len(p.Text)
	p.TableCount = len(p.Tables)
	p.ImageCount = len(p.Images)
	p.HasContent = len(p.Text) > 0 || len(p.Tables) > 0 || len(p.Images) > 0
}

// IntermediateDocument is the page-indexed output of the content extractor.
type IntermediateDocument struct {
	Metadata DocumentMetadata `json:"metadata"`
	Pages    []PageContent    `json:"pages"`
}

// PageTable is a table tagged with the page it came from.
type PageTable struct {
	Page int   `json:"page"`
	Data Table `json:"data"`
}
