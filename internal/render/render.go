// Package render turns a structured catalog into a static shopping page.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

//go:embed templates/shopping_card.html.tmpl
var shoppingCardTemplate string

var page = template.Must(template.New("shopping_card").Parse(shoppingCardTemplate))

const (
	defaultFamily   = "Product Catalog"
	defaultCategory = "Products"
	defaultProduct  = "Product"
	defaultPrice    = "Contact for Price"
)

// Labels are the fixed strings of the page chrome.
type Labels struct {
	Model          string
	Description    string
	Features       string
	Specifications string
	Applications   string
	Price          string
	AddToCart      string
}

var labels = map[constants.Language]Labels{
	constants.English: {
		Model:          "Model",
		Description:    "Product Description",
		Features:       "Key Features",
		Specifications: "Technical Specifications",
		Applications:   "Applications",
		Price:          "Price",
		AddToCart:      "Add to Cart",
	},
	constants.Persian: {
		Model:          "مدل",
		Description:    "توضیحات محصول",
		Features:       "ویژگی‌های کلیدی",
		Specifications: "مشخصات فنی",
		Applications:   "کاربردها",
		Price:          "قیمت",
		AddToCart:      "افزودن به سبد خرید",
	},
	constants.Chinese: {
		Model:          "型号",
		Description:    "产品描述",
		Features:       "主要特点",
		Specifications: "技术规格",
		Applications:   "应用领域",
		Price:          "价格",
		AddToCart:      "加入购物车",
	},
}

type specRow struct {
	Name  string
	Value string
}

type specView struct {
	Category string
	Grouped  bool
	Rows     []specRow
	Value    string
}

type productView struct {
	Name         string
	Model        string
	Tagline      string
	Description  string
	Features     []string
	Specs        []specView
	Applications []string
	Price        string
	PriceNote    string
}

type companyView struct {
	Name, Website, Phone, Email string
}

type pageView struct {
	Lang     constants.LanguageInfo
	Font     template.CSS
	Dir      template.CSS
	Labels   Labels
	Family   string
	Category string
	Company  *companyView
	Products []productView
}

// Renderer writes catalogs as HTML pages.
type Renderer struct {
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// Render produces the page. Language and direction come from the catalog's
// _language tag, English when untagged.
func (r *Renderer) Render(cat entity.StructuredCatalog) ([]byte, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, buildView(cat)); err != nil {
		return nil, fmt.Errorf("render catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders cat to path, creating parent directories.
func (r *Renderer) WriteFile(cat entity.StructuredCatalog, path string) error {
	html, err := r.Render(cat)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	r.logger.Info("render.html.ok", "path", path, "products", len(cat.Products), "bytes", len(html))
	return nil
}

func buildView(cat entity.StructuredCatalog) pageView {
	lang := constants.LanguageForCode(cat.Language)
	info := lang.Info()
	if cat.RTL != nil {
		info.RTL = *cat.RTL
	}
	dir := "ltr"
	if info.RTL {
		dir = "rtl"
	}

	v := pageView{
		Lang:     info,
		Font:     template.CSS(info.Font),
		Dir:      template.CSS(dir),
		Labels:   labels[lang],
		Family:   orDefault(cat.ProductFamily, defaultFamily),
		Category: orDefault(cat.Category, defaultCategory),
		Products: make([]productView, 0, len(cat.Products)),
	}

	c := companyView{
		Name:    entity.Str(cat.Company.Name),
		Website: entity.Str(cat.Company.Website),
		Phone:   entity.Str(cat.Company.Phone),
		Email:   entity.Str(cat.Company.Email),
	}
	if c != (companyView{}) {
		v.Company = &c
	}

	for _, p := range cat.Products {
		v.Products = append(v.Products, productViewOf(p))
	}
	return v
}

func productViewOf(p entity.Product) productView {
	pv := productView{
		Name:         orDefault(entity.Str(p.Name), defaultProduct),
		Model:        entity.Str(p.Model),
		Tagline:      entity.Str(p.Tagline),
		Description:  entity.Str(p.Description),
		Features:     p.Features,
		Applications: p.Applications,
		Price:        defaultPrice,
	}
	if p.Pricing != nil {
		pv.Price = orDefault(entity.Str(p.Pricing.Price), defaultPrice)
		pv.PriceNote = entity.Str(p.Pricing.Note)
	}
	for _, cat := range p.Specifications.Categories() {
		g := p.Specifications[cat]
		sv := specView{Category: cat, Grouped: g.IsMap()}
		if g.IsMap() {
			for _, k := range g.Keys() {
				sv.Rows = append(sv.Rows, specRow{Name: k, Value: entity.FormatSpecValue(g.Entries[k])})
			}
		} else {
			sv.Value = entity.FormatSpecValue(g.Scalar)
		}
		pv.Specs = append(pv.Specs, sv)
	}
	return pv
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
