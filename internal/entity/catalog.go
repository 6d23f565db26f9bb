package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// FlexString accepts a JSON string, number or bool. Models are not
// consistent about quoting prices and model numbers.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	case '{', '[':
		// keep nested values readable rather than losing them
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*s = FlexString(buf.String())
		return nil
	default:
		*s = FlexString(b)
		return nil
	}
}

// Count is a non-negative integer that tolerates numeric strings.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		if i, err := n.Int64(); err == nil && i > 0 {
			*c = Count(i)
			return nil
		}
		if f, err := n.Float64(); err == nil && f > 0 {
			*c = Count(int(f))
			return nil
		}
		*c = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if i, err := strconv.Atoi(s); err == nil && i > 0 {
			*c = Count(i)
			return nil
		}
	}
	*c = 0
	return nil
}

// decodeStrings reads a list of strings from whatever the model produced:
// a list of mixed scalars, a bare scalar, or null. Nulls and empty strings
// are skipped; nested values are kept as compact JSON.
func decodeStrings(b []byte) []string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var items []json.RawMessage
	if b[0] == '[' {
		if err := json.Unmarshal(b, &items); err != nil {
			return nil
		}
	} else {
		items = []json.RawMessage{b}
	}
	out := make([]string, 0, len(items))
	for _, raw := range items {
		var v FlexString
		if err := v.UnmarshalJSON(raw); err != nil || v == "" {
			continue
		}
		out = append(out, string(v))
	}
	return out
}

// Company holds catalog-level contact data; every field is optional.
type Company struct {
	Name    *FlexString `json:"name,omitempty"`
	Website *FlexString `json:"website,omitempty"`
	Phone   *FlexString `json:"phone,omitempty"`
	Email   *FlexString `json:"email,omitempty"`
}

// UnmarshalJSON accepts a bare name in place of the object.
func (c *Company) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*c = Company{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] != '{' {
		var name FlexString
		if err := name.UnmarshalJSON(b); err != nil {
			return nil
		}
		if name != "" {
			c.Name = &name
		}
		return nil
	}
	type plain Company
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = Company(v)
	return nil
}

// Pricing as printed in the catalog.
type Pricing struct {
	Price    *FlexString `json:"price,omitempty"`
	Currency *FlexString `json:"currency,omitempty"`
	Note     *FlexString `json:"note,omitempty"`
}

// UnmarshalJSON accepts a bare price in place of the object.
func (p *Pricing) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*p = Pricing{}
	if len(b) > 0 && b[0] != '{' {
		var price FlexString
		if err := price.UnmarshalJSON(b); err != nil {
			return nil
		}
		if price != "" {
			p.Price = &price
		}
		return nil
	}
	type plain Pricing
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Pricing(v)
	return nil
}

// SpecGroup is either a name→value mapping or, in the degenerate form, a
// single scalar value.
type SpecGroup struct {
	Entries map[string]any
	Scalar  any
}

func (g *SpecGroup) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		m := map[string]any{}
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		g.Entries = m
		g.Scalar = nil
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	g.Entries = nil
	g.Scalar = v
	return nil
}

func (g SpecGroup) MarshalJSON() ([]byte, error) {
	if g.Entries != nil {
		return json.Marshal(g.Entries)
	}
	return json.Marshal(g.Scalar)
}

// IsMap reports whether the group has the name→value shape.
func (g SpecGroup) IsMap() bool { return g.Entries != nil }

// Keys returns the entry names sorted, for stable rendering.
func (g SpecGroup) Keys() []string {
	keys := make([]string, 0, len(g.Entries))
	for k := range g.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len counts specs the way the conversion summary does: a map counts its
// entries, a scalar counts as one.
func (g SpecGroup) Len() int {
	if g.Entries != nil {
		return len(g.Entries)
	}
	return 1
}

// Specifications maps category name to its spec group.
type Specifications map[string]SpecGroup

// UnmarshalJSON treats null, scalars and empty lists as no specifications.
// A list of objects is merged in order.
func (s *Specifications) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	out := Specifications{}
	switch {
	case len(b) == 0:
	case b[0] == '{':
		m := map[string]SpecGroup{}
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		out = m
	case b[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		for _, raw := range items {
			raw = bytes.TrimSpace(raw)
			if len(raw) == 0 || raw[0] != '{' {
				continue
			}
			m := map[string]SpecGroup{}
			if err := json.Unmarshal(raw, &m); err != nil {
				return err
			}
			for k, v := range m {
				out[k] = v
			}
		}
	}
	*s = out
	return nil
}

// Categories returns the category names sorted.
func (s Specifications) Categories() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Product is one entry of the structured listing.
type Product struct {
	Name           *FlexString    `json:"name,omitempty"`
	Model          *FlexString    `json:"model,omitempty"`
	Tagline        *FlexString    `json:"tagline,omitempty"`
	Description    *FlexString    `json:"description,omitempty"`
	Features       []string       `json:"features"`
	Specifications Specifications `json:"specifications"`
	Applications   []string       `json:"applications"`
	Pricing        *Pricing       `json:"pricing,omitempty"`
	ImagesCount    Count          `json:"images_count"`
}

// UnmarshalJSON reads the string lists leniently; see decodeStrings.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	var v struct {
		plain
		Features     json.RawMessage `json:"features"`
		Applications json.RawMessage `json:"applications"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Product(v.plain)
	p.Features = decodeStrings(v.Features)
	p.Applications = decodeStrings(v.Applications)
	return nil
}

// StructuredCatalog is the provider-agnostic product document.
type StructuredCatalog struct {
	ProductFamily string    `json:"product_family"`
	Category      string    `json:"category"`
	Company       Company   `json:"company"`
	Products      []Product `json:"products"`

	// Set by the translator only.
	Language string `json:"_language,omitempty"`
	RTL      *bool  `json:"_rtl,omitempty"`
}

// UnmarshalJSON tolerates non-string family and category values and product
// entries that are not objects: a bare string becomes a product name, other
// scalars are dropped.
func (c *StructuredCatalog) UnmarshalJSON(b []byte) error {
	type plain StructuredCatalog
	var v struct {
		plain
		ProductFamily FlexString      `json:"product_family"`
		Category      FlexString      `json:"category"`
		Products      json.RawMessage `json:"products"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = StructuredCatalog(v.plain)
	c.ProductFamily = string(v.ProductFamily)
	c.Category = string(v.Category)

	raw := bytes.TrimSpace(v.Products)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		c.Products = nil
		return nil
	}
	var items []json.RawMessage
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
	} else {
		items = []json.RawMessage{raw}
	}
	c.Products = make([]Product, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 {
			continue
		}
		switch item[0] {
		case '{':
			var p Product
			if err := json.Unmarshal(item, &p); err != nil {
				return err
			}
			c.Products = append(c.Products, p)
		case '"':
			var name string
			if err := json.Unmarshal(item, &name); err == nil && name != "" {
				c.Products = append(c.Products, Product{Name: StrPtr(name)})
			}
		}
	}
	return nil
}

// Normalize replaces nil collections with empty ones so that the JSON form
// always carries arrays and objects rather than nulls.
func (c *StructuredCatalog) Normalize() {
	if c.Products == nil {
		c.Products = []Product{}
	}
	for i := range c.Products {
		p := &c.Products[i]
		if p.Features == nil {
			p.Features = []string{}
		}
		if p.Applications == nil {
			p.Applications = []string{}
		}
		if p.Specifications == nil {
			p.Specifications = Specifications{}
		}
	}
}

// Clone returns a deep copy via the JSON form, so stages never share
// mutable state.
func (c StructuredCatalog) Clone() StructuredCatalog {
	b, err := json.Marshal(c)
	if err != nil {
		return c
	}
	var out StructuredCatalog
	if err := json.Unmarshal(b, &out); err != nil {
		return c
	}
	return out
}

// Str returns the string value of an optional field, "" when absent.
func Str(s *FlexString) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// StrPtr wraps a literal into an optional field.
func StrPtr(s string) *FlexString {
	v := FlexString(s)
	return &v
}

// BoolPtr wraps a literal bool.
func BoolPtr(b bool) *bool { return &b }

// FormatSpecValue renders a decoded spec value for display.
func FormatSpecValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
