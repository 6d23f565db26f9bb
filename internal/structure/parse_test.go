package structure

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

func TestParseCatalogStripsFence(t *testing.T) {
	cat, _, err := ParseCatalog("```json\n{\"product_family\":\"X\",\"products\":[]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "X", cat.ProductFamily)
	assert.NotNil(t, cat.Products)
	assert.Empty(t, cat.Products)
}

func TestStripFence(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\":1}\n```":             `{"a":1}`,
		"```\n{\"a\":1}\n```":                 `{"a":1}`,
		"Here you go:\n```JSON\n[1]\n```\nok": `[1]`,
		"  {\"a\":1}  ":                       `{"a":1}`,
		"```json\n{\"a\":1}":                  `{"a":1}`,
	}
	for in, want := range tests {
		assert.Equal(t, want, StripFence(in), in)
	}
}

func TestParseCatalogRepairsTrailingCommas(t *testing.T) {
	cat, raw, err := ParseCatalog(`{"product_family":"Y","products":[{"name":"A","features":["x","y",],},],}`)
	require.NoError(t, err)
	assert.Equal(t, "Y", cat.ProductFamily)
	require.Len(t, cat.Products, 1)
	assert.Equal(t, []string{"x", "y"}, cat.Products[0].Features)
	assert.True(t, json.Valid(raw))
}

func TestParseCatalogRejectsGarbage(t *testing.T) {
	for _, in := range []string{
		"",
		"not json at all",
		`{"product_family": "X", "products": [}`,
		`{"a":1} trailing`,
		`{'single': 'quotes'}`,
	} {
		_, _, err := ParseCatalog(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, common.ErrResponseFormat, in)
	}
}

func TestParseCatalogLenientScalars(t *testing.T) {
	cat, _, err := ParseCatalog(`{"product_family":"F","company":{"phone":5551234},
"products":[{"name":"N","model":420,"pricing":{"price":99.5},"images_count":"3"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "5551234", string(*cat.Company.Phone))
	p := cat.Products[0]
	assert.Equal(t, "420", string(*p.Model))
	assert.Equal(t, "99.5", string(*p.Pricing.Price))
	assert.Equal(t, 3, int(p.ImagesCount))
}

func TestSpecificationsRoundTrip(t *testing.T) {
	in := `{"product_family":"F","category":"C","company":{},"products":[{"name":"N","features":[],` +
		`"specifications":{"Electrical":{"Voltage":"230V","Phases":3},"Weight":"12 kg"},"applications":[],"images_count":0}]}`
	cat, _, err := ParseCatalog(in)
	require.NoError(t, err)

	out, err := json.Marshal(cat)
	require.NoError(t, err)
	again, _, err := ParseCatalog(string(out))
	require.NoError(t, err)
	out2, err := json.Marshal(again)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
	assert.Equal(t, string(out), string(out2))
}

func TestValidateCatalogJSON(t *testing.T) {
	assert.NoError(t, ValidateCatalogJSON([]byte(goodReply)))
	assert.Error(t, ValidateCatalogJSON([]byte(`{"products":"none"}`)))
	assert.Error(t, ValidateCatalogJSON([]byte(`{"product_family":"x"}`)))
}

func TestParseCatalogLenientShapes(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		check func(t *testing.T, p entity.Product)
	}{
		{
			name: "empty specifications list",
			in:   `{"product_family":"X","category":"Pumps","products":[{"name":"A100","model":"A100","specifications":[]}]}`,
			check: func(t *testing.T, p entity.Product) {
				assert.NotNil(t, p.Specifications)
				assert.Empty(t, p.Specifications)
			},
		},
		{
			name: "null specifications",
			in:   `{"products":[{"name":"A100","specifications":null}]}`,
			check: func(t *testing.T, p entity.Product) {
				assert.Empty(t, p.Specifications)
			},
		},
		{
			name: "specifications as list of groups",
			in:   `{"products":[{"name":"A100","specifications":[{"Power":{"Voltage":"230V"}},{"Weight":"12 kg"},"stray"]}]}`,
			check: func(t *testing.T, p entity.Product) {
				assert.Equal(t, []string{"Power", "Weight"}, p.Specifications.Categories())
				assert.Equal(t, "12 kg", p.Specifications["Weight"].Scalar)
			},
		},
		{
			name: "mixed feature scalars",
			in:   `{"products":[{"name":"A100","features":["quiet",3,true,null,{"ip":"68"}]}]}`,
			check: func(t *testing.T, p entity.Product) {
				assert.Equal(t, []string{"quiet", "3", "true", `{"ip":"68"}`}, p.Features)
			},
		},
		{
			name: "bare application string",
			in:   `{"products":[{"name":"A100","applications":"Irrigation"}]}`,
			check: func(t *testing.T, p entity.Product) {
				assert.Equal(t, []string{"Irrigation"}, p.Applications)
			},
		},
		{
			name: "object in a text field",
			in:   `{"products":[{"name":"A100","description":{"short":"Pump"}}]}`,
			check: func(t *testing.T, p entity.Product) {
				assert.Equal(t, `{"short":"Pump"}`, entity.Str(p.Description))
			},
		},
		{
			name: "bare price",
			in:   `{"products":[{"name":"A100","pricing":"$10"}]}`,
			check: func(t *testing.T, p entity.Product) {
				require.NotNil(t, p.Pricing)
				assert.Equal(t, "$10", entity.Str(p.Pricing.Price))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, _, err := ParseCatalog(tt.in)
			require.NoError(t, err)
			require.Len(t, cat.Products, 1)
			assert.Equal(t, "A100", entity.Str(cat.Products[0].Name))
			tt.check(t, cat.Products[0])
		})
	}
}

func TestParseCatalogLenientTopLevel(t *testing.T) {
	cat, _, err := ParseCatalog(`{"product_family":2024,"category":"Pumps","company":"Acme","products":["A100",7,{"name":"B200"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "2024", cat.ProductFamily)
	assert.Equal(t, "Acme", entity.Str(cat.Company.Name))
	require.Len(t, cat.Products, 2)
	assert.Equal(t, "A100", entity.Str(cat.Products[0].Name))
	assert.Equal(t, "B200", entity.Str(cat.Products[1].Name))
	assert.NotNil(t, cat.Products[0].Features)
}

func TestParseCatalogShapeErrors(t *testing.T) {
	for _, in := range []string{`[{"name":"A100"}]`, `"just text"`, `42`} {
		_, _, err := ParseCatalog(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, common.ErrResponseShape, in)
		assert.NotErrorIs(t, err, common.ErrResponseFormat, in)
	}
}
