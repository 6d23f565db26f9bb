package structure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// catalogJSONSchema describes the structured catalog loosely: it flags
// shape problems without rejecting anything the decoder accepted.
func catalogJSONSchema() map[string]any {
	str := map[string]any{"type": []any{"string", "number", "null"}}
	strList := map[string]any{"type": []any{"array", "null"}, "items": map[string]any{"type": "string"}}
	return map[string]any{
		"type":     "object",
		"required": []any{"products"},
		"properties": map[string]any{
			"product_family": map[string]any{"type": []any{"string", "null"}},
			"category":       map[string]any{"type": []any{"string", "null"}},
			"company": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"name": str, "website": str, "phone": str, "email": str,
				},
			},
			"products": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type":     "object",
					"required": []any{"name"},
					"properties": map[string]any{
						"name":         str,
						"model":        str,
						"tagline":      str,
						"description":  str,
						"features":     strList,
						"applications": strList,
						"specifications": map[string]any{
							"type": []any{"object", "null"},
						},
						"pricing": map[string]any{
							"type": []any{"object", "null"},
							"properties": map[string]any{
								"price": str, "currency": str, "note": str,
							},
						},
						"images_count": map[string]any{"type": []any{"integer", "string", "null"}},
					},
				},
			},
		},
	}
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compileCatalogSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchema, compileErr = compileSchema(catalogJSONSchema())
	})
	return compiledSchema, compileErr
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("catalog.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateCatalogJSON checks decoded completion bytes against the catalog schema.
func ValidateCatalogJSON(data []byte) error {
	schema, err := compileCatalogSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
