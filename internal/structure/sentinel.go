package structure

import "github.com/joseph-ayodele/catalog-cards/internal/entity"

// Sentinel field values callers can match on.
const (
	NotConfiguredFamily   = "AI Configuration Required"
	NotConfiguredCategory = "Please Add API Key"
	NotConfiguredDesc     = "This system uses AI to intelligently extract product information from ANY catalog. " +
		"Please configure an AI provider by adding your API key to the .env file in the config folder."

	InvalidResponseFamily   = "Extraction Error"
	InvalidResponseCategory = "AI Response Invalid"
)

// NotConfigured is returned when no provider is usable. It never carries
// data derived from the document.
func NotConfigured() entity.StructuredCatalog {
	return entity.StructuredCatalog{
		ProductFamily: NotConfiguredFamily,
		Category:      NotConfiguredCategory,
		Company: entity.Company{
			Name:    entity.StrPtr("Configure AI to extract company info"),
			Website: entity.StrPtr(""),
			Phone:   entity.StrPtr(""),
		},
		Products: []entity.Product{{
			Name:        entity.StrPtr("AI API Key Required"),
			Model:       entity.StrPtr("N/A"),
			Tagline:     entity.StrPtr("Add API key to .env file to enable extraction"),
			Description: entity.StrPtr(NotConfiguredDesc),
			Features: []string{
				"Real-time AI extraction",
				"Works with any PDF type",
				"98%+ accuracy with proper AI",
			},
			Specifications: entity.Specifications{},
			Applications:   []string{},
			Pricing: &entity.Pricing{
				Price:    entity.StrPtr("Configure AI"),
				Currency: entity.StrPtr("USD"),
			},
		}},
	}
}

// InvalidResponse is returned when the completion is not valid JSON even
// after repair.
func InvalidResponse() entity.StructuredCatalog {
	return entity.StructuredCatalog{
		ProductFamily: InvalidResponseFamily,
		Category:      InvalidResponseCategory,
		Company:       entity.Company{},
		Products:      []entity.Product{},
	}
}

// IsNotConfigured reports whether c is the not-configured sentinel.
func IsNotConfigured(c entity.StructuredCatalog) bool {
	return c.ProductFamily == NotConfiguredFamily && c.Category == NotConfiguredCategory
}

// IsInvalidResponse reports whether c is the invalid-response sentinel.
func IsInvalidResponse(c entity.StructuredCatalog) bool {
	return c.Category == InvalidResponseCategory
}
