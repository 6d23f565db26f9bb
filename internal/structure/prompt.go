package structure

// systemPrompt is shared by every provider.
const systemPrompt = "You are an expert at analyzing product catalogs. You must extract ONLY the actual information " +
	"from the provided text and images. NEVER invent or make up model numbers. Extract exactly what you see. " +
	"Return ONLY valid JSON with no markdown formatting."

// analysisPrompt is provider-independent. The schema block is what the
// parser decodes.
const analysisPrompt = `You are analyzing a product catalog PDF. Extract and structure ALL product information into JSON format for an e-commerce shopping page.

Your task:
1. Identify ALL products/models in the catalog (could be 1 or 100+ products)
2. Extract product details, specifications, features, pricing
3. Identify the company/brand information
4. Detect the product category/industry

Return ONLY valid JSON in this exact structure:
{
    "product_family": "Main product line or catalog name",
    "category": "Product category (e.g., Electronics, Industrial, Fashion, etc.)",
    "company": {
        "name": "Company name",
        "website": "Website URL if found",
        "phone": "Phone number if found",
        "email": "Email if found"
    },
    "products": [
        {
            "name": "Full product name",
            "model": "Model number/SKU",
            "tagline": "Short marketing tagline",
            "description": "Detailed product description",
            "features": ["feature 1", "feature 2"],
            "specifications": {
                "Category Name": {
                    "spec_name": "spec_value"
                }
            },
            "applications": ["use case 1", "use case 2"],
            "pricing": {
                "price": "price value or 'Contact for quote'",
                "currency": "USD/EUR/etc",
                "note": "any pricing notes"
            },
            "images_count": 0
        }
    ]
}

Rules:
- Extract ALL products (not just one)
- Be precise with specifications
- Preserve exact model numbers; do NOT invent model numbers that are not in the source
- Include all features mentioned
- If information is missing, omit the field or use null
- Return ONLY valid JSON, no other text`

const (
	visionContentLabel = "Extracted Text:"
	textContentLabel   = "IMPORTANT: Extract ONLY the actual model numbers and information from the text below.\n\nFull Text Content:"
)
