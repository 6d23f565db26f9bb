package constants

import "strings"

// AllowedExtensions holds the file extensions the watcher converts.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// Output file suffixes appended to the sanitized input base name.
const (
	SuffixHTML          = "_shopping_card.html"
	SuffixExtractedJSON = "_extracted.json"
	SuffixCatalogJSON   = "_data.json"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
