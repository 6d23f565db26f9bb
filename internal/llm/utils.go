package llm

import (
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// readImage loads a raster for a vision payload.
func readImage(path string) (EncodedImage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return EncodedImage{}, err
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	mt := mime.TypeByExtension("." + ext)
	if mt == "" {
		// fallbacks
		switch ext {
		case "jpg", "jpeg":
			mt = "image/jpeg"
		case "png":
			mt = "image/png"
		default:
			mt = "application/octet-stream"
		}
	}
	return EncodedImage{MimeType: mt, Base64: base64.StdEncoding.EncodeToString(b)}, nil
}

// TruncateRunes cuts s to at most n characters without splitting a rune.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// userText lays out the single user message every binding sends.
func userText(prompt, label, content, appendix string) string {
	var b strings.Builder
	b.WriteString(prompt)
	if content != "" {
		b.WriteString("\n\n")
		if label != "" {
			b.WriteString(label)
			b.WriteString("\n")
		}
		b.WriteString(content)
	}
	if appendix != "" {
		b.WriteString("\n\n")
		b.WriteString(appendix)
	}
	return b.String()
}
