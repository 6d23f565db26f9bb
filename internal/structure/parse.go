package structure

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
)

var (
	reFence        = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\\r?\\n?(.*?)\\s*```")
	reTrailingObj  = regexp.MustCompile(`,\s*}`)
	reTrailingList = regexp.MustCompile(`,\s*]`)
)

// StripFence returns the interior of the first fenced code block, or the
// trimmed input when there is none.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "```") {
		return s
	}
	if m := reFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	// unterminated fence: drop the opening marker line
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}

// RepairTrailingCommas drops commas directly before a closing brace or
// bracket. It is the only repair applied; any other malformation falls
// through to the invalid-response sentinel.
func RepairTrailingCommas(s string) string {
	s = reTrailingObj.ReplaceAllString(s, "}")
	return reTrailingList.ReplaceAllString(s, "]")
}

// DecodeCompletion parses raw model output into v: fence strip, strict
// parse, then one retry after the trailing-comma repair. Only text that is
// still not JSON is a format error; valid JSON that is not an object is a
// shape error. The returned bytes are the JSON that decoded.
func DecodeCompletion(raw string, v any) ([]byte, error) {
	text := []byte(StripFence(raw))
	if !json.Valid(text) {
		text = []byte(RepairTrailingCommas(string(text)))
		if !json.Valid(text) {
			return nil, common.ResponseFormatError(errors.New("not a json document"))
		}
	}
	if trimmed := bytes.TrimSpace(text); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, common.ResponseShapeError(errors.New("top-level value is not an object"))
	}
	if err := json.Unmarshal(text, v); err != nil {
		return nil, common.ResponseShapeError(err)
	}
	return text, nil
}

// ParseCatalog decodes a completion into a catalog. Missing collections are
// normalized to empty ones.
func ParseCatalog(raw string) (entity.StructuredCatalog, []byte, error) {
	var c entity.StructuredCatalog
	b, err := DecodeCompletion(raw, &c)
	if err != nil {
		return entity.StructuredCatalog{}, nil, err
	}
	c.Normalize()
	return c, b, nil
}
