package constants

import (
	"strings"
)

type Language string

const (
	English Language = "english"
	Persian Language = "persian"
	Chinese Language = "chinese"
)

var allLanguages = []Language{
	English,
	Persian,
	Chinese,
}

// LanguageInfo is the tag set written into translated catalogs and used by
// the HTML renderer.
type LanguageInfo struct {
	Code string
	Name string
	RTL  bool
	Font string
}

var languageInfo = map[Language]LanguageInfo{
	English: {Code: "en", Name: "English", RTL: false, Font: "'Segoe UI', Roboto, Arial, sans-serif"},
	Persian: {Code: "fa", Name: "Persian (Farsi)", RTL: true, Font: "Vazirmatn, Tahoma, 'Segoe UI', sans-serif"},
	Chinese: {Code: "zh", Name: "Simplified Chinese", RTL: false, Font: "'Noto Sans SC', 'Microsoft YaHei', 'PingFang SC', sans-serif"},
}

// Info returns the tag set for l; unknown languages get English's.
func (l Language) Info() LanguageInfo {
	if info, ok := languageInfo[l]; ok {
		return info
	}
	return languageInfo[English]
}

func LanguagesAsStringSlice() []string {
	result := make([]string, len(allLanguages))
	for i, l := range allLanguages {
		result[i] = string(l)
	}
	return result
}

// ParseLanguage accepts a language name or its ISO code.
func ParseLanguage(input string) (Language, bool) {
	if input == "" {
		return English, true
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]Language{
		"en":       English,
		"fa":       Persian,
		"farsi":    Persian,
		"zh":       Chinese,
		"mandarin": Chinese,
	}

	if l, ok := synonyms[normalized]; ok {
		return l, true
	}

	for _, l := range allLanguages {
		if normalized == string(l) {
			return l, true
		}
	}

	return English, false
}

// LanguageForCode maps an ISO code back to a Language.
func LanguageForCode(code string) Language {
	for l, info := range languageInfo {
		if info.Code == code {
			return l
		}
	}
	return English
}
