// Package translate rewrites a catalog's values into another language
// through the LLM gateway. It never fails: on any error the original
// catalog comes back tagged with the requested language.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/catalog-cards/constants"
	"github.com/joseph-ayodele/catalog-cards/internal/common"
	"github.com/joseph-ayodele/catalog-cards/internal/entity"
	"github.com/joseph-ayodele/catalog-cards/internal/llm"
	"github.com/joseph-ayodele/catalog-cards/internal/structure"
)

const (
	maxDocumentChars = 25000
	docMaxTokens     = 8000
	textMaxTokens    = 500
)

type Config struct {
	Timeout       time.Duration // whole-catalog call, default 180s
	HelperTimeout time.Duration // TranslateText call, default 30s
}

type Translator struct {
	llm    llm.Completer
	cfg    Config
	logger *slog.Logger
}

// New builds a translator; completer may be nil.
func New(completer llm.Completer, cfg Config, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 180 * time.Second
	}
	if cfg.HelperTimeout <= 0 {
		cfg.HelperTimeout = 30 * time.Second
	}
	return &Translator{llm: completer, cfg: cfg, logger: logger}
}

func (t *Translator) available() bool {
	return t.llm != nil && t.llm.Provider() != llm.ProviderNone
}

// Translate returns a translated copy of cat tagged with _language/_rtl.
// English is a no-op apart from the tags.
func (t *Translator) Translate(ctx context.Context, cat entity.StructuredCatalog, lang constants.Language) entity.StructuredCatalog {
	logger := common.LoggerFrom(ctx, t.logger).With("language", string(lang))
	info := lang.Info()
	original := tag(cat.Clone(), info)

	if lang == constants.English {
		return original
	}
	if !t.available() {
		logger.Warn("translate.skipped", "reason", "no provider")
		return original
	}

	payload, err := marshalForPrompt(cat)
	if err != nil {
		logger.Error("translate.encode_failed", "error", err)
		return original
	}

	start := time.Now()
	out, err := t.llm.Complete(ctx, llm.Request{
		System:       fmt.Sprintf("You are a professional %s translator. Translate JSON values to %s while keeping the structure intact. Return ONLY valid JSON.", info.Name, info.Name),
		Prompt:       documentPrompt(info),
		ContentLabel: "Original JSON:",
		Content:      llm.TruncateRunes(payload, maxDocumentChars),
		MaxTokens:    docMaxTokens,
		Timeout:      t.cfg.Timeout,
	})
	if err != nil {
		logger.Warn("translate.provider_failed", "error", err)
		return original
	}

	translated, _, err := structure.ParseCatalog(out.Text)
	if err != nil {
		logger.Warn("translate.invalid_response", "error", err)
		return original
	}

	logger.Info("translate.ok",
		"products", len(translated.Products),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return tag(translated, info)
}

// TranslateText translates a single string, returning it unchanged on any
// failure.
func (t *Translator) TranslateText(ctx context.Context, text string, lang constants.Language) string {
	if lang == constants.English || strings.TrimSpace(text) == "" || !t.available() {
		return text
	}
	info := lang.Info()
	out, err := t.llm.Complete(ctx, llm.Request{
		System:    fmt.Sprintf("You are a professional %s translator. Return only the translation.", info.Name),
		Prompt:    fmt.Sprintf("Translate this text to %s. Return ONLY the translation, nothing else.", info.Name),
		Content:   text,
		MaxTokens: textMaxTokens,
		Timeout:   t.cfg.HelperTimeout,
	})
	if err != nil {
		common.LoggerFrom(ctx, t.logger).Debug("translate.text_failed", "language", string(lang), "error", err)
		return text
	}
	s := strings.TrimSpace(out.Text)
	if s == "" {
		return text
	}
	return s
}

func tag(c entity.StructuredCatalog, info constants.LanguageInfo) entity.StructuredCatalog {
	c.Language = info.Code
	c.RTL = entity.BoolPtr(info.RTL)
	return c
}

func documentPrompt(info constants.LanguageInfo) string {
	return fmt.Sprintf(`Translate this product catalog JSON to %s.

IMPORTANT:
- Translate ALL text values to %s
- Keep JSON structure EXACTLY the same
- Keep all JSON keys in English (like "name", "model", "features", etc.)
- Translate ONLY the values (product names, descriptions, features, etc.)
- Keep model numbers, units and prices unchanged
- Return ONLY valid JSON, no markdown, no explanations`, info.Name, info.Name)
}

// marshalForPrompt writes indented JSON without HTML escaping so non-Latin
// and markup characters reach the model as-is.
func marshalForPrompt(c entity.StructuredCatalog) (string, error) {
	c.Language = ""
	c.RTL = nil
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
