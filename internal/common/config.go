package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Extract   ExtractConfig
	LLM       LLMConfig
	Providers ProviderKeys
	Models    ProviderModels
	Output    OutputConfig
	LogLevel  string
}

// DatabaseConfig holds run-history store configuration
type DatabaseConfig struct {
	// DSN is either a postgres:// URL or a sqlite file path.
	DSN         string
	DialTimeout time.Duration
}

// ExtractConfig holds content-extraction configuration
type ExtractConfig struct {
	ImagesDir     string
	PdfToText     string
	Tesseract     string
	TesseractLang string
	Workers       int
	DPI           float64
}

// LLMConfig holds gateway-wide settings
type LLMConfig struct {
	Timeout         time.Duration
	HelperTimeout   time.Duration
	RequestsPerMin  int
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// ProviderKeys are the raw credential strings, one per backend. Empty means unset.
type ProviderKeys struct {
	DeepSeek    string
	Anthropic   string
	HuggingFace string
	Google      string
	OpenAI      string
}

// ProviderModels are per-backend model overrides.
type ProviderModels struct {
	DeepSeek    string
	Anthropic   string
	HuggingFace string
	Google      string
	OpenAI      string
}

// OutputConfig holds default output locations
type OutputConfig struct {
	Dir string
}

// LoadConfig loads configuration from a .env file (if present) and the
// process environment. Process env wins over .env.
func LoadConfig(envFiles ...string) *Config {
	loadDotEnv(envFiles...)

	return &Config{
		Database: DatabaseConfig{
			DSN:         getEnv("DB_URL", "output/history.db"),
			DialTimeout: getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Extract: ExtractConfig{
			ImagesDir:     getEnv("IMAGES_DIR", "output/images"),
			PdfToText:     getEnv("PDFTOTEXT", "pdftotext"),
			Tesseract:     getEnv("TESSERACT", "tesseract"),
			TesseractLang: getEnv("OCR_LANG", "eng"),
			Workers:       getEnvAsInt("EXTRACT_WORKERS", 1),
			DPI:           getEnvAsFloat("EXTRACT_DPI", 144),
		},
		LLM: LLMConfig{
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", 180*time.Second),
			HelperTimeout:   getEnvAsDuration("LLM_HELPER_TIMEOUT", 30*time.Second),
			RequestsPerMin:  getEnvAsInt("LLM_RPM", 30),
			BreakerFailures: uint32(getEnvAsInt("LLM_BREAKER_FAILURES", 5)),
			BreakerCooldown: getEnvAsDuration("LLM_BREAKER_COOLDOWN", 60*time.Second),
		},
		Providers: ProviderKeys{
			DeepSeek:    getEnvTrimmed("DEEPSEEK_API_KEY"),
			Anthropic:   getEnvTrimmed("ANTHROPIC_API_KEY"),
			HuggingFace: getEnvTrimmed("HUGGINGFACE_API_KEY"),
			Google:      getEnvTrimmed("GOOGLE_API_KEY"),
			OpenAI:      getEnvTrimmed("OPENAI_API_KEY"),
		},
		Models: ProviderModels{
			DeepSeek:    getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			Anthropic:   getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
			HuggingFace: getEnv("HUGGINGFACE_MODEL", "mistralai/Mistral-7B-Instruct-v0.3"),
			Google:      getEnv("GOOGLE_MODEL", "gemini-1.5-flash"),
			OpenAI:      getEnv("OPENAI_MODEL", "gpt-4o"),
		},
		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", "output"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// loadDotEnv reads .env files without overriding variables already set.
// A missing file is not an error.
func loadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env", "config/.env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Extract.ImagesDir == "" {
		return NewAppError(CodeConfig, "IMAGES_DIR is required", ErrInvalidInput)
	}
	if c.Extract.Workers < 1 {
		return NewAppError(CodeConfig, "EXTRACT_WORKERS must be >= 1", ErrInvalidInput)
	}
	if c.Extract.DPI <= 0 {
		return NewAppError(CodeConfig, "EXTRACT_DPI must be positive", ErrInvalidInput)
	}
	if c.LLM.Timeout <= 0 || c.LLM.HelperTimeout <= 0 {
		return NewAppError(CodeConfig, "LLM timeouts must be positive", ErrInvalidInput)
	}
	return nil
}
