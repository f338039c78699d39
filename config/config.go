package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	OCRProviderVision    = "vision"
	OCRProviderTesseract = "tesseract"

	LLMProviderGemini = "gemini"
	LLMProviderStub   = "stub"
)

// languageCodeMap maps 2-letter language codes to full language names
var languageCodeMap = map[string]string{
	"sa": "Sanskrit",
	"hi": "Hindi",
	"mr": "Marathi",
	"ne": "Nepali",
	"en": "English",
	"de": "German",
}

// Config holds all configuration for the manuscript service
type Config struct {
	// Server configuration
	Port           string
	AllowedOrigins string
	MaxUploadBytes int64

	// Requests per minute per client IP on /process and /chatbot; 0 (default) disables.
	RateLimitPerMinute int

	// OCR configuration
	OCRProvider    string
	VisionAPIKey   string
	VisionEndpoint string

	// Gemini configuration
	LLMProvider    string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string

	UpstreamTimeout time.Duration

	// Languages
	SourceLanguage string
	TargetLanguage string

	// Image preparation
	MaxImageDimension int

	// Sessions
	SessionCookie  string
	SessionIdleTTL time.Duration

	// Logging
	LogLevel string
}

// fileConfig is the optional YAML overlay. Secrets are never read from it.
type fileConfig struct {
	Port              string `yaml:"port"`
	AllowedOrigins    string `yaml:"allowed_origins"`
	MaxUploadBytes    string `yaml:"max_upload_bytes"`
	RateLimit         string `yaml:"rate_limit_per_minute"`
	OCRProvider       string `yaml:"ocr_provider"`
	VisionEndpoint    string `yaml:"vision_endpoint"`
	LLMProvider       string `yaml:"llm_provider"`
	GeminiModel       string `yaml:"gemini_model"`
	GeminiEndpoint    string `yaml:"gemini_endpoint"`
	UpstreamTimeout   string `yaml:"upstream_timeout"`
	SourceLanguage    string `yaml:"source_language"`
	TargetLanguage    string `yaml:"target_language"`
	MaxImageDimension string `yaml:"max_image_dimension"`
	SessionCookie     string `yaml:"session_cookie"`
	SessionIdleTTL    string `yaml:"session_idle_ttl"`
	LogLevel          string `yaml:"log_level"`
}

// Load loads configuration from environment variables. When CONFIG_FILE names
// a YAML file its values replace the built-in defaults; environment variables
// still win over both.
func Load() (*Config, error) {
	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	config := &Config{
		// Server defaults
		Port:           getEnv("PORT", or(fc.Port, "6005")),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", or(fc.AllowedOrigins, "*")),
		MaxUploadBytes: int64(getIntEnv("MAX_UPLOAD_BYTES", atoiOr(fc.MaxUploadBytes, 20<<20))),

		RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", atoiOr(fc.RateLimit, 0)),

		// OCR defaults
		OCRProvider:    strings.ToLower(getEnv("OCR_PROVIDER", or(fc.OCRProvider, OCRProviderVision))),
		VisionAPIKey:   getEnv("VISION_API_KEY", ""),
		VisionEndpoint: getEnv("VISION_ENDPOINT", or(fc.VisionEndpoint, "https://vision.googleapis.com")),

		// Gemini defaults
		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", or(fc.LLMProvider, LLMProviderGemini))),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", or(fc.GeminiModel, "gemini-1.5-flash")),
		GeminiEndpoint: getEnv("GEMINI_ENDPOINT", or(fc.GeminiEndpoint, "https://generativelanguage.googleapis.com")),

		UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", parseDurationOr(fc.UpstreamTimeout, 60*time.Second)),

		// Languages
		SourceLanguage: getEnv("SOURCE_LANGUAGE", or(fc.SourceLanguage, "sa")),
		TargetLanguage: getEnv("TARGET_LANGUAGE", or(fc.TargetLanguage, "en")),

		MaxImageDimension: getIntEnv("MAX_IMAGE_DIMENSION", atoiOr(fc.MaxImageDimension, 2048)),

		// Sessions
		SessionCookie:  getEnv("SESSION_COOKIE", or(fc.SessionCookie, "vedalipi_session")),
		SessionIdleTTL: getDurationEnv("SESSION_IDLE_TTL", parseDurationOr(fc.SessionIdleTTL, 2*time.Hour)),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", or(fc.LogLevel, "info")),
	}

	return config, nil
}

// Validate reports missing secrets and unknown providers.
func (c *Config) Validate() error {
	var errs []error

	switch c.OCRProvider {
	case OCRProviderVision:
		if c.VisionAPIKey == "" {
			errs = append(errs, errors.New("VISION_API_KEY environment variable is required"))
		}
	case OCRProviderTesseract:
	default:
		errs = append(errs, fmt.Errorf("unknown OCR_PROVIDER %q", c.OCRProvider))
	}

	switch c.LLMProvider {
	case LLMProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY environment variable is required"))
		}
	case LLMProviderStub:
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be greater than 0"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must not be negative"))
	}

	return errors.Join(errs...)
}

// LanguageName returns the full language name for a 2-letter code, or the
// code itself when it is not known.
func LanguageName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if fullName, exists := languageCodeMap[code]; exists {
		return fullName
	}
	return code
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func or(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func atoiOr(value string, defaultValue int) int {
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	return defaultValue
}

func parseDurationOr(value string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
