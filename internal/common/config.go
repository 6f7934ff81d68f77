package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	OCR   OCRConfig
	Rules RulesConfig
	LLM   LLMConfig
	Excel ExcelConfig
}

// OCRConfig holds text-extraction configuration.
type OCRConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language string // tesseract language, default "fra"
	OEM      int    // tesseract engine mode, default 3
	PSM      int    // page segmentation mode, default 6
	DPI      int    // rasterization DPI for scanned PDFs, default 300

	// MinTextLen is the native-text threshold below which a PDF is treated
	// as scanned and sent to OCR. Default 50.
	MinTextLen int
}

// RulesConfig holds the per-category validity thresholds.
type RulesConfig struct {
	IdentityCardYears  int // informational; the expiry date on the card decides
	AuthorizationYears int // electrical authorization validity, default 3
	SafetySheetMinYear int // minimum publication year, default 2021
}

// LLMConfig holds the optional assistant configuration.
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// ExcelConfig holds report output configuration.
type ExcelConfig struct {
	SheetName string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Pdftotext:  getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:   getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:  getEnv("TESSERACT_BIN", "tesseract"),
			Language:   getEnv("OCR_LANGUAGE", "fra"),
			OEM:        getEnvAsInt("OCR_OEM", 3),
			PSM:        getEnvAsInt("OCR_PSM", 6),
			DPI:        getEnvAsInt("OCR_DPI", 300),
			MinTextLen: getEnvAsInt("OCR_MIN_TEXT_LEN", 50),
		},
		Rules: RulesConfig{
			IdentityCardYears:  getEnvAsInt("RULE_IDENTITY_CARD_YEARS", 10),
			AuthorizationYears: getEnvAsInt("RULE_AUTHORIZATION_YEARS", 3),
			SafetySheetMinYear: getEnvAsInt("RULE_SAFETY_SHEET_MIN_YEAR", 2021),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			Temperature: getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 45*time.Second),
		},
		Excel: ExcelConfig{
			SheetName: getEnv("EXCEL_SHEET_NAME", "Conformité Documents"),
		},
	}
}

// Validate checks the loaded configuration for values that would make every
// document fail in the same misleading way.
func (c *Config) Validate() error {
	if c.OCR.MinTextLen < 0 {
		return NewAppError("CONFIG_ERROR", "OCR_MIN_TEXT_LEN must be >= 0", ErrInvalidInput)
	}
	if c.Rules.AuthorizationYears <= 0 {
		return NewAppError("CONFIG_ERROR", "RULE_AUTHORIZATION_YEARS must be positive", ErrInvalidInput)
	}
	if c.Rules.SafetySheetMinYear <= 0 {
		return NewAppError("CONFIG_ERROR", "RULE_SAFETY_SHEET_MIN_YEAR must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
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
