package config

import (
	"fmt"
	"os"

	"potool/internal/logger"
)

type Config struct {
	// Google Sheets Configuration (the PO ledger)
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Template Configuration
	TemplateFile string

	// Document Numbering Configuration
	NumberFormat   string // "slash" (PO-69/001) or "tagged" (ซจ.001)
	NumberSeed     string
	NumberTag      string
	NumberYear     string // when set, tagged numbers carry a /<year> suffix
	NumberStrategy string // "last" (default) or "max"

	// Internal Contact Defaults
	ContactPerson string
	ContactExt    string
	ContactEmail  string
	Preparer      string

	// HTTP Server Configuration
	HTTPAddr string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "PO_2569"),
		TemplateFile:         getEnv("PO_TEMPLATE_FILE", "template_po.xlsx"),
		NumberFormat:         getEnv("PO_NUMBER_FORMAT", "slash"),
		NumberSeed:           getEnv("PO_NUMBER_SEED", ""),
		NumberTag:            getEnv("PO_NUMBER_TAG", "ซจ."),
		NumberYear:           getEnv("PO_NUMBER_YEAR", ""),
		NumberStrategy:       getEnv("PO_NUMBER_STRATEGY", "last"),
		ContactPerson:        getEnv("PO_CONTACT_PERSON", "พบธรรม"),
		ContactExt:           getEnv("PO_CONTACT_EXT", "1131"),
		ContactEmail:         getEnv("PO_CONTACT_EMAIL", "pobthum.sa@depa.or.th"),
		Preparer:             getEnv("PO_PREPARER", "เจ้าหน้าที่พัสดุ"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.NumberFormat {
	case "slash", "tagged":
	default:
		return fmt.Errorf("PO_NUMBER_FORMAT must be \"slash\" or \"tagged\", got %q", c.NumberFormat)
	}
	switch c.NumberStrategy {
	case "last", "max":
	default:
		return fmt.Errorf("PO_NUMBER_STRATEGY must be \"last\" or \"max\", got %q", c.NumberStrategy)
	}
	return nil
}

// RequireSheet verifies the ledger configuration is present. Commands that
// only render or number locally do not need it, so it is not part of Load.
func (c *Config) RequireSheet() error {
	if c.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
