package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/finance-dashboard/internal/money"
)

// ErrInvalidConfig is returned when an environment value cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Record store backends.
const (
	StoreBigQuery = "bigquery"
	StoreSQLite   = "sqlite"
)

// Missing expense type policies, see filter.MissingPolicy.
const (
	MissingAsCategory = "category"
	MissingExclude    = "exclude"
)

// Config holds every setting read from the environment.
type Config struct {
	ProjectID    string
	Dataset      string
	RecordsTable string
	CardTable    string
	RecordStore  string
	SQLitePath   string

	// CardUserID is the fixed identity whose card summary is shown.
	CardUserID string

	GeminiModel string
	FontDir     string // empty uses the embedded fonts; gs:// prefixes are read from Cloud Storage
	Currency    string

	ReportBucket string
	NotionToken  string
	NotionDBID   string

	RecordsTTL      time.Duration
	CardTTL         time.Duration
	PipelineTimeout time.Duration

	MissingExpenseType string

	LogLevel  string
	LogFormat string
	Port      string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("Load: reading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can supply their own values.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		ProjectID:          get("GCP_PROJECT_ID", ""),
		Dataset:            get("BQ_DATASET", "finance"),
		RecordsTable:       get("BQ_RECORDS_TABLE", "registros1"),
		CardTable:          get("BQ_CARD_TABLE", "DebitoCartao"),
		RecordStore:        strings.ToLower(get("RECORD_STORE", StoreBigQuery)),
		SQLitePath:         get("SQLITE_PATH", "finance.db"),
		CardUserID:         get("CARD_USER_ID", "b3373108-fd8c-4670-8d4c-11b095a3f803"),
		GeminiModel:        get("GEMINI_MODEL", "gemini-2.5-flash"),
		FontDir:            get("FONT_DIR", ""),
		Currency:           strings.ToUpper(get("CURRENCY", "BRL")),
		ReportBucket:       get("REPORT_BUCKET", ""),
		NotionToken:        get("NOTION_TOKEN", ""),
		NotionDBID:         get("NOTION_DB_ID", ""),
		MissingExpenseType: strings.ToLower(get("MISSING_EXPENSE_TYPE", MissingAsCategory)),
		LogLevel:           get("LOG_LEVEL", "info"),
		LogFormat:          get("LOG_FORMAT", "console"),
		Port:               get("PORT", "8080"),
	}

	var err error
	if cfg.RecordsTTL, err = duration(get("RECORDS_TTL", "10m")); err != nil {
		return nil, fmt.Errorf("FromEnv: RECORDS_TTL: %w", err)
	}
	if cfg.CardTTL, err = duration(get("CARD_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("FromEnv: CARD_TTL: %w", err)
	}
	if cfg.PipelineTimeout, err = duration(get("PIPELINE_TIMEOUT", "2m")); err != nil {
		return nil, fmt.Errorf("FromEnv: PIPELINE_TIMEOUT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.RecordStore {
	case StoreBigQuery:
		if c.ProjectID == "" {
			return fmt.Errorf("%w: GCP_PROJECT_ID is required for the bigquery record store", ErrInvalidConfig)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH is required for the sqlite record store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown RECORD_STORE %q", ErrInvalidConfig, c.RecordStore)
	}

	switch c.MissingExpenseType {
	case MissingAsCategory, MissingExclude:
	default:
		return fmt.Errorf("%w: unknown MISSING_EXPENSE_TYPE %q", ErrInvalidConfig, c.MissingExpenseType)
	}

	if !money.Known(c.Currency) {
		return fmt.Errorf("%w: unknown CURRENCY %q", ErrInvalidConfig, c.Currency)
	}

	if (c.NotionToken == "") != (c.NotionDBID == "") {
		return fmt.Errorf("%w: NOTION_TOKEN and NOTION_DB_ID must be set together", ErrInvalidConfig)
	}
	return nil
}

// NotionEnabled reports whether report summaries should be published to Notion.
func (c *Config) NotionEnabled() bool {
	return c.NotionToken != "" && c.NotionDBID != ""
}

func duration(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidConfig, v)
	}
	return d, nil
}
