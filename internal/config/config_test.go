package config

import (
	"errors"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"GCP_PROJECT_ID": "proj"}))
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.RecordsTTL != 10*time.Minute {
		t.Errorf("RecordsTTL = %v, want 10m", cfg.RecordsTTL)
	}
	if cfg.CardTTL != time.Hour {
		t.Errorf("CardTTL = %v, want 1h", cfg.CardTTL)
	}
	if cfg.RecordsTable != "registros1" || cfg.CardTable != "DebitoCartao" {
		t.Errorf("unexpected table names %q, %q", cfg.RecordsTable, cfg.CardTable)
	}
	if cfg.Currency != "BRL" {
		t.Errorf("Currency = %q, want BRL", cfg.Currency)
	}
	if cfg.MissingExpenseType != MissingAsCategory {
		t.Errorf("MissingExpenseType = %q, want %q", cfg.MissingExpenseType, MissingAsCategory)
	}
	if cfg.NotionEnabled() {
		t.Error("NotionEnabled() = true without credentials")
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bigquery without project", env: map[string]string{}},
		{name: "unknown store", env: map[string]string{"RECORD_STORE": "postgres"}},
		{name: "bad ttl", env: map[string]string{"GCP_PROJECT_ID": "p", "RECORDS_TTL": "soon"}},
		{name: "negative ttl", env: map[string]string{"GCP_PROJECT_ID": "p", "CARD_TTL": "-1m"}},
		{name: "unknown policy", env: map[string]string{"GCP_PROJECT_ID": "p", "MISSING_EXPENSE_TYPE": "guess"}},
		{name: "half notion", env: map[string]string{"GCP_PROJECT_ID": "p", "NOTION_TOKEN": "secret"}},
		{name: "unknown currency", env: map[string]string{"GCP_PROJECT_ID": "p", "CURRENCY": "XYZ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envMap(tt.env))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("FromEnv() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestFromEnv_SQLite(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"RECORD_STORE":         "SQLite",
		"SQLITE_PATH":          "/tmp/finance.db",
		"MISSING_EXPENSE_TYPE": "exclude",
		"NOTION_TOKEN":         "secret",
		"NOTION_DB_ID":         "db",
	}))
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.RecordStore != StoreSQLite {
		t.Errorf("RecordStore = %q, want %q", cfg.RecordStore, StoreSQLite)
	}
	if cfg.MissingExpenseType != MissingExclude {
		t.Errorf("MissingExpenseType = %q, want %q", cfg.MissingExpenseType, MissingExclude)
	}
	if !cfg.NotionEnabled() {
		t.Error("NotionEnabled() = false with both credentials set")
	}
}
