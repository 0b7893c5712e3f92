package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("a missing config file must not be an error: %v", err)
	}
	if cfg.Screener.Workers != 8 {
		t.Errorf("expected default workers 8, got %d", cfg.Screener.Workers)
	}
	if cfg.Screener.HistoryDays != 120 {
		t.Errorf("expected default history 120, got %d", cfg.Screener.HistoryDays)
	}
	if cfg.Schedule.DailyCron != "0 30 15 * * 1-5" {
		t.Errorf("unexpected default cron: %s", cfg.Schedule.DailyCron)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_source:
  base_url: https://quotes.example.com
screener:
  workers: 4
  sort_by: pct_change
schedule:
  rules:
    - 股价大于10元且涨幅大于5%
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCREEN_WORKERS", "16")
	t.Setenv("DATA_API_KEY", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.BaseURL != "https://quotes.example.com" {
		t.Errorf("unexpected base url: %s", cfg.DataSource.BaseURL)
	}
	if cfg.DataSource.APIKey != "secret" {
		t.Error("expected env var to fill the API key")
	}
	if cfg.Screener.Workers != 16 {
		t.Errorf("expected env override 16, got %d", cfg.Screener.Workers)
	}
	if len(cfg.Schedule.Rules) != 1 {
		t.Errorf("expected 1 scheduled rule, got %d", len(cfg.Schedule.Rules))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		return cfg
	}

	cfg := base()
	cfg.Screener.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative workers")
	}

	cfg = base()
	cfg.Screener.SortBy = "hotness"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown sort feature")
	}

	cfg = base()
	cfg.Schedule.Rules = []string{"股价大于10元", ""}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty scheduled rule")
	}
}
