package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"StockScout/internal/model"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Universe struct {
		Symbols   []string `yaml:"symbols"`
		CacheFile string   `yaml:"cache_file"`
	} `yaml:"universe"`
	Screener struct {
		Workers     int    `yaml:"workers"`
		HistoryDays int    `yaml:"history_days"`
		Limit       int    `yaml:"limit"`
		SortBy      string `yaml:"sort_by"`
		Strict      bool   `yaml:"strict"`
	} `yaml:"screener"`
	Schedule struct {
		DailyCron string   `yaml:"daily_cron"`
		Rules     []string `yaml:"rules"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_API_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SCREEN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Screener.Workers = n
		}
	}

	// Defaults
	if cfg.Screener.Workers == 0 {
		cfg.Screener.Workers = 8
	}
	if cfg.Screener.HistoryDays == 0 {
		cfg.Screener.HistoryDays = 120
	}
	if cfg.Screener.Limit == 0 {
		cfg.Screener.Limit = 50
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 15 * * 1-5"
	}
	if cfg.Universe.CacheFile == "" {
		cfg.Universe.CacheFile = "data/universe.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockscout.db"
	}

	return cfg, nil
}

// Validate checks that all fields carry usable values.
func (c *Config) Validate() error {
	if c.Screener.Workers <= 0 {
		return fmt.Errorf("screener.workers must be positive")
	}
	if c.Screener.HistoryDays <= 0 {
		return fmt.Errorf("screener.history_days must be positive")
	}
	if c.Screener.Limit < 0 {
		return fmt.Errorf("screener.limit must not be negative")
	}
	if c.Screener.SortBy != "" && !model.KnownField(model.Field(c.Screener.SortBy)) {
		return fmt.Errorf("screener.sort_by: unknown feature %q", c.Screener.SortBy)
	}
	for i, r := range c.Schedule.Rules {
		if r == "" {
			return fmt.Errorf("schedule.rules[%d] is empty", i)
		}
	}
	return nil
}
