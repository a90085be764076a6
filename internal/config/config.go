package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tally-dev/tally/internal/model"
)

// FileName is the config file inside a data directory.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Currencies CurrencyConfig `yaml:"currencies"`
	History    HistoryConfig  `yaml:"history"`
	Git        GitConfig      `yaml:"git"`
}

// CurrencyConfig fixes the ledger's two currencies.
type CurrencyConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// Pair returns the configured currencies in primary-first order.
func (c CurrencyConfig) Pair() []model.Currency {
	return []model.Currency{model.Currency(c.Primary), model.Currency(c.Secondary)}
}

// HistoryConfig controls history pagination.
type HistoryConfig struct {
	PageSize int `yaml:"page_size"`
}

// GitConfig controls git integration for the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Currencies.Primary == "" || cfg.Currencies.Secondary == "" {
		return nil, fmt.Errorf("config %s: both currencies must be set", path)
	}
	if cfg.History.PageSize <= 0 {
		cfg.History.PageSize = Default().History.PageSize
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default() *Config {
	return &Config{
		Currencies: CurrencyConfig{
			Primary:   string(model.CurrencyUZS),
			Secondary: string(model.CurrencyUSD),
		},
		History: HistoryConfig{
			PageSize: 5,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Tally",
			AuthorEmail: "ledger@tally.dev",
		},
	}
}
