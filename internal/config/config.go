// Package config loads the HCL configuration for the blackjack CLI.
package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/store"
)

// DefaultFile is the config file read when no path is given
const DefaultFile = "blackjack.hcl"

// Config represents the complete configuration
type Config struct {
	LogLevel string
	Table    TableSettings
	Storage  StorageSettings
}

// TableSettings contains the house rules
type TableSettings struct {
	StartingBankroll int    `hcl:"starting_bankroll,optional"`
	BlackjackPayout  string `hcl:"blackjack_payout,optional"`
}

// StorageSettings selects where the bankroll and round history live
type StorageSettings struct {
	Backend   string `hcl:"backend,optional"`
	Path      string `hcl:"path,optional"`
	RedisAddr string `hcl:"redis_addr,optional"`
	Key       string `hcl:"key,optional"`
}

// fileConfig mirrors the file layout. Blocks are pointers so they may be
// left out entirely.
type fileConfig struct {
	LogLevel string           `hcl:"log_level,optional"`
	Table    *TableSettings   `hcl:"table,block"`
	Storage  *StorageSettings `hcl:"storage,block"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Table: TableSettings{
			StartingBankroll: ledger.DefaultStartingBankroll,
			BlackjackPayout:  ledger.EvenMoney.String(),
		},
		Storage: StorageSettings{
			Backend:   store.BackendFile,
			Path:      "bankroll.json",
			RedisAddr: "localhost:6379",
			Key:       "blackjack:bankroll",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := Default()
	if fc.LogLevel != "" {
		config.LogLevel = fc.LogLevel
	}

	if t := fc.Table; t != nil {
		if t.StartingBankroll != 0 {
			config.Table.StartingBankroll = t.StartingBankroll
		}
		if t.BlackjackPayout != "" {
			config.Table.BlackjackPayout = t.BlackjackPayout
		}
	}

	if s := fc.Storage; s != nil {
		if s.Backend != "" {
			config.Storage.Backend = s.Backend
			// sqlite gets its own default path
			if s.Backend == store.BackendSQLite && s.Path == "" {
				config.Storage.Path = "blackjack.db"
			}
		}
		if s.Path != "" {
			config.Storage.Path = s.Path
		}
		if s.RedisAddr != "" {
			config.Storage.RedisAddr = s.RedisAddr
		}
		if s.Key != "" {
			config.Storage.Key = s.Key
		}
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.Table.StartingBankroll <= 0 {
		return fmt.Errorf("starting bankroll must be positive")
	}
	if _, err := ledger.ParsePayout(c.Table.BlackjackPayout); err != nil {
		return err
	}

	if !slices.Contains(store.Backends, c.Storage.Backend) {
		return fmt.Errorf("invalid storage backend: %s", c.Storage.Backend)
	}
	switch c.Storage.Backend {
	case store.BackendFile, store.BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required for the %s backend", c.Storage.Backend)
		}
	case store.BackendRedis:
		if c.Storage.RedisAddr == "" || c.Storage.Key == "" {
			return fmt.Errorf("redis_addr and key are required for the redis backend")
		}
	}

	return nil
}

// StoreOptions returns the options for store.Open
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:   c.Storage.Backend,
		Path:      c.Storage.Path,
		RedisAddr: c.Storage.RedisAddr,
		Key:       c.Storage.Key,
	}
}

// LedgerOptions returns the house rules as ledger options. Validate must
// have passed.
func (c *Config) LedgerOptions() []ledger.Option {
	payout, err := ledger.ParsePayout(c.Table.BlackjackPayout)
	if err != nil {
		payout = ledger.EvenMoney
	}
	return []ledger.Option{
		ledger.WithStartingBankroll(c.Table.StartingBankroll),
		ledger.WithPayout(payout),
	}
}
