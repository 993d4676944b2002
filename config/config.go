package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the top-level node configuration.
type Config struct {
	DataDir     string `toml:"DataDir"`
	NetworkName string `toml:"NetworkName"`
	LogEnv      string `toml:"LogEnv"`
	LogFile     string `toml:"LogFile"`
	Ledger      Ledger `toml:"Ledger"`
}

// Ledger carries the knobs the mutation engine consults. They are passed
// into the engine explicitly; nothing reads them as ambient globals.
type Ledger struct {
	MinAutoRenewPeriod   uint64 `toml:"MinAutoRenewPeriod"`
	MaxAutoRenewPeriod   uint64 `toml:"MaxAutoRenewPeriod"`
	MaxTokenNameLength   int    `toml:"MaxTokenNameLength"`
	MaxTokenSymbolLength int    `toml:"MaxTokenSymbolLength"`
	MaxMemoLength        int    `toml:"MaxMemoLength"`
	MaxCustomFees        int    `toml:"MaxCustomFees"`
	MaxNftMetadataBytes  int    `toml:"MaxNftMetadataBytes"`
	MaxBatchSize         int    `toml:"MaxBatchSize"`
	MaxAutoAssociations  uint64 `toml:"MaxAutoAssociations"`
}

// DefaultLedger returns the ledger limits used when the config file leaves
// them unset.
func DefaultLedger() Ledger {
	return Ledger{
		MinAutoRenewPeriod:   2592000, // 30 days
		MaxAutoRenewPeriod:   8000001, // ~92.6 days
		MaxTokenNameLength:   100,
		MaxTokenSymbolLength: 100,
		MaxMemoLength:        100,
		MaxCustomFees:        10,
		MaxNftMetadataBytes:  100,
		MaxBatchSize:         10,
		MaxAutoAssociations:  5000,
	}
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot operate under.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir must be set")
	}
	if c.Ledger.MinAutoRenewPeriod == 0 || c.Ledger.MinAutoRenewPeriod >= c.Ledger.MaxAutoRenewPeriod {
		return fmt.Errorf("config: auto-renew period bounds invalid (min %d, max %d)",
			c.Ledger.MinAutoRenewPeriod, c.Ledger.MaxAutoRenewPeriod)
	}
	if c.Ledger.MaxBatchSize <= 0 {
		return fmt.Errorf("config: MaxBatchSize must be positive")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "tokennet-local"
	}
	defaults := DefaultLedger()
	if cfg.Ledger.MinAutoRenewPeriod == 0 {
		cfg.Ledger.MinAutoRenewPeriod = defaults.MinAutoRenewPeriod
	}
	if cfg.Ledger.MaxAutoRenewPeriod == 0 {
		cfg.Ledger.MaxAutoRenewPeriod = defaults.MaxAutoRenewPeriod
	}
	if cfg.Ledger.MaxTokenNameLength == 0 {
		cfg.Ledger.MaxTokenNameLength = defaults.MaxTokenNameLength
	}
	if cfg.Ledger.MaxTokenSymbolLength == 0 {
		cfg.Ledger.MaxTokenSymbolLength = defaults.MaxTokenSymbolLength
	}
	if cfg.Ledger.MaxMemoLength == 0 {
		cfg.Ledger.MaxMemoLength = defaults.MaxMemoLength
	}
	if cfg.Ledger.MaxCustomFees == 0 {
		cfg.Ledger.MaxCustomFees = defaults.MaxCustomFees
	}
	if cfg.Ledger.MaxNftMetadataBytes == 0 {
		cfg.Ledger.MaxNftMetadataBytes = defaults.MaxNftMetadataBytes
	}
	if cfg.Ledger.MaxBatchSize == 0 {
		cfg.Ledger.MaxBatchSize = defaults.MaxBatchSize
	}
	if cfg.Ledger.MaxAutoAssociations == 0 {
		cfg.Ledger.MaxAutoAssociations = defaults.MaxAutoAssociations
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir: "./data",
		LogEnv:  "dev",
	}
	applyDefaults(cfg)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("config: create default %s: %w", path, err)
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: encode default %s: %w", path, err)
	}
	return cfg, nil
}
