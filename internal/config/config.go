// Package config holds the node configuration: defaults, an optional
// TOML file, and DEXD_-prefixed environment overrides, in that priority
// order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete dexd node configuration.
type Config struct {
	// DataDir is where the pebble database lives.
	DataDir string `toml:"data_dir" mapstructure:"data_dir"`

	// ListenAddr is the JSON-RPC and websocket listen address.
	ListenAddr string `toml:"listen_addr" mapstructure:"listen_addr"`

	// AdminAccount is the platform account: it runs privileged pair
	// management and receives the platform fee share.
	AdminAccount string `toml:"admin_account" mapstructure:"admin_account"`

	// NativeAsset is the chain-native coin symbol.
	NativeAsset string `toml:"native_asset" mapstructure:"native_asset"`

	// GenesisFile optionally points to a JSON file of initial account
	// balances, applied once on an empty database.
	GenesisFile string `toml:"genesis_file" mapstructure:"genesis_file"`

	// LogLevel sets zap's level: debug, info, warn, error.
	LogLevel string `toml:"log_level" mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("listen_addr", "127.0.0.1:7645")
	v.SetDefault("admin_account", "")
	v.SetDefault("native_asset", "DGK")
	v.SetDefault("genesis_file", "")
	v.SetDefault("log_level", "info")
}

// Load reads the configuration. An empty path skips the file and uses
// defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("DEXD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr cannot be empty")
	}
	if c.NativeAsset == "" {
		return fmt.Errorf("native_asset cannot be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	return nil
}
