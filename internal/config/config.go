// Package config loads server and market configuration via viper, falling
// back to a built-in market list when no config file is present so a fresh
// checkout still boots.
package config

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

// Market describes one tradable symbol's tick scale and settlement asset.
type Market struct {
	Symbol         string  `mapstructure:"symbol"`
	BaseAsset      string  `mapstructure:"base_asset"`
	TickMultiplier uint64  `mapstructure:"tick_multiplier"`
}

// Config is everything the server needs at boot.
type Config struct {
	Address  string   `mapstructure:"address"`
	Port     int      `mapstructure:"port"`
	SeedUSD  float64  `mapstructure:"seed_usd"`
	SeedBase float64  `mapstructure:"seed_base"`
	Markets  []Market `mapstructure:"markets"`
}

// DefaultMarkets is used when no config file supplies a market list.
func DefaultMarkets() []Market {
	return []Market{
		{Symbol: "BTC-USD", BaseAsset: "BTC", TickMultiplier: 100},
		{Symbol: "ETH-USD", BaseAsset: "ETH", TickMultiplier: 100},
	}
}

// Load reads configPath (YAML) via viper, with MATCHBOOK_-prefixed
// environment variable overrides, and sensible defaults when the file is
// absent.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("MATCHBOOK")
	v.AutomaticEnv()

	v.SetDefault("address", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("seed_usd", 100000.0)
	v.SetDefault("seed_base", 100.0)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Markets) == 0 {
		cfg.Markets = DefaultMarkets()
	}
	return &cfg, nil
}
