package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"dealscope/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Logging logging.Config `mapstructure:"logging"`
	SteamDB SteamDBConfig  `mapstructure:"steamdb"`
	Display DisplayConfig  `mapstructure:"display"`
	Export  ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// SteamDBConfig covers access to the SteamDB JSON endpoints.
type SteamDBConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Country        string        `mapstructure:"country"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// DisplayConfig bounds the paginated offer rendering.
type DisplayConfig struct {
	ChunkBudget int `mapstructure:"chunk_budget"`
	MaxChunks   int `mapstructure:"max_chunks"`
}

// ExportConfig governs the export-artifact token gate.
type ExportConfig struct {
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	StorePath string        `mapstructure:"store_path"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEALSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "dealscope")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("steamdb.base_url", "https://steamdb.info")
	v.SetDefault("steamdb.country", "ar")
	v.SetDefault("steamdb.request_timeout", "15s")
	v.SetDefault("steamdb.user_agent", "dealscope/1.0")

	v.SetDefault("display.chunk_budget", 950)
	v.SetDefault("display.max_chunks", 10)

	v.SetDefault("export.token_ttl", "5m")
	v.SetDefault("export.store_path", "dealscope-exports.db")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.SteamDB.BaseURL == "" {
		return fmt.Errorf("steamdb.base_url is required")
	}
	if len(c.SteamDB.Country) != 2 {
		return fmt.Errorf("steamdb.country must be a two-letter country code")
	}
	if c.Display.ChunkBudget <= 0 {
		return fmt.Errorf("display.chunk_budget must be greater than zero")
	}
	if c.Display.MaxChunks <= 0 {
		return fmt.Errorf("display.max_chunks must be greater than zero")
	}
	if c.Export.TokenTTL <= 0 {
		return fmt.Errorf("export.token_ttl must be greater than zero")
	}
	if c.Export.StorePath == "" {
		return fmt.Errorf("export.store_path is required")
	}
	return nil
}
