// Package config loads and validates tracker configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all tracker configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Source  SourceConfig  `mapstructure:"source"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the read-only HTTP view served by the serve command.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// SourceConfig identifies the trending source being scraped.
type SourceConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// FetchConfig governs the bounded-concurrency fetch pipeline.
type FetchConfig struct {
	Concurrency     int    `mapstructure:"concurrency"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	CooldownSeconds int    `mapstructure:"cooldown_seconds"`
	UserAgent       string `mapstructure:"user_agent"`
}

// PathsConfig sets the directories for per-run and cumulative outputs.
type PathsConfig struct {
	// WorkDir holds per-run snapshots and the cached facet list.
	WorkDir string `mapstructure:"work_dir"`
	// DataDir holds the rolling latest view and hour-stamped archives.
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRENDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("source.base_url", "https://github.com")
	v.SetDefault("fetch.concurrency", 5)
	v.SetDefault("fetch.timeout_seconds", 10)
	v.SetDefault("fetch.cooldown_seconds", 1)
	v.SetDefault("fetch.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("paths.work_dir", "temp")
	v.SetDefault("paths.data_dir", "data")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url must be set")
	}
	if c.Fetch.Concurrency <= 0 {
		return fmt.Errorf("fetch.concurrency must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.CooldownSeconds < 0 {
		return fmt.Errorf("fetch.cooldown_seconds must be >= 0")
	}
	if c.Paths.WorkDir == "" {
		return fmt.Errorf("paths.work_dir must be set")
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir must be set")
	}
	return nil
}

// Timeout returns the per-fetch hard timeout as a duration.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Cooldown returns the post-fetch pause as a duration.
func (c FetchConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}
