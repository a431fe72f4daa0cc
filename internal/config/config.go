package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Data   DataConfig   `mapstructure:"data"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port           string `mapstructure:"port"`
	Env            string `mapstructure:"env"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DataConfig locates the record documents supplied by the storage
// collaborator.
type DataConfig struct {
	RecordsDir string `mapstructure:"records_dir"`
}

// CacheConfig holds insight cache tuning.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	MaxSize         int           `mapstructure:"max_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	StorageKey      string        `mapstructure:"storage_key"`
	StorePath       string        `mapstructure:"store_path"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("data.records_dir", "./data/records")
	v.SetDefault("cache.ttl", "12h")
	v.SetDefault("cache.max_size", 25)
	v.SetDefault("cache.cleanup_interval", "1h")
	v.SetDefault("cache.storage_key", "wellness_insights")
	v.SetDefault("cache.store_path", "./data/cache")

	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("server.port", "PORT")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// A missing config file is fine; env vars and defaults cover it.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Data.RecordsDir == "" {
		return fmt.Errorf("data.records_dir is required")
	}
	if c.Cache.StorePath == "" {
		return fmt.Errorf("cache.store_path is required")
	}
	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("cache.max_size must be positive")
	}
	return nil
}
