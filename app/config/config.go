// Package config loads application configuration from file and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache backends understood by the remote client.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string        `mapstructure:"PORT"`
	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`
	CacheBackend   string        `mapstructure:"CACHE_BACKEND"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	CommentsDBPath string        `mapstructure:"COMMENTS_DB_PATH"`
	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`
	SearchDebounce time.Duration `mapstructure:"SEARCH_DEBOUNCE"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	Env            string        `mapstructure:"APP_ENV"`
}

var keys = []string{
	"PORT", "API_BASE_URL", "CACHE_TTL", "CACHE_BACKEND", "REDIS_URL",
	"COMMENTS_DB_PATH", "HTTP_TIMEOUT", "SEARCH_DEBOUNCE", "LOG_LEVEL", "APP_ENV",
}

// Load reads config.yml from the working directory (optional) and applies
// environment overrides on top of the defaults.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with an explicit search directory for config.yml.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("API_BASE_URL", "https://jsonplaceholder.typicode.com")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CACHE_BACKEND", CacheBackendMemory)
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("COMMENTS_DB_PATH", "data/comments")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("SEARCH_DEBOUNCE", "300ms")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "development")

	// AutomaticEnv only applies to keys viper already knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate ensures required values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.CacheBackend == CacheBackendRedis && c.RedisURL == "" {
		return errors.New("REDIS_URL is required for the redis cache backend")
	}
	if c.CommentsDBPath == "" {
		return errors.New("COMMENTS_DB_PATH is required")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if c.SearchDebounce < 0 {
		return errors.New("SEARCH_DEBOUNCE cannot be negative")
	}
	return nil
}

// IsProduction reports whether APP_ENV names a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
