package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StrategyArchive  = "archive"
	StrategyFilename = "filename"

	defaultPort        = 3000
	defaultAPIURL      = "https://addons-ecs.forgesvc.net/api/v2"
	defaultUserAgent   = "curse-update-proxy/dev"
	defaultHTTPTimeout = 60 * time.Second
)

// Config holds all configuration for the proxy.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	Port               int           `mapstructure:"PORT"`
	CurseAPIURL        string        `mapstructure:"CURSE_API_URL"`
	UserAgent          string        `mapstructure:"USERAGENT"`
	ResolutionStrategy string        `mapstructure:"RESOLUTION_STRATEGY"` // "archive" or "filename"
	AllowedAuthor      string        `mapstructure:"ALLOWED_AUTHOR"`      // empty disables the author check
	HTTPTimeout        time.Duration `mapstructure:"HTTP_TIMEOUT"`
	MetricsAddr        string        `mapstructure:"METRICS_ADDR"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
}

var envKeys = []string{
	"PORT",
	"CURSE_API_URL",
	"USERAGENT",
	"RESOLUTION_STRATEGY",
	"ALLOWED_AUTHOR",
	"HTTP_TIMEOUT",
	"METRICS_ADDR",
	"LOG_LEVEL",
}

// LoadConfig reads configuration from an optional .env file in path and the environment.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	vipErr := v.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			slog.Warn("Unable to bind env var", "key", key, "error", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", err)
	}

	processConfigDefaults(&config)

	if err := validate(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// processConfigDefaults fills in every value that was left unset.
func processConfigDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.CurseAPIURL == "" {
		cfg.CurseAPIURL = defaultAPIURL
	}
	cfg.CurseAPIURL = strings.TrimRight(cfg.CurseAPIURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
		slog.Warn("USERAGENT not set in config or environment, using default.")
	}
	if cfg.ResolutionStrategy == "" {
		cfg.ResolutionStrategy = StrategyArchive
	}
	cfg.ResolutionStrategy = strings.ToLower(cfg.ResolutionStrategy)
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.AllowedAuthor = strings.TrimSpace(cfg.AllowedAuthor)
}

func validate(cfg *Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	switch cfg.ResolutionStrategy {
	case StrategyArchive, StrategyFilename:
	default:
		return fmt.Errorf("RESOLUTION_STRATEGY must be %q or %q, got %q",
			StrategyArchive, StrategyFilename, cfg.ResolutionStrategy)
	}
	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative")
	}
	return nil
}

// Addr is the listen address for the proxy.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
