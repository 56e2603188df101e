// Package config provides configuration management for goxtream using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultHTTPTimeout     = 30 * time.Second
	defaultRetryAttempts   = 4
	defaultRetryDelay      = 1 * time.Second
	defaultRetryMaxDelay   = 12 * time.Second
	defaultMaxResponseSize = 0 // no limit
	defaultPlaylistType    = "m3u"
)

// Config holds all configuration for the application.
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig identifies the Xtream panel to talk to.
type SourceConfig struct {
	URL       string `mapstructure:"url"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	UserAgent string `mapstructure:"user_agent"`
}

// HTTPConfig holds transport-level settings.
type HTTPConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	RetryAttempts   int           `mapstructure:"retry_attempts"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	RetryMaxDelay   time.Duration `mapstructure:"retry_max_delay"`
	MaxResponseSize int64         `mapstructure:"max_response_size"`
}

// OutputConfig holds playlist output settings.
type OutputConfig struct {
	// PlaylistType is the type requested from the server's native M3U
	// endpoint: "m3u" or "m3u_plus".
	PlaylistType string `mapstructure:"playlist_type"`

	// Format is the live stream output format ("", "ts", "rtmp", "m3u8").
	// Must be one of the formats the server allows for the account.
	Format string `mapstructure:"format"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with GOXTREAM_ and use underscores for
// nesting. Example: GOXTREAM_SOURCE_URL=http://example.com:8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	SetDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/goxtream")
		v.AddConfigPath("$HOME/.goxtream")
	}

	// Environment variable settings
	v.SetEnvPrefix("GOXTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file to ensure defaults
// are in place.
func SetDefaults(v *viper.Viper) {
	// Source defaults. URL and credentials have no sensible defaults; they
	// must come from the config file, environment, or CLI flags.
	v.SetDefault("source.url", "")
	v.SetDefault("source.username", "")
	v.SetDefault("source.password", "")
	v.SetDefault("source.user_agent", "")

	// HTTP defaults
	v.SetDefault("http.timeout", defaultHTTPTimeout)
	v.SetDefault("http.retry_attempts", defaultRetryAttempts)
	v.SetDefault("http.retry_delay", defaultRetryDelay)
	v.SetDefault("http.retry_max_delay", defaultRetryMaxDelay)
	v.SetDefault("http.max_response_size", defaultMaxResponseSize)

	// Output defaults
	v.SetDefault("output.playlist_type", defaultPlaylistType)
	v.SetDefault("output.format", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// HTTP validation
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.RetryAttempts < 0 {
		return fmt.Errorf("http.retry_attempts must not be negative")
	}

	// Output validation
	validPlaylistTypes := map[string]bool{"m3u": true, "m3u_plus": true}
	if !validPlaylistTypes[c.Output.PlaylistType] {
		return fmt.Errorf("output.playlist_type must be one of: m3u, m3u_plus")
	}
	validFormats := map[string]bool{"": true, "ts": true, "rtmp": true, "m3u8": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output.format must be one of: ts, rtmp, m3u8 (or empty)")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
