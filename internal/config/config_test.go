package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Source: SourceConfig{
			URL:      "http://example.com:8080",
			Username: "user",
			Password: "pass",
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			RetryAttempts: 4,
		},
		Output:  OutputConfig{PlaylistType: "m3u"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Load without config file should use defaults
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Source defaults
	assert.Empty(t, cfg.Source.URL)
	assert.Empty(t, cfg.Source.Username)

	// HTTP defaults
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 4, cfg.HTTP.RetryAttempts)
	assert.Equal(t, 1*time.Second, cfg.HTTP.RetryDelay)
	assert.Equal(t, 12*time.Second, cfg.HTTP.RetryMaxDelay)
	assert.Equal(t, int64(0), cfg.HTTP.MaxResponseSize)

	// Output defaults
	assert.Equal(t, "m3u", cfg.Output.PlaylistType)
	assert.Empty(t, cfg.Output.Format)

	// Logging defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
source:
  url: http://panel.example.com:8080
  username: alice
  password: secret
http:
  timeout: 10s
  retry_attempts: 2
output:
  playlist_type: m3u_plus
  format: m3u8
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://panel.example.com:8080", cfg.Source.URL)
	assert.Equal(t, "alice", cfg.Source.Username)
	assert.Equal(t, "secret", cfg.Source.Password)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.RetryAttempts)
	assert.Equal(t, "m3u_plus", cfg.Output.PlaylistType)
	assert.Equal(t, "m3u8", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GOXTREAM_SOURCE_URL", "http://env.example.com")
	t.Setenv("GOXTREAM_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://env.example.com", cfg.Source.URL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.HTTP.Timeout = 0 },
			wantErr: "http.timeout",
		},
		{
			name:    "negative retries",
			modify:  func(c *Config) { c.HTTP.RetryAttempts = -1 },
			wantErr: "http.retry_attempts",
		},
		{
			name:    "bad playlist type",
			modify:  func(c *Config) { c.Output.PlaylistType = "pls" },
			wantErr: "output.playlist_type",
		},
		{
			name:    "bad output format",
			modify:  func(c *Config) { c.Output.Format = "avi" },
			wantErr: "output.format",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
