// Package cmd implements the CLI commands for goxtream.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/goxtream/internal/config"
	"github.com/jmylchreest/goxtream/internal/observability"
	"github.com/jmylchreest/goxtream/internal/version"
	"github.com/jmylchreest/goxtream/pkg/httpclient"
	"github.com/jmylchreest/goxtream/pkg/xtream"
)

// cfgFile holds the config file path from CLI flag.
var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "goxtream",
	Short:   "Xtream Codes panel client",
	Version: version.Short(),
	Long: `goxtream is a client for Xtream Codes compatible IPTV panels.

It authenticates against a panel, lists categories and streams
(live/VOD/series), retrieves EPG data and the raw XMLTV document, and
builds or fetches M3U playlists.`,
	// PersistentPreRunE is set in init() to avoid initialization cycle
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set PersistentPreRunE here to avoid initialization cycle
	// (initLogging references rootCmd.PersistentFlags)
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return initLogging()
	}

	// Global flags
	// Note: These flags are NOT bound to viper. Instead, we check if they were
	// explicitly set using Changed() and only then override the config/env values.
	// This preserves the correct priority: CLI flag > env var > config > default
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.goxtream/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("server", "", "panel base URL (e.g. http://example.com:8080)")
	rootCmd.PersistentFlags().String("username", "", "panel username")
	rootCmd.PersistentFlags().String("password", "", "panel password")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set default configuration values before reading config file
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home + "/.goxtream")
		viper.AddConfigPath("/etc/goxtream")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Environment variables
	viper.SetEnvPrefix("GOXTREAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogging configures the slog logger based on configuration.
// Uses the observability package to ensure credential redaction is applied.
//
// Priority order (highest to lowest):
//  1. CLI flags (--log-level, --log-format) - only if explicitly provided
//  2. Environment variables (GOXTREAM_LOGGING_LEVEL, GOXTREAM_LOGGING_FORMAT)
//  3. Config file values
//  4. Built-in defaults (info, text)
func initLogging() error {
	// Start with config/env values (viper handles precedence of env > config > default)
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	// Override with CLI flags only if explicitly set by user.
	// We don't bind flags to viper because viper's flag layer would always
	// override env/config, even when using the flag's default value.
	if rootCmd.PersistentFlags().Changed("log-level") {
		level, _ = rootCmd.PersistentFlags().GetString("log-level")
	}
	if rootCmd.PersistentFlags().Changed("log-format") {
		format, _ = rootCmd.PersistentFlags().GetString("log-format")
	}

	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "text"
	}

	logCfg := config.LoggingConfig{
		Level:  strings.ToLower(level),
		Format: strings.ToLower(format),
	}

	// Handle "warning" as an alias for "warn"
	if logCfg.Level == "warning" {
		logCfg.Level = "warn"
	}

	logger := observability.NewLoggerWithWriter(logCfg, os.Stderr)
	logger = observability.WithApp(logger, version.ApplicationName)
	observability.SetDefault(logger)

	return nil
}

// loadConfig loads the full configuration and applies connection flag
// overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("server") {
		cfg.Source.URL, _ = flags.GetString("server")
	}
	if flags.Changed("username") {
		cfg.Source.Username, _ = flags.GetString("username")
	}
	if flags.Changed("password") {
		cfg.Source.Password, _ = flags.GetString("password")
	}
	return cfg, nil
}

// newClient builds an xtream client from the configuration, wiring in the
// retrying HTTP transport and the redacting logger.
func newClient(cfg *config.Config) (*xtream.Client, error) {
	if cfg.Source.URL == "" {
		return nil, fmt.Errorf("no panel URL configured: set source.url, GOXTREAM_SOURCE_URL, or --server")
	}
	if cfg.Source.Username == "" || cfg.Source.Password == "" {
		return nil, fmt.Errorf("panel credentials are not configured")
	}

	logger := observability.WithComponent(slog.Default(), "httpclient")
	hc := httpclient.New(httpclient.Config{
		Timeout:             cfg.HTTP.Timeout,
		RetryAttempts:       cfg.HTTP.RetryAttempts,
		RetryDelay:          cfg.HTTP.RetryDelay,
		RetryMaxDelay:       cfg.HTTP.RetryMaxDelay,
		BackoffMultiplier:   httpclient.DefaultBackoffMultiplier,
		MaxResponseSize:     cfg.HTTP.MaxResponseSize,
		Logger:              logger,
		EnableDecompression: true,
	})

	opts := []xtream.Option{
		xtream.WithHTTPClient(hc.StandardClient()),
		xtream.WithLogger(observability.WithComponent(slog.Default(), "xtream")),
	}
	if cfg.Source.UserAgent != "" {
		opts = append(opts, xtream.WithUserAgent(cfg.Source.UserAgent))
	}

	client := xtream.NewClient(cfg.Source.URL, cfg.Source.Username, cfg.Source.Password, opts...)
	if cfg.Output.PlaylistType != "" {
		if err := client.SetPlaylistType(cfg.Output.PlaylistType); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// authedClient builds a client and authenticates it, applying the
// configured output format once the allowed formats are known.
func authedClient(ctx context.Context, cmd *cobra.Command) (*xtream.Client, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	client, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	if _, err := client.Authenticate(ctx); err != nil {
		return nil, nil, err
	}

	if cfg.Output.Format != "" {
		if err := client.SetOutputType(cfg.Output.Format); err != nil {
			return nil, nil, err
		}
	}
	return client, cfg, nil
}
