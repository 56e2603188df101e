package cmd

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Commands for managing goxtream configuration.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the effective configuration",
	Long: `Dump the effective configuration values in YAML format.

This shows all available configuration options with their current values.
You can redirect this output to a file to create a configuration template:

  goxtream config dump > config.yaml

Configuration can be set via:
  - Config file (config.yaml, ~/.goxtream/config.yaml, /etc/goxtream/config.yaml)
  - Environment variables (GOXTREAM_SOURCE_URL, GOXTREAM_LOGGING_LEVEL, etc.)
  - Command-line flags (for some options)

Environment variables use the GOXTREAM_ prefix and underscores for nesting.
Example: source.url -> GOXTREAM_SOURCE_URL`,
	RunE: runConfigDump,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

// toMap converts a config struct to a map keyed by mapstructure tags,
// formatting durations for human readability.
func toMap(v any) map[string]any {
	result := make(map[string]any)
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		key := fieldType.Tag.Get("mapstructure")
		if key == "" {
			key = fieldType.Name
		}

		switch v := field.Interface().(type) {
		case time.Duration:
			result[key] = v.String()
		default:
			if field.Kind() == reflect.Struct {
				result[key] = toMap(field.Interface())
			} else {
				result[key] = field.Interface()
			}
		}
	}
	return result
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Never dump the credential to stdout.
	if cfg.Source.Password != "" {
		cfg.Source.Password = "[REDACTED]"
	}

	yamlData, err := yaml.Marshal(toMap(cfg))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	fmt.Println("# goxtream Configuration File")
	fmt.Println("# ===========================")
	fmt.Println("#")
	fmt.Println("# Duration format: 30s, 5m, 1h")
	fmt.Println("#")
	fmt.Println("# Environment variable overrides:")
	fmt.Println("#   GOXTREAM_SOURCE_URL, GOXTREAM_SOURCE_USERNAME, GOXTREAM_SOURCE_PASSWORD")
	fmt.Println("#   GOXTREAM_HTTP_TIMEOUT, GOXTREAM_HTTP_RETRY_ATTEMPTS")
	fmt.Println("#   GOXTREAM_OUTPUT_PLAYLIST_TYPE, GOXTREAM_OUTPUT_FORMAT")
	fmt.Println("#   GOXTREAM_LOGGING_LEVEL, GOXTREAM_LOGGING_FORMAT")
	fmt.Println("#")
	fmt.Println("")
	fmt.Print(string(yamlData))

	return nil
}
