package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/readwise-cli/reader"
	"github.com/s0up4200/readwise-cli/readwise"
)

// EnvPrefix prefixes every environment variable the CLI reads
const EnvPrefix = "READWISE"

// Load loads the configuration from defaults, an optional config file, a
// .env file in the working directory and the environment.
func Load(configPath string) (*Config, error) {
	return load(configPath, ".env")
}

func load(configPath string, envFiles ...string) (*Config, error) {
	for _, envFile := range envFiles {
		// Existing environment variables win over .env entries
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".readwise"))
		}

		v.AddConfigPath("/etc/readwise/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The file is optional unless named explicitly
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("token", "")
	v.SetDefault("reader_token", "")

	// API defaults
	v.SetDefault("api.base_url", readwise.DefaultBaseURL)
	v.SetDefault("api.reader_url", reader.DefaultBaseURL)
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.page_size", 1000)
	v.SetDefault("api.requests_per_minute", 240)
	v.SetDefault("api.reader_requests_per_minute", 20)
	v.SetDefault("api.max_retries", 0)
	v.SetDefault("api.transient_retry_delay", "5s")
	v.SetDefault("api.max_transient_retries", 0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	// Output defaults
	v.SetDefault("output.format", "auto")
	v.SetDefault("output.indent", true)

	v.SetDefault("update.repository", "s0up4200/readwise-cli")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if cfg.API.ReaderURL == "" {
		return fmt.Errorf("api.reader_url is required")
	}

	if cfg.API.PageSize < 1 || cfg.API.PageSize > 1000 {
		return fmt.Errorf("invalid api.page_size: %d (must be between 1 and 1000)", cfg.API.PageSize)
	}
	if cfg.API.RequestsPerMinute < 0 || cfg.API.ReaderRequestsPerMinute < 0 {
		return fmt.Errorf("api request rates must not be negative")
	}
	if cfg.API.MaxRetries < 0 || cfg.API.MaxTransientRetries < 0 {
		return fmt.Errorf("api retry limits must not be negative")
	}
	if cfg.API.Timeout < 0 || cfg.API.TransientRetryDelay < 0 {
		return fmt.Errorf("api durations must not be negative")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	validOutputs := map[string]bool{
		"auto":  true,
		"json":  true,
		"jsonl": true,
		"text":  true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be auto, json, jsonl or text)", cfg.Output.Format)
	}

	for name, expression := range cfg.Filters {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter '%s' has an empty expression", name)
		}
	}

	return nil
}
