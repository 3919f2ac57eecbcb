package config

import (
	"time"
)

// Config represents the complete configuration structure
type Config struct {
	Token       string        `mapstructure:"token"`
	ReaderToken string        `mapstructure:"reader_token"`
	API         APIConfig     `mapstructure:"api"`
	Filters     FilterConfig  `mapstructure:"filters"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Output      OutputConfig  `mapstructure:"output"`
	Update      UpdateConfig  `mapstructure:"update"`
}

// ReaderAPIToken returns the Reader token, falling back to the main token
func (c *Config) ReaderAPIToken() string {
	if c.ReaderToken != "" {
		return c.ReaderToken
	}
	return c.Token
}

// APIConfig holds connection and pacing settings shared by both APIs
type APIConfig struct {
	BaseURL                 string        `mapstructure:"base_url"`
	ReaderURL               string        `mapstructure:"reader_url"`
	Timeout                 time.Duration `mapstructure:"timeout"`
	PageSize                int           `mapstructure:"page_size"`
	RequestsPerMinute       int           `mapstructure:"requests_per_minute"`
	ReaderRequestsPerMinute int           `mapstructure:"reader_requests_per_minute"`
	MaxRetries              int           `mapstructure:"max_retries"`
	TransientRetryDelay     time.Duration `mapstructure:"transient_retry_delay"`
	MaxTransientRetries     int           `mapstructure:"max_transient_retries"`
}

// FilterConfig contains named filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Indent bool   `mapstructure:"indent"`
}

// UpdateConfig controls self-update
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
