package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, "https://readwise.io/api/v2", cfg.API.BaseURL)
	assert.Equal(t, "https://readwise.io/api/v3", cfg.API.ReaderURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 1000, cfg.API.PageSize)
	assert.Equal(t, 240, cfg.API.RequestsPerMinute)
	assert.Equal(t, 20, cfg.API.ReaderRequestsPerMinute)
	assert.Equal(t, 0, cfg.API.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.API.TransientRetryDelay)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "auto", cfg.Output.Format)
	assert.Equal(t, "s0up4200/readwise-cli", cfg.Update.Repository)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "config.yaml", `
token: file-token
api:
  page_size: 100
  max_retries: 3
  timeout: 10s
logging:
  level: debug
  format: json
filters:
  favorites: hasTag("favorite")
`)

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, "file-token", cfg.ReaderAPIToken())
	assert.Equal(t, 100, cfg.API.PageSize)
	assert.Equal(t, 3, cfg.API.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, FilterConfig{"favorites": `hasTag("favorite")`}, cfg.Filters)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "token: file-token\n")
	t.Setenv("READWISE_TOKEN", "env-token")
	t.Setenv("READWISE_READER_TOKEN", "reader-env-token")
	t.Setenv("READWISE_API_PAGE_SIZE", "50")

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "reader-env-token", cfg.ReaderAPIToken())
	assert.Equal(t, 50, cfg.API.PageSize)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	envFile := writeFile(t, ".env", "READWISE_LOGGING_LEVEL=warn\n")
	t.Cleanup(func() { os.Unsetenv("READWISE_LOGGING_LEVEL") })

	cfg, err := load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API: APIConfig{
				BaseURL:   "https://readwise.io/api/v2",
				ReaderURL: "https://readwise.io/api/v3",
				PageSize:  1000,
			},
			Logging: LoggingConfig{Level: "info", Format: "console"},
			Output:  OutputConfig{Format: "auto"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "invalid logging level"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "invalid logging format"},
		{name: "bad output", mutate: func(c *Config) { c.Output.Format = "yaml" }, wantErr: "invalid output format"},
		{name: "page size too large", mutate: func(c *Config) { c.API.PageSize = 5000 }, wantErr: "api.page_size"},
		{name: "page size zero", mutate: func(c *Config) { c.API.PageSize = 0 }, wantErr: "api.page_size"},
		{name: "negative rate", mutate: func(c *Config) { c.API.RequestsPerMinute = -1 }, wantErr: "rates"},
		{name: "negative retries", mutate: func(c *Config) { c.API.MaxRetries = -1 }, wantErr: "retry"},
		{name: "missing base url", mutate: func(c *Config) { c.API.BaseURL = "" }, wantErr: "api.base_url"},
		{name: "empty filter", mutate: func(c *Config) { c.Filters = FilterConfig{"x": " "} }, wantErr: "filter 'x'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
