package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/s0up4200/readwise-cli/api"
	"github.com/s0up4200/readwise-cli/filter"
	"github.com/s0up4200/readwise-cli/reader"
	"github.com/s0up4200/readwise-cli/readwise"
)

var filterCompiler = filter.NewCompiler(
	filter.WithCache(100),
	filter.WithCustomFunctions(map[string]any{
		"words": wordCount,
	}),
)

// wordCount backs the words() filter helper
func wordCount(s string) int {
	return len(strings.Fields(s))
}

// clientOptions translates the api config section into client options
func clientOptions(requestsPerMinute int) []api.Option {
	opts := []api.Option{
		api.WithPageSize(cfg.API.PageSize),
		api.WithMaxRetries(cfg.API.MaxRetries),
		api.WithTransientRetryDelay(cfg.API.TransientRetryDelay),
		api.WithMaxTransientRetries(cfg.API.MaxTransientRetries),
		api.WithRateLimit(requestsPerMinute, 1),
		api.WithUserAgent("readwise-cli/" + version),
	}
	if cfg.API.Timeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.API.Timeout))
	}
	return opts
}

func newReadwiseClient() (*readwise.Client, error) {
	client, err := readwise.NewClient(cfg.API.BaseURL, cfg.Token, logger, clientOptions(cfg.API.RequestsPerMinute)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Readwise client (set token or READWISE_TOKEN): %w", err)
	}
	return client, nil
}

func newReaderClient() (*reader.Client, error) {
	client, err := reader.NewClient(cfg.API.ReaderURL, cfg.ReaderAPIToken(), logger, clientOptions(cfg.API.ReaderRequestsPerMinute)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Reader client (set reader_token or READWISE_READER_TOKEN): %w", err)
	}
	return client, nil
}

// compileFilter compiles a --filter value. A value of the form @name
// refers to a named filter from the config file.
func compileFilter(expression string) (*filter.Filter, error) {
	if expression == "" {
		return nil, nil
	}

	if name, ok := strings.CutPrefix(expression, "@"); ok {
		named, found := cfg.Filters[strings.ToLower(name)]
		if !found {
			return nil, fmt.Errorf("filter '%s' not found in config", name)
		}
		expression = named
	}

	f, err := filterCompiler.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f, nil
}

// parseTimeFlag accepts an RFC 3339 timestamp or a YYYY-MM-DD date
func parseTimeFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := api.ParseTimestamp(name, &value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return *t, nil
}
