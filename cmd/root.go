package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/readwise-cli/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  = zerolog.Nop()

	version   = "dev"
	buildTime = "unknown"

	// Global flags
	tokenFlag    string
	outputFlag   string
	logLevelFlag string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "readwise",
	Short: "A command-line client for Readwise and Readwise Reader",
	Long: `readwise is a CLI for the Readwise highlight service and the Reader API.

It lists and exports highlights, books, tags and the daily review, saves
documents to Reader, and creates highlights and book tags. Results are printed
as JSON (one object per line when piped) or as text.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// SetVersion records build information for the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.readwise/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Readwise access token (overrides READWISE_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "output format: auto, json, jsonl or text")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(testCmd)
}

// initializeApp loads the configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if tokenFlag != "" {
		cfg.Token = tokenFlag
	}
	if outputFlag != "" {
		cfg.Output.Format = outputFlag
	}
	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}

	logger = setupLogger(cfg.Logging)
	logger.Debug().
		Str("version", version).
		Str("base_url", cfg.API.BaseURL).
		Str("reader_url", cfg.API.ReaderURL).
		Msg("Configuration loaded")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Color only when stderr is an interactive terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the configured tokens against Readwise and Reader",
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rw, err := newReadwiseClient()
	if err != nil {
		return err
	}

	fmt.Printf("Testing token against Readwise at %s...\n", rw.BaseURL())
	if err := rw.ValidateToken(ctx); err != nil {
		return err
	}
	fmt.Println("✓ Readwise token is valid")

	rd, err := newReaderClient()
	if err != nil {
		return err
	}

	fmt.Printf("Testing token against Reader at %s...\n", rd.BaseURL())
	if err := rd.ValidateToken(ctx); err != nil {
		return err
	}
	fmt.Println("✓ Reader token is valid")

	return nil
}
