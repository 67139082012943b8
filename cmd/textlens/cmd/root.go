// Package cmd contains all CLI commands for textlens.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/textlens/internal/api"
	"github.com/f3rmion/textlens/internal/config"
	"github.com/f3rmion/textlens/internal/output"
	"github.com/f3rmion/textlens/internal/tui"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	apiURL    string
	colorMode string
	cfg       *config.Config
	logger    *slog.Logger
	version   = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "textlens",
	Short: "Analyze text for hallucinations and emotions",
	Long: `textlens is a terminal client for a text analysis service.

Each analysis returns a hallucination score, from 0 (unsupported) to 1
(well grounded), and the emotions detected in the text. Past analyses are
shown as charts and a history table.

Running 'textlens' without arguments launches the interactive TUI.

Example usage:
  textlens                          # Launch the TUI
  textlens analyze "some text"      # Analyze once and print the result
  textlens history                  # Print the history table and charts
  textlens config init              # Write a default config file`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE: runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/textlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only essential output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "analysis service address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")
}

// initConfig loads the configuration and sets up the stderr logger.
func initConfig(cmd *cobra.Command) error {
	var err error

	logger = newLogger(cmd.ErrOrStderr(), slog.LevelInfo)

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if apiURL != "" {
		cfg.API.URL = apiURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--api-url: %w", err)
		}
	}

	logger = newLogger(cmd.ErrOrStderr(), logLevel())
	logger.Debug("configuration loaded",
		"api_url", cfg.API.URL,
		"submit_per_minute", cfg.API.SubmitPerMinute,
		"emotion_lines", cfg.UI.EmotionLines,
	)

	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// logLevel resolves the configured level; --verbose forces debug.
func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Logging.Level))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newClient builds the service client from the loaded configuration.
func newClient(l *slog.Logger) *api.Client {
	return api.NewClient(cfg.API.URL,
		api.WithSubmitRate(cfg.API.SubmitPerMinute),
		api.WithLogger(l),
	)
}

func newPrinter(cmd *cobra.Command) (*output.Printer, error) {
	mode, err := output.ParseColorMode(colorMode)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(output.PrinterOptions{
		ColorMode: mode,
		Quiet:     quiet,
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
	}), nil
}

// logFilePath returns where the TUI writes its log.
func logFilePath() (string, error) {
	if cfg.Logging.File != "" {
		return cfg.Logging.File, nil
	}
	dir, err := config.EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "textlens.log"), nil
}

// runTUI launches the interactive TUI. The TUI owns the terminal, so its
// log goes to a file instead of stderr.
func runTUI(cmd *cobra.Command, args []string) error {
	path, err := logFilePath()
	if err != nil {
		return fmt.Errorf("resolving log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	tuiLogger := newLogger(f, logLevel())
	tuiLogger.Info("starting tui", "api_url", cfg.API.URL, "version", version)

	p := tea.NewProgram(
		tui.NewApp(newClient(tuiLogger), cfg, tuiLogger),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
