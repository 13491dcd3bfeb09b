// Package cli implements the caretip command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/caretip/internal/config"
	"github.com/tessro/caretip/internal/logging"
	"github.com/tessro/caretip/internal/paths"
)

var (
	// configPath is the global --config flag value.
	configPath string

	// logLevel is the global --log-level flag value.
	logLevel string

	// caretipDir is the global --caretip-dir flag value.
	caretipDir string
)

var rootCmd = &cobra.Command{
	Use:   "caretip",
	Short: "Input-method marker for the text cursor",
	Long: "caretip shows a colored marker next to the text cursor that tracks the " +
		"keyboard input mode (Chinese or English) and caps lock, as reported by the " +
		"ime_checker helper.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set CARETIP_DIR so every path helper sees the override.
		if caretipDir != "" {
			if err := os.Setenv(paths.EnvCaretipDir, caretipDir); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/caretip/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&caretipDir, "caretip-dir", "", "base directory for caretip data (overrides ~/.caretip)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the config path and loads it with flag overrides applied.
func loadConfig() (*config.Config, string, error) {
	path, err := config.Path(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = strings.ToLower(logLevel)
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}
	}
	return cfg, path, nil
}

// setupLogging starts file logging per cfg. extra, if non-nil, receives a
// copy of every record.
func setupLogging(cfg *config.Config, extra io.Writer) func() {
	cleanup, err := logging.Setup(logging.Options{
		Path:       cfg.Log.Path,
		Level:      logging.ParseLevel(cfg.Log.Level),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Extra:      extra,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "caretip: logging disabled: %v\n", err)
		return func() {}
	}
	return cleanup
}
