package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"bugbear/internal/config"
	"bugbear/internal/errors"
	"bugbear/internal/slogutil"
	"bugbear/internal/version"
)

// Exit statuses of `bugbear check`.
const (
	exitClean       = 0
	exitDiagnostics = 1
	exitFailure     = 2
)

var (
	verbosity  int
	quiet      bool
	configPath string
	colorMode  string
)

var rootCmd = &cobra.Command{
	Use:   "bugbear",
	Short: "bugbear - find likely bugs in Python code",
	Long: `bugbear analyses Python source for likely bugs and design problems:
closures that capture loop variables, redundant or ineffective except
clauses, loops that mutate their own iterable, reused groupby groups and
exceptions that are given a note but never raised.`,
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.SetVersionTemplate("bugbear version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log output (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: .bugbear.* or pyproject.toml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize output: auto, always, never")
}

// loadConfig reads and validates the configuration for the working
// directory.
func loadConfig() (*config.Config, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadConfig(root, configPath)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "cannot load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "invalid configuration", err).WithPath(cfg.Source)
	}
	return cfg, nil
}

// newLogger writes to stderr at the level chosen by -v/-q or, without
// them, by logging.level.
func newLogger(cfg *config.Config) *slog.Logger {
	return slogutil.NewLogger(os.Stderr, slogutil.ResolveLevel(cfg.Logging.Level, verbosity, quiet))
}

// printSuggestedFixes lists the fixes attached to a LintError on stderr.
func printSuggestedFixes(err *errors.LintError) {
	for _, fix := range err.SuggestedFixes {
		switch fix.Type {
		case errors.RunCommand:
			fmt.Fprintf(os.Stderr, "  hint: %s: %s\n", fix.Description, fix.Command)
		case errors.EditConfig:
			fmt.Fprintf(os.Stderr, "  hint: %s (%s)\n", fix.Description, fix.Key)
		}
	}
}
