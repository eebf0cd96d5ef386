package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"bugbear/internal/checker"
	"bugbear/internal/config"
	"bugbear/internal/errors"
	"bugbear/internal/parse"
	"bugbear/internal/report"
	"bugbear/internal/storage"
	"bugbear/internal/version"
)

var (
	checkFormat       string
	checkSelect       []string
	checkExtendSelect []string
	checkIgnore       []string
	checkJobs         int
	checkNoCache      bool
	checkShowSource   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Check Python files for likely bugs",
	Long: `Check Python files for likely bugs.

Directories are searched for *.py and *.pyi files, skipping the configured
excludes. Files given explicitly are always checked.

Exit status is 0 when nothing was found, 1 when diagnostics were reported
and 2 when a file could not be checked.

Examples:
  bugbear check
  bugbear check src tests/test_app.py
  bugbear check --extend-select B9 --ignore B018 .
  bugbear check --format sarif . > bugbear.sarif`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "", "Output format (human, json, yaml, sarif)")
	checkCmd.Flags().StringSliceVar(&checkSelect, "select", nil, "Only report codes with these prefixes")
	checkCmd.Flags().StringSliceVar(&checkExtendSelect, "extend-select", nil, "Also report codes with these prefixes")
	checkCmd.Flags().StringSliceVar(&checkIgnore, "ignore", nil, "Never report codes with these prefixes")
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "Files checked in parallel (0 for one per CPU)")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "Do not read or write the result cache")
	checkCmd.Flags().BoolVar(&checkShowSource, "show-source", false, "Print the offending source line under each diagnostic")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyCheckFlags(cmd, cfg); err != nil {
		return err
	}
	logger := newLogger(cfg)

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	if !parse.IsAvailable() {
		lintErr := errors.New(errors.ParserUnavailable, "this binary was built without the tree-sitter parser", nil)
		fmt.Fprintln(os.Stderr, lintErr.Error())
		printSuggestedFixes(lintErr)
		return &exitError{code: exitFailure}
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var cache *storage.Results
	if !checkNoCache && cfg.Cache.Enabled {
		db, err := openCache(cfg, logger)
		if err != nil {
			logger.Warn("Result cache disabled", "error", err)
		} else {
			defer db.Close()
			cache = storage.NewResults(db)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := checker.New(checker.Options{
		Jobs:      cfg.Jobs,
		Exclude:   cfg.Exclude,
		Selection: cfg.Selection(),
		Settings:  cfg.EngineSettings(),
		Cache:     cache,
		Logger:    logger,
	})
	results, err := c.Check(ctx, paths)
	if err != nil {
		return fmt.Errorf("check interrupted: %w", err)
	}

	out := cmd.OutOrStdout()
	opts := report.Options{
		Format:      format,
		Color:       report.ColorEnabled(colorMode, stdoutFile(out)),
		ShowSource:  checkShowSource,
		ToolVersion: version.Version,
	}
	if err := report.Write(out, results, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	summary := checker.Summarize(results)
	logger.Debug("Check finished",
		"files", summary.Files,
		"diagnostics", summary.Diagnostics,
		"errors", summary.Errors,
		"cached", summary.Cached,
		"duration", time.Since(start),
	)

	if code := exitCode(summary); code != exitClean {
		return &exitError{code: code}
	}
	return nil
}

// applyCheckFlags lets flags given on the command line override the
// configuration, then validates the result.
func applyCheckFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = checkFormat
	}
	if flags.Changed("select") {
		cfg.Select = checkSelect
	}
	if flags.Changed("extend-select") {
		cfg.ExtendSelect = append(cfg.ExtendSelect, checkExtendSelect...)
	}
	if flags.Changed("ignore") {
		cfg.Ignore = append(cfg.Ignore, checkIgnore...)
	}
	if flags.Changed("jobs") {
		cfg.Jobs = checkJobs
	}
	if err := cfg.Validate(); err != nil {
		return errors.New(errors.ConfigInvalid, "invalid command line", err)
	}
	return nil
}

// openCache opens the result cache in the configured or default directory.
func openCache(cfg *config.Config, logger *slog.Logger) (*storage.DB, error) {
	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = storage.DefaultDir(); err != nil {
			return nil, errors.New(errors.CacheUnavailable, "no cache directory", err)
		}
	}
	db, err := storage.Open(dir, logger)
	if err != nil {
		var lintErr *errors.LintError
		if stderrors.As(err, &lintErr) {
			return nil, err
		}
		return nil, errors.New(errors.CacheUnavailable, "cannot open result cache", err).WithPath(dir)
	}
	return db, nil
}

// exitCode maps a run's totals to the process exit status. Unreadable or
// unparsable files outrank diagnostics.
func exitCode(s checker.Summary) int {
	switch {
	case s.Errors > 0:
		return exitFailure
	case s.Diagnostics > 0:
		return exitDiagnostics
	default:
		return exitClean
	}
}

func stdoutFile(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}
