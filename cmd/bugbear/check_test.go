package main

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"bugbear/internal/checker"
	"bugbear/internal/config"
	"bugbear/internal/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		summary checker.Summary
		want    int
	}{
		{checker.Summary{Files: 3}, exitClean},
		{checker.Summary{Files: 3, Diagnostics: 2}, exitDiagnostics},
		{checker.Summary{Files: 3, Diagnostics: 2, Errors: 1}, exitFailure},
		{checker.Summary{Files: 1, Errors: 1}, exitFailure},
	}
	for _, tt := range tests {
		if got := exitCode(tt.summary); got != tt.want {
			t.Errorf("exitCode(%+v) = %d, want %d", tt.summary, got, tt.want)
		}
	}
}

func TestApplyCheckFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ignore = []string{"B018"}

	err := checkCmd.ParseFlags([]string{"--format", "json", "--extend-select", "B9,B90", "--ignore", "B023", "-j", "3"})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if err := applyCheckFlags(checkCmd, cfg); err != nil {
		t.Fatalf("applyCheckFlags() error = %v", err)
	}

	if cfg.Format != "json" || cfg.Jobs != 3 {
		t.Errorf("format/jobs = %q/%d", cfg.Format, cfg.Jobs)
	}
	if !slices.Equal(cfg.ExtendSelect, []string{"B9", "B90"}) {
		t.Errorf("ExtendSelect = %v", cfg.ExtendSelect)
	}
	if !slices.Equal(cfg.Ignore, []string{"B018", "B023"}) {
		t.Errorf("Ignore = %v, want the flag appended to the config", cfg.Ignore)
	}
	if cfg.Select != nil {
		t.Errorf("Select = %v, want untouched", cfg.Select)
	}

	if err := checkCmd.Flags().Set("format", "xml"); err != nil {
		t.Fatal(err)
	}
	err = applyCheckFlags(checkCmd, config.DefaultConfig())
	if !errors.Is(err, errors.ConfigInvalid) {
		t.Errorf("applyCheckFlags(xml) = %v, want CONFIG_INVALID", err)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetOut(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "bugbear ") {
		t.Errorf("version output = %q", buf.String())
	}
}
